package model

import "time"

// StoryText はテキスト生成段階の結果
type StoryText struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// OpeningLine は物語本文の最初の一文（表紙プロンプト用）を返す
func (s *StoryText) OpeningLine() string {
	for i, r := range s.Content {
		switch r {
		case '.', '!', '?', '\n', '。':
			return s.Content[:i+len(string(r))]
		}
	}
	return s.Content
}

// Cover は画像生成段階の結果
// Dataがある場合はそれを優先し、ない場合はURLから取得する
type Cover struct {
	URL      string
	Data     []byte
	MimeType string
}

// HasData は画像バイナリを保持しているかどうかを判定する
func (c *Cover) HasData() bool {
	return c != nil && len(c.Data) > 0
}

// GeneratedStory は生成中・生成済みの物語（セッションが所有する）
type GeneratedStory struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	CoverURL string `json:"coverUrl"`
	Emojis   string `json:"emojis"`
}

// StoryRecord はstoriesテーブルに保存された物語
type StoryRecord struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Emojis    string    `json:"emojis"`
	CoverURL  string    `json:"cover_url"`
	CreatedAt time.Time `json:"created_at"`
}

// StoryInsert はstoriesテーブルへの挿入行（id, created_atはストレージ側で採番）
type StoryInsert struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Emojis   string `json:"emojis"`
	CoverURL string `json:"cover_url"`
}

// UploadOptions はオブジェクトストレージへのアップロード設定
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

// GetStoriesResponse は物語一覧のレスポンス
type GetStoriesResponse struct {
	Stories []StoryRecord `json:"stories"`
}
