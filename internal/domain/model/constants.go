package model

// SelectionConstants は絵文字選択に関する定数
const (
	DefaultMaxEmojis = 5
	DefaultMinEmojis = 2
)

// StoryConstants は物語生成に関する定数
const (
	UntitledStoryTitle  = "Untitled Story"
	PlaceholderCoverURL = "/placeholder.svg"
	DefaultStoryTable   = "stories"
	DefaultCoverBucket  = "emoji-story"
	CoverPathPrefix     = "public"
	CoverCacheControl   = "90000"
	DefaultCoverMime    = "image/png"
)

// UserMessageConstants はUIにそのまま表示されるメッセージ
const (
	MessageGenerationFailed = "Failed to generate story. Please try again."
	MessageStoryNotFound    = "Story not found"
)

// SelectionMode はセッションの絵文字入力方式
type SelectionMode string

const (
	// SelectionModePicker は絵文字ピッカーで追加していく方式
	SelectionModePicker SelectionMode = "picker"
	// SelectionModeSlots は1枠1絵文字の自由入力方式
	SelectionModeSlots SelectionMode = "slots"
)

// ParseSelectionMode は文字列から入力方式を取得する（空の場合はピッカー）
func ParseSelectionMode(mode string) (SelectionMode, bool) {
	switch SelectionMode(mode) {
	case "", SelectionModePicker:
		return SelectionModePicker, true
	case SelectionModeSlots:
		return SelectionModeSlots, true
	default:
		return "", false
	}
}

// coverExtensionMap はMIMEタイプから拡張子へのマッピング
var coverExtensionMap = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpg",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// GetCoverExtension はMIMEタイプから表紙画像の拡張子を取得する
func GetCoverExtension(mimeType string) string {
	if ext, ok := coverExtensionMap[mimeType]; ok {
		return ext
	}
	return "png" // デフォルトはpng
}
