package model

import "time"

// GenerationState は生成パイプラインの状態
type GenerationState string

const (
	StateIdle            GenerationState = "idle"
	StateValidating      GenerationState = "validating"
	StateGeneratingText  GenerationState = "generating_text"
	StateGeneratingImage GenerationState = "generating_image"
	StatePersisting      GenerationState = "persisting"
	StateComplete        GenerationState = "complete"
	StateFailed          GenerationState = "failed"
)

// IsTerminal は1回の送信における終端状態かどうかを判定する
func (s GenerationState) IsTerminal() bool {
	return s == StateComplete || s == StateFailed
}

// IsWorking はネットワーク処理中の状態かどうかを判定する
func (s GenerationState) IsWorking() bool {
	switch s {
	case StateValidating, StateGeneratingText, StateGeneratingImage, StatePersisting:
		return true
	}
	return false
}

// GenerationRun は1回のパイプライン実行の記録
type GenerationRun struct {
	RunID       string
	Emojis      string
	State       GenerationState
	FailedStage GenerationState
	Title       string
	CoverURL    string
	Error       string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// FirestoreGenerationRun はFirestore保存用の実行記録
type FirestoreGenerationRun struct {
	Emojis      string    `firestore:"emojis"`
	State       string    `firestore:"state"`
	FailedStage string    `firestore:"failed_stage"`
	Title       string    `firestore:"title"`
	CoverURL    string    `firestore:"cover_url"`
	Error       string    `firestore:"error"`
	StartedAt   time.Time `firestore:"started_at"`
	FinishedAt  time.Time `firestore:"finished_at"`
	ExpireAt    time.Time `firestore:"expireAt"`
}

func (r *GenerationRun) ToFirestoreGenerationRun(ttlHours int) *FirestoreGenerationRun {
	return &FirestoreGenerationRun{
		Emojis:      r.Emojis,
		State:       string(r.State),
		FailedStage: string(r.FailedStage),
		Title:       r.Title,
		CoverURL:    r.CoverURL,
		Error:       r.Error,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		ExpireAt:    r.FinishedAt.Add(time.Duration(ttlHours) * time.Hour),
	}
}

// GenerationSnapshot はセッションの現在の状態（UIに返す）
type GenerationSnapshot struct {
	SessionID         string          `json:"session_id"`
	Mode              SelectionMode   `json:"mode"`
	Emojis            []string        `json:"emojis"`
	MaxEmojis         int             `json:"max_emojis"`
	State             GenerationState `json:"state"`
	IsGenerating      bool            `json:"is_generating"`
	Story             *GeneratedStory `json:"story,omitempty"`
	Error             string          `json:"error,omitempty"`
	ValidationMessage string          `json:"validation_message,omitempty"`
}
