package model

import (
	"errors"
	"fmt"
)

// パイプライン各段階のエラー
var (
	ErrStoryGenerationFailed = errors.New("failed to generate story")
	ErrImageGenerationFailed = errors.New("failed to generate image")
	ErrMalformedStoryJSON    = errors.New("malformed story json")
	ErrCoverFetchFailed      = errors.New("failed to fetch cover image")
	ErrCoverUploadFailed     = errors.New("failed to upload cover image")
	ErrStoryInsertFailed     = errors.New("failed to insert story")
)

// 読み取り側・セッションのエラー
var (
	ErrStoryNotFound        = errors.New("story not found")
	ErrSessionNotFound      = errors.New("session not found")
	ErrGenerationInProgress = errors.New("generation already in progress")
	ErrInvalidEmoji         = errors.New("invalid emoji")
	ErrIndexOutOfRange      = errors.New("index out of range")
	ErrWrongSelectionMode   = errors.New("operation not supported in this selection mode")
	ErrCoverNotAvailable    = errors.New("cover not available")
)

// ValidationError は送信前の検証エラー（ネットワーク呼び出しなしでIdleに戻る）
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// GenerationError はパイプラインの段階と原因を保持するエラー
type GenerationError struct {
	Stage GenerationState
	Err   error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}
