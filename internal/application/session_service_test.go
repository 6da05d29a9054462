package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/usecase"
)

// fakeGeneration はテスト用のStoryGenerationUseCase
type fakeGeneration struct {
	generate func(ctx context.Context, emojis []string, observer usecase.GenerationObserver) (*model.GeneratedStory, error)
}

func (f *fakeGeneration) Generate(ctx context.Context, emojis []string, observer usecase.GenerationObserver) (*model.GeneratedStory, error) {
	return f.generate(ctx, emojis, observer)
}

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDRfake")

func newTestSessionService(t *testing.T, gen *fakeGeneration, cfg SessionConfig) SessionService {
	return NewSessionService(gen, cfg, zaptest.NewLogger(t))
}

func TestSession_PickerSelection(t *testing.T) {
	svc := newTestSessionService(t, &fakeGeneration{}, SessionConfig{MaxEmojis: 3})

	snap, err := svc.CreateSession("")
	require.NoError(t, err)
	assert.Equal(t, model.SelectionModePicker, snap.Mode)
	assert.Equal(t, 3, snap.MaxEmojis)
	assert.Equal(t, model.StateIdle, snap.State)

	for _, e := range []string{"🌟", "🌙", "🐉", "🍕"} {
		snap, err = svc.AddEmoji(snap.SessionID, e)
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"🌟", "🌙", "🐉"}, snap.Emojis)

	_, err = svc.AddEmoji(snap.SessionID, "ab")
	assert.ErrorIs(t, err, model.ErrInvalidEmoji)

	snap, err = svc.RemoveEmoji(snap.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"🌟", "🐉"}, snap.Emojis)

	snap, err = svc.RemoveLastEmoji(snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"🌟"}, snap.Emojis)

	snap, err = svc.ClearEmojis(snap.SessionID)
	require.NoError(t, err)
	assert.Empty(t, snap.Emojis)

	_, err = svc.SetSlot(snap.SessionID, 0, "🌟")
	assert.ErrorIs(t, err, model.ErrWrongSelectionMode)
}

func TestSession_SlotsSelection(t *testing.T) {
	svc := newTestSessionService(t, &fakeGeneration{}, SessionConfig{})

	snap, err := svc.CreateSession("slots")
	require.NoError(t, err)
	assert.Equal(t, []string{"", "", "", "", ""}, snap.Emojis)

	snap, err = svc.SetSlot(snap.SessionID, 1, "abc🔥")
	require.NoError(t, err)
	assert.Equal(t, "🔥", snap.Emojis[1])

	snap, err = svc.SetSlot(snap.SessionID, 1, "hello")
	assert.ErrorIs(t, err, model.ErrInvalidEmoji)
	assert.Equal(t, "🔥", snap.Emojis[1])

	snap, err = svc.RemoveEmoji(snap.SessionID, 1)
	require.NoError(t, err)
	assert.Equal(t, "", snap.Emojis[1])

	_, err = svc.SetSlot(snap.SessionID, 9, "🔥")
	assert.ErrorIs(t, err, model.ErrIndexOutOfRange)
}

func TestSession_UnknownModeAndSession(t *testing.T) {
	svc := newTestSessionService(t, &fakeGeneration{}, SessionConfig{})

	_, err := svc.CreateSession("keyboard")
	var validationErr *model.ValidationError
	assert.ErrorAs(t, err, &validationErr)

	_, err = svc.GetSession("missing")
	assert.ErrorIs(t, err, model.ErrSessionNotFound)

	snap, err := svc.CreateSession("picker")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSession(snap.SessionID))
	_, err = svc.GetSession(snap.SessionID)
	assert.ErrorIs(t, err, model.ErrSessionNotFound)
}

func TestSession_SubmitValidationError(t *testing.T) {
	gen := &fakeGeneration{generate: func(ctx context.Context, emojis []string, observer usecase.GenerationObserver) (*model.GeneratedStory, error) {
		observer.OnStateChange(model.StateValidating)
		observer.OnStateChange(model.StateIdle)
		return nil, &model.ValidationError{Field: "emojis", Message: "Please add at least 2 emojis to generate a story!"}
	}}
	svc := newTestSessionService(t, gen, SessionConfig{})

	snap, _ := svc.CreateSession("picker")
	_, _ = svc.AddEmoji(snap.SessionID, "🌟")

	snap, err := svc.Submit(context.Background(), snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StateIdle, snap.State)
	assert.False(t, snap.IsGenerating)
	assert.Equal(t, "Please add at least 2 emojis to generate a story!", snap.ValidationMessage)
	assert.Empty(t, snap.Error)
}

func TestSession_SubmitConflictAndCompletion(t *testing.T) {
	release := make(chan struct{})
	var gotEmojis []string
	gen := &fakeGeneration{generate: func(ctx context.Context, emojis []string, observer usecase.GenerationObserver) (*model.GeneratedStory, error) {
		gotEmojis = emojis
		observer.OnStateChange(model.StateValidating)
		observer.OnStateChange(model.StateGeneratingText)
		observer.OnTextGenerated(&model.StoryText{Title: "Moonlit", Content: "..."}, "🌟🌙")
		observer.OnStateChange(model.StateGeneratingImage)
		observer.OnCoverGenerated(&model.Cover{Data: pngBytes, MimeType: "image/png"})
		observer.OnStateChange(model.StatePersisting)

		<-release
		observer.OnStateChange(model.StateComplete)
		return &model.GeneratedStory{
			Title:    "Moonlit",
			Content:  "...",
			CoverURL: "https://cdn.example.com/moonlit.png",
			Emojis:   "🌟🌙",
		}, nil
	}}
	svc := newTestSessionService(t, gen, SessionConfig{ClearSelectionOnSuccess: true})

	snap, _ := svc.CreateSession("picker")
	id := snap.SessionID
	_, _ = svc.AddEmoji(id, "🌟")
	_, _ = svc.AddEmoji(id, "🌙")

	snap, err := svc.Submit(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, snap.IsGenerating)

	_, err = svc.Submit(context.Background(), id)
	assert.ErrorIs(t, err, model.ErrGenerationInProgress)

	// 保存前は一時的な表紙を参照する
	require.Eventually(t, func() bool {
		s, _ := svc.GetSession(id)
		return s.State == model.StatePersisting
	}, time.Second, 5*time.Millisecond)
	snap, _ = svc.GetSession(id)
	require.NotNil(t, snap.Story)
	assert.Equal(t, CoverPath(id), snap.Story.CoverURL)

	data, mime, err := svc.GetCover(id)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, data)
	assert.Equal(t, "image/png", mime)

	close(release)
	snap, err = svc.Wait(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, []string{"🌟", "🌙"}, gotEmojis)
	assert.Equal(t, model.StateComplete, snap.State)
	assert.False(t, snap.IsGenerating)
	assert.Equal(t, "https://cdn.example.com/moonlit.png", snap.Story.CoverURL)
	assert.Empty(t, snap.Emojis)

	_, _, err = svc.GetCover(id)
	assert.ErrorIs(t, err, model.ErrCoverNotAvailable)
}

func TestSession_SubmitFailureShowsGenericMessage(t *testing.T) {
	gen := &fakeGeneration{generate: func(ctx context.Context, emojis []string, observer usecase.GenerationObserver) (*model.GeneratedStory, error) {
		observer.OnStateChange(model.StateValidating)
		observer.OnStateChange(model.StateGeneratingText)
		observer.OnStateChange(model.StateFailed)
		return nil, &model.GenerationError{Stage: model.StateGeneratingText, Err: errors.New("upstream 503: secret detail")}
	}}
	svc := newTestSessionService(t, gen, SessionConfig{})

	snap, _ := svc.CreateSession("picker")
	_, _ = svc.AddEmoji(snap.SessionID, "🌟")
	_, _ = svc.AddEmoji(snap.SessionID, "🌙")

	_, err := svc.Submit(context.Background(), snap.SessionID)
	require.NoError(t, err)

	snap, err = svc.Wait(context.Background(), snap.SessionID)
	require.NoError(t, err)
	assert.Equal(t, model.StateFailed, snap.State)
	assert.Equal(t, "Failed to generate story. Please try again.", snap.Error)
	assert.Nil(t, snap.Story)
	assert.False(t, snap.IsGenerating)
	assert.Equal(t, []string{"🌟", "🌙"}, snap.Emojis)

	// 失敗後は再送信できる
	_, err = svc.Submit(context.Background(), snap.SessionID)
	assert.NoError(t, err)
	_, _ = svc.Wait(context.Background(), snap.SessionID)
}

func TestSession_RunIsDetachedFromRequest(t *testing.T) {
	release := make(chan struct{})
	runCtxErr := make(chan error, 1)
	gen := &fakeGeneration{generate: func(ctx context.Context, emojis []string, observer usecase.GenerationObserver) (*model.GeneratedStory, error) {
		observer.OnStateChange(model.StateGeneratingText)
		<-release
		runCtxErr <- ctx.Err()
		return &model.GeneratedStory{Title: "A"}, nil
	}}
	svc := newTestSessionService(t, gen, SessionConfig{})

	snap, _ := svc.CreateSession("picker")
	ctx, cancel := context.WithCancel(context.Background())
	_, err := svc.Submit(ctx, snap.SessionID)
	require.NoError(t, err)
	cancel()
	close(release)

	assert.NoError(t, <-runCtxErr)
	snap, _ = svc.Wait(context.Background(), snap.SessionID)
	assert.Equal(t, model.StateComplete, snap.State)
}
