package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/usecase"
)

// DefaultSessionTTL は放置されたセッションの有効期間
const DefaultSessionTTL = 30 * time.Minute

// SessionService 生成ページの状態（選択・生成中フラグ・結果・エラー）を保持するサービス
type SessionService interface {
	// CreateSession 入力方式を指定してセッションを作成
	CreateSession(mode string) (*model.GenerationSnapshot, error)

	// GetSession セッションの現在の状態を取得
	GetSession(id string) (*model.GenerationSnapshot, error)

	// DeleteSession セッションを破棄（実行中のパイプラインは完了まで続く）
	DeleteSession(id string) error

	// AddEmoji ピッカー方式で絵文字を追加（上限に達している場合は何もしない）
	AddEmoji(id, emoji string) (*model.GenerationSnapshot, error)

	// RemoveEmoji 指定位置の絵文字を削除（自由入力方式では枠をクリア）
	RemoveEmoji(id string, index int) (*model.GenerationSnapshot, error)

	// RemoveLastEmoji 最後の絵文字を削除
	RemoveLastEmoji(id string) (*model.GenerationSnapshot, error)

	// ClearEmojis 選択をすべてクリア
	ClearEmojis(id string) (*model.GenerationSnapshot, error)

	// SetSlot 自由入力方式の枠に入力値を設定
	SetSlot(id string, index int, value string) (*model.GenerationSnapshot, error)

	// Submit パイプラインを開始し、検証を通過するか検証エラーで戻った時点の状態を返す
	Submit(ctx context.Context, id string) (*model.GenerationSnapshot, error)

	// Wait 実行中のパイプラインが終わるまで待つ
	Wait(ctx context.Context, id string) (*model.GenerationSnapshot, error)

	// GetCover 画像生成段階で得た一時的な表紙画像を取得
	GetCover(id string) ([]byte, string, error)
}

// SessionConfig セッションの設定
type SessionConfig struct {
	TTL                     time.Duration
	MaxEmojis               int
	ClearSelectionOnSuccess bool
}

// generationSession 1ページ分の状態
type generationSession struct {
	mu sync.Mutex

	id     string
	mode   model.SelectionMode
	picker *model.EmojiSelection
	slots  *model.EmojiSlots

	state             model.GenerationState
	isGenerating      bool
	story             *model.GeneratedStory
	errorMessage      string
	validationMessage string

	coverData []byte
	coverMime string

	done chan struct{}
}

// sessionServiceImpl SessionServiceの実装
type sessionServiceImpl struct {
	generation usecase.StoryGenerationUseCase
	sessions   *cache.Cache
	cfg        SessionConfig
	logger     *zap.Logger
}

// NewSessionService SessionServiceの新しいインスタンスを作成
func NewSessionService(generation usecase.StoryGenerationUseCase, cfg SessionConfig, logger *zap.Logger) SessionService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultSessionTTL
	}
	if cfg.MaxEmojis <= 0 {
		cfg.MaxEmojis = model.DefaultMaxEmojis
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sessionServiceImpl{
		generation: generation,
		sessions:   cache.New(cfg.TTL, cfg.TTL),
		cfg:        cfg,
		logger:     logger.Named("session"),
	}
}

// CoverPath はセッションの一時的な表紙画像のパス
func CoverPath(sessionID string) string {
	return fmt.Sprintf("/api/sessions/%s/cover", sessionID)
}

func (s *sessionServiceImpl) CreateSession(mode string) (*model.GenerationSnapshot, error) {
	selectionMode, ok := model.ParseSelectionMode(mode)
	if !ok {
		return nil, &model.ValidationError{Field: "mode", Message: fmt.Sprintf("unknown selection mode %q", mode)}
	}

	sess := &generationSession{
		id:    uuid.New().String(),
		mode:  selectionMode,
		state: model.StateIdle,
	}
	if selectionMode == model.SelectionModeSlots {
		sess.slots = model.NewEmojiSlots(s.cfg.MaxEmojis)
	} else {
		sess.picker = model.NewEmojiSelection(s.cfg.MaxEmojis)
	}

	s.sessions.SetDefault(sess.id, sess)
	s.logger.Info("✅ セッション作成", zap.String("session_id", sess.id), zap.String("mode", string(selectionMode)))

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

func (s *sessionServiceImpl) GetSession(id string) (*model.GenerationSnapshot, error) {
	return s.withSession(id, func(sess *generationSession) error { return nil })
}

func (s *sessionServiceImpl) DeleteSession(id string) error {
	if _, err := s.lookup(id); err != nil {
		return err
	}
	s.sessions.Delete(id)
	return nil
}

func (s *sessionServiceImpl) AddEmoji(id, emoji string) (*model.GenerationSnapshot, error) {
	return s.withSession(id, func(sess *generationSession) error {
		if sess.picker == nil {
			return model.ErrWrongSelectionMode
		}
		_, err := sess.picker.Add(emoji)
		return err
	})
}

func (s *sessionServiceImpl) RemoveEmoji(id string, index int) (*model.GenerationSnapshot, error) {
	return s.withSession(id, func(sess *generationSession) error {
		if sess.picker != nil {
			return sess.picker.RemoveAt(index)
		}
		_, err := sess.slots.SetSlot(index, "")
		return err
	})
}

func (s *sessionServiceImpl) RemoveLastEmoji(id string) (*model.GenerationSnapshot, error) {
	return s.withSession(id, func(sess *generationSession) error {
		if sess.picker == nil {
			return model.ErrWrongSelectionMode
		}
		sess.picker.RemoveLast()
		return nil
	})
}

func (s *sessionServiceImpl) ClearEmojis(id string) (*model.GenerationSnapshot, error) {
	return s.withSession(id, func(sess *generationSession) error {
		sess.clearSelectionLocked()
		return nil
	})
}

func (s *sessionServiceImpl) SetSlot(id string, index int, value string) (*model.GenerationSnapshot, error) {
	return s.withSession(id, func(sess *generationSession) error {
		if sess.slots == nil {
			return model.ErrWrongSelectionMode
		}
		_, err := sess.slots.SetSlot(index, value)
		return err
	})
}

func (s *sessionServiceImpl) Submit(ctx context.Context, id string) (*model.GenerationSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	if sess.isGenerating {
		sess.mu.Unlock()
		return nil, model.ErrGenerationInProgress
	}
	sess.isGenerating = true
	sess.state = model.StateValidating
	sess.story = nil
	sess.errorMessage = ""
	sess.validationMessage = ""
	sess.coverData = nil
	sess.coverMime = ""
	sess.done = make(chan struct{})
	emojis := sess.selectionLocked()
	done := sess.done
	sess.mu.Unlock()

	observer := &sessionObserver{session: sess, validated: make(chan struct{})}

	// パイプラインはリクエストから切り離して最後まで実行する
	runCtx := context.WithoutCancel(ctx)
	go s.run(runCtx, sess, emojis, observer)

	select {
	case <-observer.validated:
	case <-done:
	case <-ctx.Done():
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

func (s *sessionServiceImpl) run(ctx context.Context, sess *generationSession, emojis []string, observer *sessionObserver) {
	defer func() {
		sess.mu.Lock()
		sess.isGenerating = false
		close(sess.done)
		sess.mu.Unlock()
		observer.markValidated()
	}()

	result, err := s.generation.Generate(ctx, emojis, observer)

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if err != nil {
		if validationErr, ok := usecase.IsValidationError(err); ok {
			sess.state = model.StateIdle
			sess.validationMessage = validationErr.Message
			return
		}
		// 段階のエラーはログのみ、画面には共通のメッセージを出す
		s.logger.Error("❌ 物語の生成に失敗", zap.String("session_id", sess.id), zap.Error(err))
		sess.state = model.StateFailed
		sess.story = nil
		sess.coverData = nil
		sess.errorMessage = model.MessageGenerationFailed
		return
	}

	sess.state = model.StateComplete
	sess.story = result
	sess.coverData = nil
	sess.coverMime = ""
	if s.cfg.ClearSelectionOnSuccess {
		sess.clearSelectionLocked()
	}
	s.logger.Info("✅ セッションの物語生成完了", zap.String("session_id", sess.id), zap.String("title", result.Title))
}

func (s *sessionServiceImpl) Wait(ctx context.Context, id string) (*model.GenerationSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	done := sess.done
	sess.mu.Unlock()

	if done != nil {
		select {
		case <-done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.snapshotLocked(), nil
}

func (s *sessionServiceImpl) GetCover(id string) ([]byte, string, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	if len(sess.coverData) == 0 {
		return nil, "", model.ErrCoverNotAvailable
	}
	return sess.coverData, sess.coverMime, nil
}

// lookup はセッションを取得し、有効期限を延長する
func (s *sessionServiceImpl) lookup(id string) (*generationSession, error) {
	v, ok := s.sessions.Get(id)
	if !ok {
		return nil, model.ErrSessionNotFound
	}
	sess := v.(*generationSession)
	s.sessions.SetDefault(id, sess)
	return sess, nil
}

// withSession はロックを取得してfnを実行し、実行後の状態を返す
// fnがエラーを返した場合も状態は返す
func (s *sessionServiceImpl) withSession(id string, fn func(sess *generationSession) error) (*model.GenerationSnapshot, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	err = fn(sess)
	return sess.snapshotLocked(), err
}

func (sess *generationSession) selectionLocked() []string {
	if sess.picker != nil {
		return sess.picker.Values()
	}
	return sess.slots.Values()
}

func (sess *generationSession) clearSelectionLocked() {
	if sess.picker != nil {
		sess.picker.Clear()
		return
	}
	sess.slots.Clear()
}

func (sess *generationSession) snapshotLocked() *model.GenerationSnapshot {
	snapshot := &model.GenerationSnapshot{
		SessionID:         sess.id,
		Mode:              sess.mode,
		Emojis:            sess.selectionLocked(),
		State:             sess.state,
		IsGenerating:      sess.isGenerating,
		Error:             sess.errorMessage,
		ValidationMessage: sess.validationMessage,
	}
	if sess.picker != nil {
		snapshot.MaxEmojis = sess.picker.Max()
	} else {
		snapshot.MaxEmojis = sess.slots.Max()
	}
	if sess.story != nil {
		story := *sess.story
		snapshot.Story = &story
	}
	return snapshot
}

// sessionObserver はパイプラインの進捗をセッションに反映する
type sessionObserver struct {
	session   *generationSession
	validated chan struct{}
	once      sync.Once
}

func (o *sessionObserver) markValidated() {
	o.once.Do(func() { close(o.validated) })
}

func (o *sessionObserver) OnStateChange(state model.GenerationState) {
	o.session.mu.Lock()
	o.session.state = state
	o.session.mu.Unlock()

	// 検証エラー（Idleへの遷移）はrunの終了時に通知する
	if state != model.StateValidating && state != model.StateIdle {
		o.markValidated()
	}
}

// OnTextGenerated はテキストが届いた時点で仮の表紙付きの物語を設定する
func (o *sessionObserver) OnTextGenerated(story *model.StoryText, emojis string) {
	o.session.mu.Lock()
	defer o.session.mu.Unlock()
	o.session.story = &model.GeneratedStory{
		Title:    story.Title,
		Content:  story.Content,
		CoverURL: model.PlaceholderCoverURL,
		Emojis:   emojis,
	}
}

// OnCoverGenerated は保存前の表紙を一時的な参照として設定する
func (o *sessionObserver) OnCoverGenerated(cover *model.Cover) {
	o.session.mu.Lock()
	defer o.session.mu.Unlock()
	if o.session.story == nil {
		return
	}
	if cover.HasData() {
		o.session.coverData = cover.Data
		o.session.coverMime = cover.MimeType
		o.session.story.CoverURL = CoverPath(o.session.id)
		return
	}
	o.session.story.CoverURL = cover.URL
}
