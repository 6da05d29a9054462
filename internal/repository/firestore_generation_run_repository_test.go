package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"EmojiStory-App/internal/domain/model"
	"EmojiStory-App/internal/infrastructure/firestore"
)

func TestFirestoreGenerationRunRepository_Integration(t *testing.T) {
	emulator := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if emulator == "" {
		t.Skip("FIRESTORE_EMULATOR_HOSTが設定されていないためスキップ")
	}

	ctx := context.Background()
	logger := zaptest.NewLogger(t)
	client, err := firestore.NewFirestoreClient(ctx, firestore.Config{ProjectID: "emoji-story-test", EmulatorHost: emulator}, logger)
	require.NoError(t, err)
	defer client.Close()

	repo := NewFirestoreGenerationRunRepository(client.GetClient(), 1, logger)
	finished := time.Now().UTC().Truncate(time.Second)
	run := &model.GenerationRun{
		Emojis:      "🌟🌙",
		State:       model.StateFailed,
		FailedStage: model.StateGeneratingImage,
		Error:       "failed to generate image: status 502",
		StartedAt:   finished.Add(-5 * time.Second),
		FinishedAt:  finished,
	}
	require.NoError(t, repo.Save(ctx, run))
	require.NotEmpty(t, run.RunID)

	runs := client.GetClient().Collection(generationRunsCollection)
	doc, err := runs.Doc(run.RunID).Get(ctx)
	require.NoError(t, err)
	var got model.FirestoreGenerationRun
	require.NoError(t, doc.DataTo(&got))
	assert.Equal(t, "failed", got.State)
	assert.Equal(t, string(model.StateGeneratingImage), got.FailedStage)
	assert.Equal(t, "🌟🌙", got.Emojis)
	assert.Equal(t, finished.Add(time.Hour), got.ExpireAt.UTC())

	_, err = runs.Doc("does-not-exist").Get(ctx)
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestToFirestoreGenerationRun_ExpireAt(t *testing.T) {
	finished := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	run := &model.GenerationRun{State: model.StateComplete, FinishedAt: finished, Title: "Moonlit"}

	fr := run.ToFirestoreGenerationRun(24)
	assert.Equal(t, finished.Add(24*time.Hour), fr.ExpireAt)
	assert.Equal(t, "complete", fr.State)
	assert.Equal(t, "Moonlit", fr.Title)
}
