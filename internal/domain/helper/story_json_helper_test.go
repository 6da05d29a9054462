package helper

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"EmojiStory-App/internal/domain/model"
)

func TestExtractStoryText(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantTitle   string
		wantContent string
	}{
		{
			name:        "前後に文章がある",
			raw:         "Sure! Here you go: {\"title\":\"A\",\"content\":\"B\"}\nEnjoy!",
			wantTitle:   "A",
			wantContent: "B",
		},
		{
			name:        "クリーンなJSON",
			raw:         `{"title":"Moonlit","content":"The moon rose."}`,
			wantTitle:   "Moonlit",
			wantContent: "The moon rose.",
		},
		{
			name:        "コードフェンス付き",
			raw:         "```json\n{\"title\":\"Fenced\",\"content\":\"Inside a fence.\"}\n```",
			wantTitle:   "Fenced",
			wantContent: "Inside a fence.",
		},
		{
			name:        "文字列内に生の改行",
			raw:         "{\"title\":\"Lines\",\"content\":\"First line.\nSecond line.\"}",
			wantTitle:   "Lines",
			wantContent: "First line.\nSecond line.",
		},
		{
			name:        "エスケープされた引用符",
			raw:         `{\"title\":\"Escaped\",\"content\":\"Quoted body.\"}`,
			wantTitle:   "Escaped",
			wantContent: "Quoted body.",
		},
		{
			name:        "余分なバッククォート",
			raw:         "`{\"title\":\"Tick\",\"content\":\"Stray ticks.\"}`",
			wantTitle:   "Tick",
			wantContent: "Stray ticks.",
		},
		{
			name:        "空のタイトルは許容",
			raw:         `{"title":"","content":"No title here."}`,
			wantTitle:   "",
			wantContent: "No title here.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story, err := ExtractStoryText(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTitle, story.Title)
			assert.Equal(t, tt.wantContent, story.Content)
		})
	}
}

func TestExtractStoryText_Malformed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "途中で切れたJSON", raw: `{"title":"A","content":"B`},
		{name: "波括弧なし", raw: "I could not write a story today."},
		{name: "括弧の順序が逆", raw: "} nothing {"},
		{name: "contentがない", raw: `{"title":"A"}`},
		{name: "contentが空", raw: `{"title":"A","content":"   "}`},
		{name: "contentが文字列でない", raw: `{"title":"A","content":42}`},
		{name: "空文字", raw: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			story, err := ExtractStoryText(tt.raw)
			assert.Nil(t, story)
			require.Error(t, err)
			assert.True(t, errors.Is(err, model.ErrMalformedStoryJSON))
		})
	}
}

func TestEscapeControlCharsInStrings(t *testing.T) {
	in := "{\"a\":\"x\ny\tz\"}\n"
	assert.Equal(t, "{\"a\":\"x\\ny\\tz\"}\n", escapeControlCharsInStrings(in))
}
