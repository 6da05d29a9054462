package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"EmojiStory-App/internal/domain/model"
)

// codeFencePattern はマークダウンのコードフェンス（```json / ```）
var codeFencePattern = regexp.MustCompile("```[a-zA-Z]*")

// storyPayload は必須フィールドの有無を判定するための中間構造体
type storyPayload struct {
	Title   *string `json:"title"`
	Content *string `json:"content"`
}

// ExtractStoryText はモデルの出力から物語のJSONオブジェクトを取り出す
// 前後の文章、コードフェンス、エスケープされた引用符、文字列内の改行を許容する
func ExtractStoryText(raw string) (*model.StoryText, error) {
	cleaned := codeFencePattern.ReplaceAllString(raw, "")
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "`")

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("%w: JSONオブジェクトが見つかりません", model.ErrMalformedStoryJSON)
	}
	candidate := cleaned[start : end+1]

	repairs := []func(string) string{
		func(s string) string { return s },
		escapeControlCharsInStrings,
		func(s string) string { return escapeControlCharsInStrings(unescapeQuotes(s)) },
	}

	var lastErr error
	for _, repair := range repairs {
		story, err := decodeStoryText(repair(candidate))
		if err == nil {
			return story, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: %w", model.ErrMalformedStoryJSON, lastErr)
}

// decodeStoryText はJSONをパースし、titleとcontentの存在を検証する
func decodeStoryText(s string) (*model.StoryText, error) {
	var payload storyPayload
	if err := json.Unmarshal([]byte(s), &payload); err != nil {
		return nil, err
	}
	if payload.Title == nil || payload.Content == nil {
		return nil, errors.New("titleまたはcontentがありません")
	}
	if strings.TrimSpace(*payload.Content) == "" {
		return nil, errors.New("contentが空です")
	}
	return &model.StoryText{
		Title:   strings.TrimSpace(*payload.Title),
		Content: strings.TrimSpace(*payload.Content),
	}, nil
}

// escapeControlCharsInStrings は文字列リテラル内の生の改行・タブをエスケープする
func escapeControlCharsInStrings(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	escaped := false
	for _, r := range s {
		if !inString {
			if r == '"' {
				inString = true
			}
			b.WriteRune(r)
			continue
		}

		if escaped {
			escaped = false
			b.WriteRune(r)
			continue
		}

		switch r {
		case '\\':
			escaped = true
			b.WriteRune(r)
		case '"':
			inString = false
			b.WriteRune(r)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&b, `\u%04x`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	return b.String()
}

// unescapeQuotes は二重にエンコードされたペイロードの \" を " に戻す
func unescapeQuotes(s string) string {
	return strings.ReplaceAll(s, `\"`, `"`)
}
