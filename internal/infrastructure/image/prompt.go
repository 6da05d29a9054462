package image

import (
	"strings"

	"EmojiStory-App/internal/domain/model"
)

const storybookPromptPrefix = "Create a whimsical, storybook-style illustration for a story titled: "

// BuildCoverPrompt は表紙画像のプロンプトを構築する
// タイトルが空の場合は "Untitled Story" を使う
func BuildCoverPrompt(title, openingLine string) string {
	prompt := "book cover art for story titled: " + coverTitle(title)
	if line := strings.TrimSpace(openingLine); line != "" {
		prompt += " that starts with :" + line
	}
	return prompt
}

// BuildStorybookPrompt はRunware向けの挿絵プロンプトを構築する
func BuildStorybookPrompt(title string) string {
	return storybookPromptPrefix + coverTitle(title)
}

func coverTitle(title string) string {
	if t := strings.TrimSpace(title); t != "" {
		return t
	}
	return model.UntitledStoryTitle
}
