package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmojiSelection_AddNeverExceedsMax(t *testing.T) {
	sel := NewEmojiSelection(DefaultMaxEmojis)
	candidates := []string{"🌟", "🌙", "🐉", "🍕", "🚀", "🎈", "🦄", "🌈"}

	for i, e := range candidates {
		added, err := sel.Add(e)
		require.NoError(t, err)
		assert.Equal(t, i < DefaultMaxEmojis, added)
		assert.LessOrEqual(t, sel.Len(), DefaultMaxEmojis)
	}
	assert.Equal(t, []string{"🌟", "🌙", "🐉", "🍕", "🚀"}, sel.Values())
}

func TestEmojiSelection_AddRejectsMultipleGraphemes(t *testing.T) {
	sel := NewEmojiSelection(3)

	_, err := sel.Add("🌟🌙")
	assert.ErrorIs(t, err, ErrInvalidEmoji)
	_, err = sel.Add("")
	assert.ErrorIs(t, err, ErrInvalidEmoji)

	// ZWJシーケンスと肌の色修飾子は1書記素
	added, err := sel.Add("👩‍🚀")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = sel.Add("👍🏽")
	require.NoError(t, err)
	assert.True(t, added)
	assert.Equal(t, 2, sel.Len())
}

func TestEmojiSelection_Remove(t *testing.T) {
	sel := NewEmojiSelection(5)
	for _, e := range []string{"🌟", "🌙", "🐉"} {
		_, err := sel.Add(e)
		require.NoError(t, err)
	}

	require.NoError(t, sel.RemoveAt(1))
	assert.Equal(t, []string{"🌟", "🐉"}, sel.Values())
	assert.ErrorIs(t, sel.RemoveAt(5), ErrIndexOutOfRange)
	assert.ErrorIs(t, sel.RemoveAt(-1), ErrIndexOutOfRange)

	assert.True(t, sel.RemoveLast())
	assert.Equal(t, []string{"🌟"}, sel.Values())

	sel.Clear()
	assert.Equal(t, 0, sel.Len())
	assert.False(t, sel.RemoveLast())
}

func TestEmojiSlots_SetSlot(t *testing.T) {
	slots := NewEmojiSlots(5)

	v, err := slots.SetSlot(0, "🌟")
	require.NoError(t, err)
	assert.Equal(t, "🌟", v)

	// 入力の最後の絵文字が残る
	v, err = slots.SetSlot(0, "🌟🌙")
	require.NoError(t, err)
	assert.Equal(t, "🌙", v)

	// 絵文字でない入力は拒否され、以前の値を保つ
	v, err = slots.SetSlot(0, "a")
	assert.ErrorIs(t, err, ErrInvalidEmoji)
	assert.Equal(t, "🌙", v)
	assert.Equal(t, "🌙", slots.Values()[0])

	v, err = slots.SetSlot(0, "")
	require.NoError(t, err)
	assert.Equal(t, "", v)

	_, err = slots.SetSlot(5, "🌟")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestIsPictographic(t *testing.T) {
	assert.True(t, IsPictographic("🌟"))
	assert.True(t, IsPictographic("❤️"))
	assert.True(t, IsPictographic("©"))
	assert.False(t, IsPictographic("a"))
	assert.False(t, IsPictographic("1"))
	assert.False(t, IsPictographic("🏽"))
	assert.False(t, IsPictographic(""))
}

func TestFilledEmojis(t *testing.T) {
	assert.Equal(t, []string{"🌟", "🌙"}, FilledEmojis([]string{"🌟", "", " ", "🌙", ""}))
	assert.Empty(t, FilledEmojis([]string{"", "", ""}))
	assert.Equal(t, "🌟🌙", JoinEmojis([]string{"🌟", "🌙"}))
}

func TestStoryText_OpeningLine(t *testing.T) {
	s := &StoryText{Content: "Once upon a time. Then more happened."}
	assert.Equal(t, "Once upon a time.", s.OpeningLine())

	s = &StoryText{Content: "No terminator"}
	assert.Equal(t, "No terminator", s.OpeningLine())
}
