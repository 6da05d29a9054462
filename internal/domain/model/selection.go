package model

import "strings"

// EmojiSelection はピッカーで選ばれた絵文字の順序付きリスト
// 長さは常に0以上max以下
type EmojiSelection struct {
	emojis []string
	max    int
}

// NewEmojiSelection は新しいEmojiSelectionを作成
func NewEmojiSelection(max int) *EmojiSelection {
	if max <= 0 {
		max = DefaultMaxEmojis
	}
	return &EmojiSelection{
		emojis: make([]string, 0, max),
		max:    max,
	}
}

// Add は絵文字を末尾に追加する（上限に達している場合は何もせずfalse）
func (s *EmojiSelection) Add(emoji string) (bool, error) {
	if !IsSingleGrapheme(emoji) {
		return false, ErrInvalidEmoji
	}
	if len(s.emojis) >= s.max {
		return false, nil
	}
	s.emojis = append(s.emojis, emoji)
	return true, nil
}

// RemoveAt は指定位置の絵文字を削除する
func (s *EmojiSelection) RemoveAt(index int) error {
	if index < 0 || index >= len(s.emojis) {
		return ErrIndexOutOfRange
	}
	s.emojis = append(s.emojis[:index], s.emojis[index+1:]...)
	return nil
}

// RemoveLast は最後の絵文字を削除する（空の場合はfalse）
func (s *EmojiSelection) RemoveLast() bool {
	if len(s.emojis) == 0 {
		return false
	}
	s.emojis = s.emojis[:len(s.emojis)-1]
	return true
}

// Clear は選択を空にする
func (s *EmojiSelection) Clear() {
	s.emojis = s.emojis[:0]
}

// Len は選択数を返す
func (s *EmojiSelection) Len() int {
	return len(s.emojis)
}

// Max は選択上限を返す
func (s *EmojiSelection) Max() int {
	return s.max
}

// Values は選択中の絵文字のコピーを返す
func (s *EmojiSelection) Values() []string {
	out := make([]string, len(s.emojis))
	copy(out, s.emojis)
	return out
}

// EmojiSlots は自由入力方式の絵文字枠（1枠につき最大1絵文字）
type EmojiSlots struct {
	slots []string
}

// NewEmojiSlots は空の枠をmax個持つEmojiSlotsを作成
func NewEmojiSlots(max int) *EmojiSlots {
	if max <= 0 {
		max = DefaultMaxEmojis
	}
	return &EmojiSlots{slots: make([]string, max)}
}

// SetSlot は入力値を検証して枠に設定し、設定後の値を返す
// 空文字は枠をクリアし、最後の書記素が絵文字でない入力は拒否して以前の値を保つ
func (s *EmojiSlots) SetSlot(index int, input string) (string, error) {
	if index < 0 || index >= len(s.slots) {
		return "", ErrIndexOutOfRange
	}
	if input == "" {
		s.slots[index] = ""
		return "", nil
	}
	last := LastGrapheme(input)
	if !IsPictographic(last) {
		return s.slots[index], ErrInvalidEmoji
	}
	s.slots[index] = last
	return last, nil
}

// Clear は全ての枠を空にする
func (s *EmojiSlots) Clear() {
	for i := range s.slots {
		s.slots[i] = ""
	}
}

// Max は枠の数を返す
func (s *EmojiSlots) Max() int {
	return len(s.slots)
}

// Values は全ての枠のコピーを返す（空の枠を含む）
func (s *EmojiSlots) Values() []string {
	out := make([]string, len(s.slots))
	copy(out, s.slots)
	return out
}

// FilledEmojis は空白でない入力のみを返す
func FilledEmojis(values []string) []string {
	filled := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			filled = append(filled, v)
		}
	}
	return filled
}

// JoinEmojis は絵文字を区切りなしで連結する
func JoinEmojis(emojis []string) string {
	return strings.Join(emojis, "")
}
