package speech

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// baseWordsPerMinute はespeakの標準速度（rate=1.0に対応）
const baseWordsPerMinute = 175

// CommandSpeaker は外部の音声合成コマンド（espeak互換）で読み上げる
type CommandSpeaker struct {
	command string
	args    []string
}

// NewCommandSpeaker は新しいCommandSpeakerを作成
// commandLineは "espeak" や "espeak-ng -v en" のように空白区切りで指定する
func NewCommandSpeaker(commandLine string) *CommandSpeaker {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		fields = []string{"espeak"}
	}
	return &CommandSpeaker{command: fields[0], args: fields[1:]}
}

// Speak はテキストを読み上げる。ctxのキャンセルでプロセスを停止する
// テキストは標準入力で渡す（"-"で始まる本文をオプションとして解釈させない）
func (s *CommandSpeaker) Speak(ctx context.Context, text string, rate float64) error {
	cmd := exec.CommandContext(ctx, s.command, s.buildArgs(rate)...)
	cmd.Stdin = strings.NewReader(text)
	cmd.WaitDelay = time.Second
	if out, err := cmd.CombinedOutput(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("読み上げコマンドの実行に失敗 (%s): %w: %s", s.command, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (s *CommandSpeaker) buildArgs(rate float64) []string {
	if rate <= 0 {
		rate = 1
	}
	wpm := int(math.Round(baseWordsPerMinute * rate))
	args := append([]string{}, s.args...)
	return append(args, "-s", strconv.Itoa(wpm), "--stdin")
}
