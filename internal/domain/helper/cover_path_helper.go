package helper

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"EmojiStory-App/internal/domain/model"
)

var nonAlphanumericPattern = regexp.MustCompile(`[^a-z0-9]+`)

// SafeFileName はタイトルからストレージ用の安全なファイル名を作る
// 空になる場合はUnixミリ秒のタイムスタンプを使う
func SafeFileName(title string, now time.Time) string {
	name := nonAlphanumericPattern.ReplaceAllString(strings.ToLower(title), "-")
	name = strings.Trim(name, "-")
	if name == "" {
		return strconv.FormatInt(now.UnixMilli(), 10)
	}
	return name
}

// CoverObjectPath は表紙画像のバケット内パスを返す（public/<name>.<ext>）
func CoverObjectPath(name, mimeType string) string {
	return model.CoverPathPrefix + "/" + name + "." + model.GetCoverExtension(mimeType)
}

// DetectCoverMimeType は画像のMIMEタイプを判定する
// 宣言値かバイト列のどちらかが画像であればそれを使い、判定できなければimage/png
func DetectCoverMimeType(declared string, data []byte) string {
	declared = strings.TrimSpace(strings.Split(declared, ";")[0])
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	if len(data) > 0 {
		if detected := http.DetectContentType(data); strings.HasPrefix(detected, "image/") {
			return detected
		}
	}
	return model.DefaultCoverMime
}
