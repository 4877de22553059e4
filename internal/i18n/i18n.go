package i18n

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
)

// 支持的语言
const (
	LocaleEN = "en-US"
	LocaleKO = "ko-KR"
	LocaleZH = "zh-CN"
)

// DefaultLocale 未识别语言时的回退
const DefaultLocale = LocaleEN

// LocaleHeader 客户端显式指定语言的请求头
const LocaleHeader = "X-Locale"

// NormalizeLocale 将任意语言标记归一为支持的语言，无法识别返回空串
func NormalizeLocale(value string) string {
	tag := strings.ToLower(strings.TrimSpace(value))
	if idx := strings.Index(tag, ";"); idx >= 0 {
		tag = tag[:idx]
	}
	tag = strings.ReplaceAll(tag, "_", "-")
	switch {
	case tag == "":
		return ""
	case strings.HasPrefix(tag, "en"):
		return LocaleEN
	case strings.HasPrefix(tag, "ko"):
		return LocaleKO
	case strings.HasPrefix(tag, "zh"):
		return LocaleZH
	default:
		return ""
	}
}

// ResolveLocale 从 X-Locale 或 Accept-Language 解析请求语言
func ResolveLocale(c *gin.Context) string {
	if c == nil || c.Request == nil {
		return DefaultLocale
	}
	if locale := NormalizeLocale(c.GetHeader(LocaleHeader)); locale != "" {
		return locale
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		if locale := NormalizeLocale(part); locale != "" {
			return locale
		}
	}
	return DefaultLocale
}

// T 翻译消息 key；缺失时回退到默认语言，再回退到 key 本身
func T(locale, key string) string {
	if table, ok := messages[NormalizeLocale(locale)]; ok {
		if msg, ok := table[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Sprintf 翻译带格式参数的消息
func Sprintf(locale, key string, args ...interface{}) string {
	return fmt.Sprintf(T(locale, key), args...)
}
