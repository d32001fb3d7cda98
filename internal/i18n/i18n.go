package i18n

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
)

// Language 语言类型
type Language string

const (
	LangEnglish Language = "en"
	LangChinese Language = "zh"
)

// 全局语言设置
var (
	currentLang Language = LangChinese
	mu          sync.RWMutex
)

// 支持的界面语言，顺序与 supportedLangs 对应
var (
	supportedTags  = []language.Tag{language.Chinese, language.English}
	supportedLangs = []Language{LangChinese, LangEnglish}
	matcher        = language.NewMatcher(supportedTags)
)

// SetLanguage 设置当前语言
func SetLanguage(lang Language) {
	mu.Lock()
	defer mu.Unlock()
	currentLang = lang
}

// Match 根据 BCP 47 语言标签（如 zh-CN、en-US）选择界面语言
func Match(locales ...string) Language {
	_, idx := language.MatchStrings(matcher, locales...)
	if idx < 0 || idx >= len(supportedLangs) {
		return LangChinese
	}
	return supportedLangs[idx]
}

// SetLanguageFromLocale 从客户端 locale 设置语言，空值保持不变
func SetLanguageFromLocale(locale string) {
	if locale == "" {
		return
	}
	SetLanguage(Match(locale))
}

// GetLanguage 获取当前语言
func GetLanguage() Language {
	mu.RLock()
	defer mu.RUnlock()
	return currentLang
}

// T 翻译消息（支持格式化参数）
func T(msgID string, args ...interface{}) string {
	mu.RLock()
	lang := currentLang
	mu.RUnlock()

	var messages map[string]string
	switch lang {
	case LangEnglish:
		messages = messagesEN
	default:
		messages = messagesZH
	}

	if msg, ok := messages[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 回退到中文
	if msg, ok := messagesZH[msgID]; ok {
		if len(args) > 0 {
			return fmt.Sprintf(msg, args...)
		}
		return msg
	}

	// 找不到翻译则返回原始 ID
	return msgID
}
