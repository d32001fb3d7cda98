// Package matcher 在文案表中查找与文案对应的已有 key
package matcher

import (
	"strings"

	"github.com/tangzhangming/i18nlint/internal/config"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

// Corpus 可查询的文案表
type Corpus interface {
	Keys() []string
	Get(key string) (string, bool)
}

// FindExact 返回第一个值与 text 完全相等的 key
func FindExact(corpus Corpus, text string) (string, bool) {
	for _, key := range corpus.Keys() {
		if v, ok := corpus.Get(key); ok && v == text {
			return key, true
		}
	}
	return "", false
}

// FindAll 返回所有值与 text 完全相等的 key，按表顺序
func FindAll(corpus Corpus, text string) []string {
	return filter(corpus, func(v string) bool { return v == text })
}

// FindContaining 返回所有值包含 text 的 key（宽松模式）
func FindContaining(corpus Corpus, text string) []string {
	if text == "" {
		return nil
	}
	return filter(corpus, func(v string) bool { return strings.Contains(v, text) })
}

// Find 按匹配模式查找
func Find(corpus Corpus, text, mode string) []string {
	if mode == config.MatchContains {
		return FindContaining(corpus, text)
	}
	return FindAll(corpus, text)
}

func filter(corpus Corpus, match func(string) bool) []string {
	var keys []string
	for _, key := range corpus.Keys() {
		if v, ok := corpus.Get(key); ok && match(v) {
			keys = append(keys, key)
		}
	}
	return keys
}

// Replacement 一处可自动替换的公共文案
type Replacement struct {
	Target scanner.Target
	Key    string
}

// FindCommonReplaceable 为每处文案查找公共命名空间下值相等的 key
//
// 每处文案最多一个结果，取表顺序中的第一个；没有匹配的文案被跳过。
func FindCommonReplaceable(corpus Corpus, targets []scanner.Target, namespace string) []Replacement {
	prefix := namespace + "."

	byValue := make(map[string]string)
	for _, key := range corpus.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		v, ok := corpus.Get(key)
		if !ok {
			continue
		}
		if _, seen := byValue[v]; !seen {
			byValue[v] = key
		}
	}

	var out []Replacement
	for _, t := range targets {
		if key, ok := byValue[t.Text]; ok {
			out = append(out, Replacement{Target: t, Key: key})
		}
	}
	return out
}
