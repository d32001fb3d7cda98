// Package scanner 在源码文本中查找包含中文的字符串字面量和标签文本节点
package scanner

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Target 一处待抽取的中文文案
type Target struct {
	// Text 去掉引号和首尾空白后的文案
	Text string `json:"text" yaml:"text"`

	// Start/End 可替换区间的字节偏移 [Start, End)
	// 字符串为引号内部，文本节点为去掉空白后的文本本身
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// IsString 是否为引号字符串（否则为标签文本节点）
	IsString bool `json:"isString" yaml:"isString"`
}

// Quote 返回字符串字面量的引号字符，文本节点返回 0
func (t Target) Quote(src string) byte {
	if !t.IsString || t.Start < 1 || t.Start > len(src) {
		return 0
	}
	return src[t.Start-1]
}

// 与 JavaScript 的 \s 和 . 等价的字符类
const (
	space = `[\s\x0B\x{00A0}\x{1680}\x{2000}-\x{200A}\x{2028}\x{2029}\x{202F}\x{205F}\x{3000}\x{FEFF}]`
	char  = `[^\n\r\x{2028}\x{2029}]`
)

// 捕获组：1 双引号，2 单引号，3 反引号，4 文本节点
var occurrencePattern = regexp.MustCompile(
	`"` + space + `*(` + char + `+?)` + space + `*"` +
		`|'` + space + `*(` + char + `+?)` + space + `*'` +
		"|`" + space + `*(` + char + `+?)` + space + "*`" +
		`|>` + space + `*([^<{)]+?)` + space + `*[<{]`,
)

const commentMarker = "/**"

// Scan 扫描源码，按出现顺序返回所有中文文案
func Scan(src string) []Target {
	var targets []Target

	for _, m := range occurrencePattern.FindAllStringSubmatchIndex(src, -1) {
		whole := src[m[0]:m[1]]

		if m[8] >= 0 {
			text := src[m[8]:m[9]]
			n := leftTrimLen(text)
			text = text[n:]
			if !accept(text, whole) {
				continue
			}
			start := m[8] + n
			targets = append(targets, Target{
				Text:     text,
				Start:    start,
				End:      start + len(text),
				IsString: false,
			})
			continue
		}

		var text string
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				text = src[m[2*g]:m[2*g+1]]
				break
			}
		}
		if !accept(text, whole) {
			continue
		}
		targets = append(targets, Target{
			Text:     text,
			Start:    m[0] + 1,
			End:      m[1] - 1,
			IsString: true,
		})
	}

	return targets
}

// accept 过滤不含中文或位于文档注释中的匹配
func accept(text, whole string) bool {
	if !HasCJK(text) {
		return false
	}
	return !strings.Contains(text, commentMarker) && !strings.Contains(whole, commentMarker)
}

// leftTrimLen 匹配开头的 '>' 与空白长度
func leftTrimLen(s string) int {
	n := 0
	for n < len(s) {
		r, size := utf8.DecodeRuneInString(s[n:])
		if r != '>' && !isSpace(r) {
			break
		}
		n += size
	}
	return n
}

func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		0x00A0, 0x1680, 0x2028, 0x2029, 0x202F, 0x205F, 0x3000, 0xFEFF:
		return true
	}
	return r >= 0x2000 && r <= 0x200A
}

// SameText 返回与 text 相同的所有文案
func SameText(targets []Target, text string) []Target {
	var out []Target
	for _, t := range targets {
		if t.Text == text {
			out = append(out, t)
		}
	}
	return out
}

// At 返回覆盖字节偏移 offset 的文案
func At(targets []Target, offset int) (Target, bool) {
	for _, t := range targets {
		if offset >= t.Start && offset <= t.End {
			return t, true
		}
	}
	return Target{}, false
}
