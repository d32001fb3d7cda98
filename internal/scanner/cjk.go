package scanner

import "unicode"

// cjkTable 判定为中文文案的字符范围
//
// 覆盖 CJK 统一表意文字及扩展 A、部分兼容表意文字、全角 ASCII 与标点、
// CJK 标点 U+3000–U+3009、省略号，以及补充平面的扩展 B/C/D。
var cjkTable = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x2026, Hi: 0x2026, Stride: 1},
		{Lo: 0x3000, Hi: 0x3009, Stride: 1},
		{Lo: 0x3400, Hi: 0x4DB5, Stride: 1},
		{Lo: 0x4E00, Hi: 0x9FCC, Stride: 1},
		{Lo: 0xFA0E, Hi: 0xFA0F, Stride: 1},
		{Lo: 0xFA11, Hi: 0xFA11, Stride: 1},
		{Lo: 0xFA13, Hi: 0xFA14, Stride: 1},
		{Lo: 0xFA1F, Hi: 0xFA1F, Stride: 1},
		{Lo: 0xFA21, Hi: 0xFA21, Stride: 1},
		{Lo: 0xFA23, Hi: 0xFA24, Stride: 1},
		{Lo: 0xFA27, Hi: 0xFA29, Stride: 1},
		{Lo: 0xFF01, Hi: 0xFF5E, Stride: 1},
	},
	R32: []unicode.Range32{
		{Lo: 0x20000, Hi: 0x2A6D6, Stride: 1},
		{Lo: 0x2A700, Hi: 0x2B734, Stride: 1},
		{Lo: 0x2B740, Hi: 0x2B81D, Stride: 1},
	},
}

// IsCJK 检查单个字符
func IsCJK(r rune) bool {
	return unicode.Is(cjkTable, r)
}

// HasCJK 检查字符串是否包含中文字符
func HasCJK(s string) bool {
	for _, r := range s {
		if IsCJK(r) {
			return true
		}
	}
	return false
}
