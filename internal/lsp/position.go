package lsp

import (
	"unicode/utf16"
	"unicode/utf8"

	"go.lsp.dev/protocol"
)

// PositionAt 将字节偏移转换为 LSP 位置（字符按 UTF-16 计数）
func PositionAt(content string, offset int) protocol.Position {
	if offset > len(content) {
		offset = len(content)
	}
	if offset < 0 {
		offset = 0
	}

	var line, char uint32
	for i, r := range content {
		if i >= offset {
			break
		}
		if r == '\n' {
			line++
			char = 0
			continue
		}
		char += uint32(runeLen16(r))
	}
	return protocol.Position{Line: line, Character: char}
}

// OffsetAt 将 LSP 位置转换为字节偏移，越界时截断到行尾或文本末尾
func OffsetAt(content string, pos protocol.Position) int {
	var line uint32
	i := 0
	for line < pos.Line {
		next := indexByteFrom(content, '\n', i)
		if next < 0 {
			return len(content)
		}
		i = next + 1
		line++
	}

	var char uint32
	for i < len(content) && char < pos.Character {
		r, size := utf8.DecodeRuneInString(content[i:])
		if r == '\n' {
			break
		}
		char += uint32(runeLen16(r))
		i += size
	}
	return i
}

// RangeOf 返回字节区间对应的 LSP 范围
func RangeOf(content string, start, end int) protocol.Range {
	return protocol.Range{
		Start: PositionAt(content, start),
		End:   PositionAt(content, end),
	}
}

func runeLen16(r rune) int {
	if n := len(utf16.Encode([]rune{r})); n > 0 {
		return n
	}
	return 1
}

func indexByteFrom(s string, c byte, from int) int {
	for i := from; i < len(s); i++ {
		if s[i] == c {
			return i
		}
	}
	return -1
}
