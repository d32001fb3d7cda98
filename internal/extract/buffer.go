package extract

import (
	"context"
	"fmt"
)

// Editor 可编辑的源码文本，偏移量为字节偏移
type Editor interface {
	Text() string
	Replace(ctx context.Context, start, end int, newText string) error
}

// Buffer 内存中的源码文本
type Buffer struct {
	text string
}

// NewBuffer 创建文本缓冲
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// Text 当前文本
func (b *Buffer) Text() string {
	return b.text
}

// Replace 替换 [start, end) 区间
func (b *Buffer) Replace(_ context.Context, start, end int, newText string) error {
	if start < 0 || end < start || end > len(b.text) {
		return fmt.Errorf("%w: range [%d, %d) outside text of length %d", ErrStaleTarget, start, end, len(b.text))
	}
	b.text = b.text[:start] + newText + b.text[end:]
	return nil
}
