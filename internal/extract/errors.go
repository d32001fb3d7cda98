package extract

import "errors"

// 错误定义
var (
	// ErrNoTargets 请求中没有任何文案
	ErrNoTargets = errors.New("no targets to extract")

	// ErrCancelled 用户取消了输入或确认
	ErrCancelled = errors.New("extraction cancelled")

	// ErrStaleTarget 文案位置与当前文本不一致（文档已被修改）
	ErrStaleTarget = errors.New("target does not match document text")
)
