package resource

import (
	"errors"
	"fmt"
	"strings"
)

// 错误定义
var (
	ErrDuplicateKey    = errors.New("duplicate key")
	ErrMalformedModule = errors.New("malformed resource module")
	ErrInvalidKey      = errors.New("invalid key")
)

// DuplicateKeyError 模块中已存在该 key
type DuplicateKeyError struct {
	File string // 模块文件名
	Key  string // 模块内的 key（不含模块名）
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("%s already contains key %q", e.File, e.Key)
}

// Is 支持 errors.Is(err, ErrDuplicateKey)
func (e *DuplicateKeyError) Is(target error) bool {
	return target == ErrDuplicateKey
}

// ModuleError 单个模块文件读取或解析失败
type ModuleError struct {
	Module string
	Path   string
	Err    error
}

func (e *ModuleError) Error() string {
	return fmt.Sprintf("module %s (%s): %v", e.Module, e.Path, e.Err)
}

func (e *ModuleError) Unwrap() error {
	return e.Err
}

// SplitKey 将 "module.rest.path" 拆分为模块名和模块内路径
func SplitKey(key string) (module, rest string, err error) {
	module, rest, ok := strings.Cut(key, ".")
	if !ok || module == "" || rest == "" {
		return "", "", fmt.Errorf("%w: %q must be <module>.<key>", ErrInvalidKey, key)
	}
	for _, seg := range strings.Split(rest, ".") {
		if seg == "" {
			return "", "", fmt.Errorf("%w: %q has an empty segment", ErrInvalidKey, key)
		}
	}
	return module, rest, nil
}
