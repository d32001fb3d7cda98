package workspace

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/tangzhangming/i18nlint/internal/config"
	"github.com/tangzhangming/i18nlint/internal/extract"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

// 扫描时跳过的目录
var skipDirs = map[string]bool{
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"build":        true,
}

// FileEditor 命令行使用的文件编辑器，Save 时写回磁盘
type FileEditor struct {
	Path string

	buf   *extract.Buffer
	mode  fs.FileMode
	dirty bool
}

// OpenFile 读取源码文件
func OpenFile(path string) (*FileEditor, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &FileEditor{Path: path, buf: extract.NewBuffer(string(data)), mode: info.Mode().Perm()}, nil
}

// Text 当前文本
func (f *FileEditor) Text() string {
	return f.buf.Text()
}

// Replace 替换 [start, end) 区间
func (f *FileEditor) Replace(ctx context.Context, start, end int, newText string) error {
	if err := f.buf.Replace(ctx, start, end, newText); err != nil {
		return err
	}
	f.dirty = true
	return nil
}

// Save 有修改时写回文件
func (f *FileEditor) Save() error {
	if !f.dirty {
		return nil
	}
	if err := os.WriteFile(f.Path, []byte(f.buf.Text()), f.mode); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// FileTargets 一个文件中的文案
type FileTargets struct {
	Path    string
	Source  string
	Targets []scanner.Target
}

// ScanFiles 扫描 paths（文件或目录）下所有需要检查的源码文件
//
// 目录递归遍历，跳过 node_modules 等目录以及语言资源目录。
func ScanFiles(paths []string, cfg config.Config, resourceDir string) ([]FileTargets, error) {
	var out []FileTargets

	scan := func(path string) error {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		src := string(data)
		if targets := scanner.Scan(src); len(targets) > 0 {
			out = append(out, FileTargets{Path: path, Source: src, Targets: targets})
		}
		return nil
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			if err := scan(root); err != nil {
				return nil, err
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && (skipDirs[d.Name()] || samePath(path, resourceDir)) {
					return filepath.SkipDir
				}
				return nil
			}
			if !cfg.HandlesFile(path) {
				return nil
			}
			return scan(path)
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func samePath(a, b string) bool {
	if b == "" {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

// LineCol 将字节偏移转换为 1 起始的行号和列号（列按字符计）
func LineCol(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	before := src[:offset]
	line = strings.Count(before, "\n") + 1
	lineStart := strings.LastIndexByte(before, '\n') + 1
	col = utf8.RuneCountInString(before[lineStart:]) + 1
	return line, col
}
