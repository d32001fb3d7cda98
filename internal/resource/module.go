package resource

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/segmentio/encoding/json"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

const exportMarker = "export default "

var (
	exportPattern     = regexp.MustCompile(`(?s)export\s*default\s*(\{.+)$`)
	trailingSemicolon = regexp.MustCompile(`\s*;\s*$`)
)

var prettyOptions = &pretty.Options{
	Width:  80,
	Prefix: "",
	Indent: "  ",
}

// ParseModule 解析资源模块文件内容，返回 export default 之后的 JSON 对象
func ParseModule(content []byte) (gjson.Result, error) {
	m := exportPattern.FindSubmatch(content)
	if m == nil {
		return gjson.Result{}, fmt.Errorf("%w: no export default object", ErrMalformedModule)
	}

	payload := trailingSemicolon.ReplaceAll(m[1], nil)
	if !gjson.ValidBytes(payload) {
		return gjson.Result{}, fmt.Errorf("%w: payload is not valid JSON", ErrMalformedModule)
	}

	obj := gjson.ParseBytes(payload)
	if !obj.IsObject() {
		return gjson.Result{}, fmt.Errorf("%w: payload is not an object", ErrMalformedModule)
	}
	return obj, nil
}

// FormatModule 将 JSON 对象格式化为模块文件内容
func FormatModule(obj []byte) []byte {
	body := bytes.TrimRight(pretty.PrettyOptions(obj, prettyOptions), "\n")

	var buf bytes.Buffer
	buf.Grow(len(exportMarker) + len(body) + 2)
	buf.WriteString(exportMarker)
	buf.Write(body)
	buf.WriteString(";\n")
	return buf.Bytes()
}

// SetPath 在 JSON 对象中按点分路径写入字符串值
func SetPath(obj []byte, dotted, value string) ([]byte, error) {
	raw, err := encodeString(value)
	if err != nil {
		return nil, err
	}
	return sjson.SetRawBytes(obj, escapePath(dotted), raw)
}

// LookupPath 按点分路径读取值
func LookupPath(obj gjson.Result, dotted string) gjson.Result {
	return obj.Get(escapePath(dotted))
}

// encodeString 编码 JSON 字符串，不转义 HTML 字符
func encodeString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// escapePath 转义每一段中的 gjson/sjson 路径特殊字符
func escapePath(dotted string) string {
	segs := strings.Split(dotted, ".")
	for i, seg := range segs {
		var b strings.Builder
		for _, r := range seg {
			switch r {
			case '\\', '*', '?', '|', '#', '@', '!', '=', '<', '>', '%', ':':
				b.WriteByte('\\')
			}
			b.WriteRune(r)
		}
		segs[i] = b.String()
	}
	return strings.Join(segs, ".")
}

// writeAtomic 先写临时文件再重命名，避免写入中途留下半个文件
func writeAtomic(dest string, data []byte) error {
	dir := filepath.Dir(dest)
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	_ = os.Chmod(tmpPath, 0644)

	bw := bufio.NewWriter(tmp)
	if _, err := bw.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}
