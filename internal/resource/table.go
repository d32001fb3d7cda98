package resource

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Table 拍平后的文案表（点分路径 → 文案）
//
// 保留插入顺序；同一个 key 重复写入时后写入的值生效，位置保持首次出现的位置。
type Table struct {
	keys   []string
	values map[string]string
}

// Entry 表中的一项
type Entry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// NewTable 创建空表
func NewTable() *Table {
	return &Table{values: make(map[string]string)}
}

// Set 写入一项
func (t *Table) Set(key, value string) {
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Get 读取一项
func (t *Table) Get(key string) (string, bool) {
	if t == nil {
		return "", false
	}
	v, ok := t.values[key]
	return v, ok
}

// Len 表项数量
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.keys)
}

// Keys 按插入顺序返回所有 key
func (t *Table) Keys() []string {
	if t == nil {
		return nil
	}
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Entries 按插入顺序返回所有表项
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	out := make([]Entry, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, Entry{Key: k, Value: t.values[k]})
	}
	return out
}

// Flatten 将 JSON 对象拍平为文案表
//
// 对象递归展开为点分路径；数组用 ',' 连接为一个值，不再递归；null 被忽略。
func Flatten(obj gjson.Result) *Table {
	t := NewTable()
	FlattenInto(t, "", obj)
	return t
}

// FlattenInto 以 prefix 为前缀将 v 拍平写入 t
func FlattenInto(t *Table, prefix string, v gjson.Result) {
	switch {
	case v.IsArray():
		t.Set(prefix, joinArray(v))
	case v.IsObject():
		v.ForEach(func(key, value gjson.Result) bool {
			FlattenInto(t, joinKey(prefix, key.String()), value)
			return true
		})
	case v.Type == gjson.Null || !v.Exists():
		// null 不产生任何表项
	default:
		if prefix != "" {
			t.Set(prefix, v.String())
		}
	}
}

func joinArray(v gjson.Result) string {
	var parts []string
	for _, e := range v.Array() {
		if e.IsArray() {
			parts = append(parts, joinArray(e))
			continue
		}
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ",")
}

func joinKey(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
