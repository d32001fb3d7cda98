package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestFlatten(t *testing.T) {
	obj := gjson.Parse(`{
		"title": "标题",
		"form": {"name": "名称", "rules": {"required": "必填"}},
		"tags": ["甲", "乙", ["丙", "丁"]],
		"count": 3,
		"enabled": true,
		"missing": null
	}`)

	table := Flatten(obj)

	assert.Equal(t, []Entry{
		{Key: "title", Value: "标题"},
		{Key: "form.name", Value: "名称"},
		{Key: "form.rules.required", Value: "必填"},
		{Key: "tags", Value: "甲,乙,丙,丁"},
		{Key: "count", Value: "3"},
		{Key: "enabled", Value: "true"},
	}, table.Entries())
}

func TestFlatten_NestedArrayKeepsFullKey(t *testing.T) {
	table := NewTable()
	FlattenInto(table, "common", gjson.Parse(`{"week": {"days": ["一", "二"]}}`))

	v, ok := table.Get("common.week.days")
	assert.True(t, ok)
	assert.Equal(t, "一,二", v)
}

func TestFlatten_IdempotentOnFlatInput(t *testing.T) {
	flat := gjson.Parse(`{"common.hello": "你好", "common.bye": "再见", "title": "标题"}`)

	first := Flatten(flat)
	second := Flatten(flat)

	assert.Equal(t, first.Entries(), second.Entries())
	assert.Equal(t, []string{"common.hello", "common.bye", "title"}, first.Keys())
}

func TestTable_LastWriterWins(t *testing.T) {
	table := NewTable()
	table.Set("a.b", "1")
	table.Set("c", "2")
	table.Set("a.b", "3")

	assert.Equal(t, []string{"a.b", "c"}, table.Keys())
	v, _ := table.Get("a.b")
	assert.Equal(t, "3", v)
	assert.Equal(t, 2, table.Len())
}

func TestTable_Nil(t *testing.T) {
	var table *Table
	_, ok := table.Get("x")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Keys())
}
