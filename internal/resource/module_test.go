package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseModule(t *testing.T) {
	tests := []struct {
		name    string
		content string
		hello   string
	}{
		{"semicolon", "export default {\n  \"hello\": \"你好\"\n};\n", "你好"},
		{"no semicolon", "export default {\"hello\": \"你好\"}", "你好"},
		{"compact marker", "export default{\"hello\": \"嗨\"} ;  \n", "嗨"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj, err := ParseModule([]byte(tt.content))
			require.NoError(t, err)
			assert.Equal(t, tt.hello, obj.Get("hello").String())
		})
	}
}

func TestParseModule_Malformed(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no export", `const a = {"hello": "你好"};`},
		{"js object", "export default {\n  hello: '你好',\n};"},
		{"trailing comma", "export default {\"hello\": \"你好\",};"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseModule([]byte(tt.content))
			assert.ErrorIs(t, err, ErrMalformedModule)
		})
	}
}

func TestFormatModule(t *testing.T) {
	out := FormatModule([]byte(`{"hello":"你好","form":{"name":"<名称>"}}`))

	assert.Equal(t, "export default {\n  \"hello\": \"你好\",\n  \"form\": {\n    \"name\": \"<名称>\"\n  }\n};\n", string(out))

	obj, err := ParseModule(out)
	require.NoError(t, err)
	assert.Equal(t, "<名称>", obj.Get("form.name").String())
}

func TestSetPath(t *testing.T) {
	out, err := SetPath([]byte(`{"hello":"你好"}`), "greet.hi", "你好，{val1}")
	require.NoError(t, err)
	assert.JSONEq(t, `{"hello":"你好","greet":{"hi":"你好，{val1}"}}`, string(out))

	out, err = SetPath(out, "hello", "<b>您好</b>")
	require.NoError(t, err)
	assert.Contains(t, string(out), `"<b>您好</b>"`)
}

func TestLookupPath_SpecialCharacters(t *testing.T) {
	out, err := SetPath([]byte(`{}`), "what?", "什么")
	require.NoError(t, err)

	obj, err := ParseModule(FormatModule(out))
	require.NoError(t, err)
	assert.Equal(t, "什么", LookupPath(obj, "what?").String())
	assert.False(t, LookupPath(obj, "whatx").Exists())
}
