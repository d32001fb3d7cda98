package extract

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tangzhangming/i18nlint/internal/i18n"
	"github.com/tangzhangming/i18nlint/internal/matcher"
	"github.com/tangzhangming/i18nlint/internal/resource"
	"github.com/tangzhangming/i18nlint/internal/scanner"
)

const commonModule = "export default {\"hello\": \"你好\", \"submit\": \"提交\"};"

func newStore(t *testing.T, files map[string]string) (*resource.Store, string) {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	store, err := resource.NewStore(resource.Options{Dir: dir, Pattern: "*.ts", Extension: ".ts"})
	require.NoError(t, err)
	store.Reload()
	return store, dir
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

type fakePrompter struct {
	input     string
	confirm   bool
	err       error
	validate  func(string) string
	prompted  int
	confirmed int
}

func (p *fakePrompter) InputKey(_ context.Context, _, _ string, validate func(string) string) (string, error) {
	p.prompted++
	p.validate = validate
	return p.input, p.err
}

func (p *fakePrompter) Confirm(_ context.Context, _ string) (bool, error) {
	p.confirmed++
	return p.confirm, p.err
}

// failingStore 在第 failOn 次写入时失败
type failingStore struct {
	values map[string]string
	writes int
	failOn int
}

func (s *failingStore) Get(key string) (string, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *failingStore) SetAndPersist(key, value string, _ bool) error {
	s.writes++
	if s.writes == s.failOn {
		return errors.New("disk full")
	}
	s.values[key] = value
	return nil
}

func TestApply_ExistingCommonKey(t *testing.T) {
	store, dir := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)

	src := "<Input placeholder=\"你好\" />\nconst a = \"你好\";"
	targets := scanner.Scan(src)
	require.Len(t, targets, 2)

	key, ok := matcher.FindExact(store.Table(), targets[0].Text)
	require.True(t, ok)
	assert.Equal(t, "common.hello", key)

	buf := NewBuffer(src)
	n, err := engine.Apply(context.Background(), buf, Request{Targets: targets, Key: key})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "<Input placeholder={I18N.common.hello} />\nconst a = I18N.common.hello;", buf.Text())
	assert.Equal(t, commonModule, readFile(t, filepath.Join(dir, "common.ts")), "existing value is not rewritten")
}

func TestApply_MarkupText(t *testing.T) {
	store, _ := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)

	src := "<Button>  提交 </Button>"
	buf := NewBuffer(src)
	n, err := engine.Apply(context.Background(), buf, Request{Targets: scanner.Scan(src), Key: "I18N.common.submit"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, "<Button>  {I18N.common.submit} </Button>", buf.Text())
}

func TestApply_TemplateLiteral(t *testing.T) {
	store, dir := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)

	src := "const s = `你好，${name}`;"
	buf := NewBuffer(src)
	n, err := engine.Apply(context.Background(), buf, Request{
		Targets:           scanner.Scan(src),
		Key:               "I18N.greet.hi",
		ValidateDuplicate: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	assert.Equal(t, "const s = I18N.template(I18N.greet.hi, { val1: name });", buf.Text())

	v, ok := store.Get("greet.hi")
	require.True(t, ok)
	assert.Equal(t, "你好，{val1}", v)
	assert.Contains(t, readFile(t, filepath.Join(dir, "greet.ts")), `"hi": "你好，{val1}"`)
	assert.Contains(t, readFile(t, filepath.Join(dir, "index.ts")), "import greet from './greet';")
}

func TestApply_TemplateAttribute(t *testing.T) {
	store, _ := newStore(t, nil)
	engine := NewEngine(store, Options{TemplateFunc: "t"}, nil)

	src := "<Tip title=`共${ total }条，第${page.index}页` />"
	buf := NewBuffer(src)
	_, err := engine.Apply(context.Background(), buf, Request{Targets: scanner.Scan(src), Key: "list.summary"})
	require.NoError(t, err)

	assert.Equal(t, "<Tip title={t(I18N.list.summary, { val1: total, val2: page.index })} />", buf.Text())
	v, _ := store.Get("list.summary")
	assert.Equal(t, "共{val1}条，第{val2}页", v)
}

func TestApply_UnescapesNewline(t *testing.T) {
	store, _ := newStore(t, nil)
	engine := NewEngine(store, Options{}, nil)

	src := `a = "第一行\n第二行";`
	buf := NewBuffer(src)
	_, err := engine.Apply(context.Background(), buf, Request{Targets: scanner.Scan(src), Key: "I18N.text.lines"})
	require.NoError(t, err)

	v, _ := store.Get("text.lines")
	assert.Equal(t, "第一行\n第二行", v)
	assert.Equal(t, `a = I18N.text.lines;`, buf.Text())
}

func TestApply_ShiftsLaterTargets(t *testing.T) {
	store, _ := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)

	src := `a = "你好"; b = <p>你好</p>; c = "你好";`
	targets := scanner.Scan(src)
	require.Len(t, targets, 3)

	// 逆序处理同样得到正确结果
	reversed := []scanner.Target{targets[2], targets[0], targets[1]}

	buf := NewBuffer(src)
	n, err := engine.Apply(context.Background(), buf, Request{Targets: reversed, Key: "common.hello"})
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, `a = I18N.common.hello; b = <p>{I18N.common.hello}</p>; c = I18N.common.hello;`, buf.Text())
}

func TestApply_DuplicateKey(t *testing.T) {
	store, dir := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)

	src := `a = "您好";`
	buf := NewBuffer(src)
	n, err := engine.Apply(context.Background(), buf, Request{
		Targets:           scanner.Scan(src),
		Key:               "I18N.common.hello",
		ValidateDuplicate: true,
	})

	assert.ErrorIs(t, err, resource.ErrDuplicateKey)
	assert.Zero(t, n)
	assert.Equal(t, src, buf.Text())
	assert.Equal(t, commonModule, readFile(t, filepath.Join(dir, "common.ts")))
}

func TestApply_StopsAtFirstFailure(t *testing.T) {
	store := &failingStore{values: map[string]string{}, failOn: 2}
	engine := NewEngine(store, Options{}, nil)

	src := `a = "甲"; b = "乙"; c = "丙";`
	buf := NewBuffer(src)
	n, err := engine.Apply(context.Background(), buf, Request{Targets: scanner.Scan(src), Key: "common.x"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, n)
	assert.Equal(t, `a = I18N.common.x; b = "乙"; c = "丙";`, buf.Text())
	assert.Equal(t, 2, store.writes)
}

func TestApply_Errors(t *testing.T) {
	store, _ := newStore(t, nil)
	engine := NewEngine(store, Options{}, nil)
	ctx := context.Background()

	_, err := engine.Apply(ctx, NewBuffer(""), Request{Key: "common.hello"})
	assert.ErrorIs(t, err, ErrNoTargets)

	src := `a = "你好";`
	targets := scanner.Scan(src)

	_, err = engine.Apply(ctx, NewBuffer(src), Request{Targets: targets, Key: "I18N.hello"})
	assert.ErrorIs(t, err, resource.ErrInvalidKey)

	_, err = engine.Apply(ctx, NewBuffer(`a = "再见";`), Request{Targets: targets, Key: "common.hello"})
	assert.ErrorIs(t, err, ErrStaleTarget)
}

func TestExtract_PromptsForKey(t *testing.T) {
	store, _ := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)
	prompter := &fakePrompter{input: "I18N.form.title"}

	src := `<Form title="表单标题" />`
	buf := NewBuffer(src)
	n, err := engine.Extract(context.Background(), buf, prompter, Request{Targets: scanner.Scan(src)})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, prompter.prompted)
	require.NotNil(t, prompter.validate)
	assert.NotEmpty(t, prompter.validate("form.title"))

	assert.Equal(t, `<Form title={I18N.form.title} />`, buf.Text())
	v, _ := store.Get("form.title")
	assert.Equal(t, "表单标题", v)
}

func TestExtract_Cancelled(t *testing.T) {
	store, dir := newStore(t, nil)
	engine := NewEngine(store, Options{}, nil)

	src := `a = "你好";`
	buf := NewBuffer(src)
	_, err := engine.Extract(context.Background(), buf, &fakePrompter{}, Request{Targets: scanner.Scan(src)})

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, src, buf.Text())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtract_GivenKeySkipsPrompt(t *testing.T) {
	store, _ := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)
	prompter := &fakePrompter{}

	src := `a = "你好";`
	_, err := engine.Extract(context.Background(), NewBuffer(src), prompter, Request{
		Targets: scanner.Scan(src),
		Key:     "I18N.common.hello",
	})
	require.NoError(t, err)
	assert.Zero(t, prompter.prompted)
}

func TestValidateKey(t *testing.T) {
	i18n.SetLanguage(i18n.LangChinese)
	store, _ := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)

	tests := []struct {
		input string
		want  string
	}{
		{"form.title", i18n.T(i18n.MsgKeyPrefix, "I18N.")},
		{"I18N.", i18n.T(i18n.MsgKeyEmpty)},
		{"I18N.form", i18n.T(i18n.MsgKeyFormat, "I18N.")},
		{"I18N.form.1st", i18n.T(i18n.MsgKeySegment, "1st")},
		{"I18N.common.hello", i18n.T(i18n.MsgKeyExists, "I18N.common.hello")},
		{"I18N.index.foo", i18n.T(i18n.MsgKeyReserved, "index")},
		{"I18N.common.hello.x", i18n.T(i18n.MsgKeyUnderText, "I18N.common.hello")},
		{"I18N.form.title", ""},
		{"I18N.form.$title_2", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.ValidateKey(tt.input))
		})
	}
}

func TestReplaceCommon(t *testing.T) {
	store, dir := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)
	prompter := &fakePrompter{confirm: true}

	src := `<Button type="primary">提交</Button>; a = "你好"; b = "保存";`
	buf := NewBuffer(src)

	result, err := engine.ReplaceCommon(context.Background(), buf, prompter, store.Table())
	require.NoError(t, err)
	assert.Equal(t, Result{Found: 2, Replaced: 2}, result)
	assert.Equal(t, 1, prompter.confirmed)

	assert.Equal(t, `<Button type="primary">{I18N.common.submit}</Button>; a = I18N.common.hello; b = "保存";`, buf.Text())
	assert.Equal(t, commonModule, readFile(t, filepath.Join(dir, "common.ts")))
}

func TestReplaceCommon_Declined(t *testing.T) {
	store, _ := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)

	src := `a = "你好";`
	buf := NewBuffer(src)
	result, err := engine.ReplaceCommon(context.Background(), buf, &fakePrompter{confirm: false}, store.Table())

	assert.ErrorIs(t, err, ErrCancelled)
	assert.Equal(t, 1, result.Found)
	assert.Equal(t, src, buf.Text())
}

func TestReplaceCommon_NothingFound(t *testing.T) {
	store, _ := newStore(t, map[string]string{"common.ts": commonModule})
	engine := NewEngine(store, Options{}, nil)
	prompter := &fakePrompter{confirm: true}

	result, err := engine.ReplaceCommon(context.Background(), NewBuffer(`a = "保存";`), prompter, store.Table())
	require.NoError(t, err)
	assert.Equal(t, Result{}, result)
	assert.Zero(t, prompter.confirmed)
}
