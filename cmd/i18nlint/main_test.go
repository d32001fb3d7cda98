package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/segmentio/encoding/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/tangzhangming/i18nlint/internal/config"
	"github.com/tangzhangming/i18nlint/internal/workspace"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func openTestWorkspace(t *testing.T) *workspace.Workspace {
	t.Helper()

	root := t.TempDir()
	writeFile(t, filepath.Join(root, "langs", "zh_CN", "common.ts"), `export default {"ok": "确定"};`)
	writeFile(t, filepath.Join(root, "src", "a.tsx"), "<b>确定</b>;\nconst s = '取消';\n")
	writeFile(t, filepath.Join(root, "node_modules", "x", "b.js"), "const s = '忽略';\n")

	cfg := config.Default()
	cfg.Resource.Watch = false
	ws, err := workspace.Open(context.Background(), root, cfg, nil, workspace.Hooks{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func TestNormalizeLocale(t *testing.T) {
	assert.Equal(t, "zh-CN", normalizeLocale("zh_CN.UTF-8"))
	assert.Equal(t, "en-US", normalizeLocale("en_US@euro"))
	assert.Equal(t, "en", normalizeLocale("en"))
}

func TestBuildReport(t *testing.T) {
	ws := openTestWorkspace(t)

	files, err := workspace.ScanFiles([]string{ws.Root}, ws.Config, ws.Store.Dir())
	require.NoError(t, err)

	report := buildReport(ws, files)
	assert.Equal(t, 1, report.Files)
	require.Len(t, report.Findings, 2)

	first := report.Findings[0]
	assert.Equal(t, filepath.Join("src", "a.tsx"), first.File)
	assert.Equal(t, 1, first.Line)
	assert.Equal(t, 4, first.Column)
	assert.Equal(t, "确定", first.Text)
	assert.Equal(t, "markup", first.Kind)
	assert.Equal(t, []string{"I18N.common.ok"}, first.Keys)

	second := report.Findings[1]
	assert.Equal(t, "取消", second.Text)
	assert.Equal(t, "string", second.Kind)
	assert.Empty(t, second.Keys)
}

func TestWriteReport(t *testing.T) {
	color.NoColor = true
	report := scanReport{Files: 1, Findings: []finding{
		{File: "a.ts", Line: 2, Column: 7, Text: "确定", Kind: "string", Keys: []string{"I18N.common.ok"}},
	}}

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, report, formatText))
	assert.Contains(t, buf.String(), "a.ts:2:7  确定  string  → I18N.common.ok")
	assert.Contains(t, buf.String(), "1 occurrence(s) in 1 file(s)")

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, formatJSON))
	var decoded scanReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report, decoded)

	buf.Reset()
	require.NoError(t, writeReport(&buf, report, formatYAML))
	decoded = scanReport{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report, decoded)
}

func TestTerminalPrompter_InputKey(t *testing.T) {
	validate := func(s string) string {
		if s == "I18N.home.title" {
			return ""
		}
		return "invalid"
	}

	var out bytes.Buffer
	p := newTerminalPrompter(strings.NewReader("bad\nhome.title\n"), &out, false)
	key, err := p.InputKey(context.Background(), "key", "I18N.", validate)
	require.NoError(t, err)
	assert.Equal(t, "I18N.home.title", key)
	assert.Contains(t, out.String(), "invalid")

	p = newTerminalPrompter(strings.NewReader(""), &out, false)
	key, err = p.InputKey(context.Background(), "key", "I18N.", validate)
	require.NoError(t, err)
	assert.Empty(t, key, "EOF cancels")
}

func TestTerminalPrompter_Confirm(t *testing.T) {
	var out bytes.Buffer

	ok, err := newTerminalPrompter(strings.NewReader("y\n"), &out, false).Confirm(context.Background(), "replace?")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = newTerminalPrompter(strings.NewReader("n\n"), &out, false).Confirm(context.Background(), "replace?")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = newTerminalPrompter(strings.NewReader(""), &out, true).Confirm(context.Background(), "replace?")
	require.NoError(t, err)
	assert.True(t, ok)
}
