package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestLoad_Defaults(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, filepath.Join(root, "langs", "zh_CN"), cfg.ResourceDir(root))
	assert.Equal(t, "I18N.", cfg.Keys.Prefix)
	assert.True(t, cfg.HandlesLanguage("typescriptreact"))
	assert.False(t, cfg.HandlesLanguage("go"))
}

func TestLoad_TOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, `
[resource]
dir = "src/locales/zh"
pattern = "*.js"
extension = ".js"

[keys]
prefix = "T."
match_mode = "contains"

[scan]
mark_string_literals = false
debounce_ms = 200
`)

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "src/locales/zh", cfg.Resource.Dir)
	assert.Equal(t, "*.js", cfg.Resource.Pattern)
	assert.Equal(t, ".js", cfg.Resource.Extension)
	assert.Equal(t, "index", cfg.Resource.IndexModule, "unset fields keep defaults")
	assert.Equal(t, "T.", cfg.Keys.Prefix)
	assert.Equal(t, MatchContains, cfg.Keys.MatchMode)
	assert.False(t, cfg.Scan.MarkStringLiterals)
	assert.Equal(t, 200, cfg.Scan.DebounceMs)
}

func TestLoad_EnvFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, EnvFileName, "I18NLINT_KEY_PREFIX=LANG.\nI18NLINT_DEBOUNCE_MS=50\n")

	cfg, err := Load(root)
	require.NoError(t, err)

	assert.Equal(t, "LANG.", cfg.Keys.Prefix)
	assert.Equal(t, 50, cfg.Scan.DebounceMs)
}

func TestLoad_EnvironmentWinsOverEnvFile(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, EnvFileName, "I18NLINT_COMMON_NAMESPACE=shared\n")
	t.Setenv("I18NLINT_COMMON_NAMESPACE", "base")

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "base", cfg.Keys.CommonNamespace)
}

func TestLoad_InvalidMatchMode(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, "[keys]\nmatch_mode = \"fuzzy\"\n")

	_, err := Load(root)
	assert.Error(t, err)
}

func TestLoad_MalformedTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ConfigFileName, "[resource\n")

	_, err := Load(root)
	assert.Error(t, err)
}

func TestHandlesFile(t *testing.T) {
	cfg := Default()
	assert.True(t, cfg.HandlesFile("src/App.tsx"))
	assert.True(t, cfg.HandlesFile("src/App.JSX"))
	assert.False(t, cfg.HandlesFile("README.md"))
}
