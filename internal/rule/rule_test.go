package rule

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dutchcyberguy/semgrep/internal/lang"
	"github.com/dutchcyberguy/semgrep/internal/types"
)

func TestParseRules(t *testing.T) {
	t.Parallel()
	data := []byte(`
rules:
  - id: no-println
    language: go
    severity: error
    message: use the logger instead of fmt.Println
    pattern: "fmt.Println(:[args...])"
    fix: "log.Info(:[args...])"
  - id: bare-todo
    message: reference a ticket in the TODO
    pattern: "TODO"
`)
	rules, err := Parse(data)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, "no-println", rules[0].ID)
	assert.Equal(t, lang.Go, rules[0].Lang())
	assert.Equal(t, types.SeverityError, rules[0].Sev())
	assert.Equal(t, "log.Info(:[args...])", rules[0].Fix)

	assert.Equal(t, lang.Generic, rules[1].Lang(), "language defaults to generic")
	assert.Equal(t, types.SeverityWarning, rules[1].Sev(), "severity defaults to warning")
	assert.Empty(t, rules[1].Fix)
}

func TestParseRejectsInvalid(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "missing id",
			yaml: "rules:\n  - pattern: x\n    message: m\n",
			want: "missing id",
		},
		{
			name: "missing pattern",
			yaml: "rules:\n  - id: r\n    message: m\n",
			want: "missing pattern",
		},
		{
			name: "missing message",
			yaml: "rules:\n  - id: r\n    pattern: x\n",
			want: "missing message",
		},
		{
			name: "unknown language",
			yaml: "rules:\n  - id: r\n    pattern: x\n    message: m\n    language: cobol\n",
			want: "unknown language",
		},
		{
			name: "unknown severity",
			yaml: "rules:\n  - id: r\n    pattern: x\n    message: m\n    severity: fatal\n",
			want: "unknown severity",
		},
		{
			name: "malformed yaml",
			yaml: "rules: [",
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
			if tt.want != "" {
				assert.Contains(t, err.Error(), tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := "rules:\n  - id: r\n    pattern: foo\n    message: found foo\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	rules, err := Load(path)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "r", rules[0].ID)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
