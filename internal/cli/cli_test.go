package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diary/internal/errs"
)

type harness struct {
	t          *testing.T
	dir        string
	configPath string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	t.Setenv(EnvUser, "")
	t.Setenv(EnvPassword, "")
	dir := t.TempDir()
	return &harness{t: t, dir: dir, configPath: filepath.Join(dir, "config.toml")}
}

func (h *harness) exec(args ...string) (string, error) {
	h.t.Helper()
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", h.configPath}, args...))
	err := root.Execute()
	return out.String(), err
}

// as runs a command for alice with her password.
func (h *harness) as(args ...string) string {
	h.t.Helper()
	out, err := h.exec(append([]string{"-u", "alice", "-p", "pw"}, args...)...)
	require.NoError(h.t, err, out)
	return out
}

func TestRootHelpListsCommands(t *testing.T) {
	h := newHarness(t)
	out, err := h.exec("--help")
	require.NoError(t, err)
	for _, want := range []string{"register", "passwd", "unregister", "tui", "task", "category", "theme", "stats", "month", "export", "import"} {
		assert.Contains(t, out, want)
	}
}

func TestRegisterCreatesConfigAndDatabase(t *testing.T) {
	h := newHarness(t)
	out := h.as("register")
	assert.Equal(t, "registered alice\n", out)

	_, err := os.Stat(h.configPath)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(h.dir, "diary.db"))
	assert.NoError(t, err)

	_, err = h.exec("-u", "alice", "-p", "pw", "register")
	assert.True(t, errors.Is(err, errs.ErrAlreadyExists))
}

func TestAuthRequired(t *testing.T) {
	h := newHarness(t)
	h.as("register")

	_, err := h.exec("-u", "alice", "-p", "wrong", "task", "list")
	assert.True(t, errors.Is(err, errs.ErrIntegrity))

	_, err = h.exec("-p", "pw", "task", "list")
	assert.True(t, errors.Is(err, errs.ErrValidation))

	t.Setenv(EnvUser, "alice")
	t.Setenv(EnvPassword, "pw")
	out, err := h.exec("task", "list", "-d", "2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, "no tasks\n", out)
}

func TestTaskCommands(t *testing.T) {
	h := newHarness(t)
	h.as("register")

	assert.Equal(t, "added task 1\n", h.as("task", "add", "-d", "2024-01-01", "-c", "Home", "-P", "high", "Buy", "milk"))
	assert.Equal(t, "added task 2\n", h.as("task", "add", "-d", "2024-01-01", "Call", "mom"))

	out := h.as("task", "list", "-d", "2024-01-01")
	assert.Equal(t, "1\tBuy milk (Home) [High]\n2\tCall mom (all categories) [Low]\n", out)

	h.as("task", "done", "1")
	out = h.as("task", "list", "-d", "2024-01-01", "-s", "milk")
	assert.Equal(t, "1\t[✓] Buy milk (Home) [High]\n", out)

	out = h.as("task", "undone", "-d", "2024-01-01", "-l", "[✓] Buy milk (Home) [High]")
	assert.Equal(t, "updated 1 task(s)\n", out)

	h.as("task", "set", "2", "-c", "Family", "-P", "Medium")
	out = h.as("task", "list", "-d", "2024-01-01", "-c", "Family")
	assert.Equal(t, "2\tCall mom (Family) [Medium]\n", out)

	out = h.as("task", "set", "-d", "2024-01-01", "-l", "Call mom (Family) [Medium]", "-P", "Low")
	assert.Equal(t, "updated 1 task(s)\n", out)

	out = h.as("task", "all-done", "-d", "2024-01-01")
	assert.Equal(t, "updated 2 task(s)\n", out)
	out = h.as("stats")
	assert.Equal(t, "total: 2\ndone: 2\n", out)

	h.as("task", "undone", "2")
	out = h.as("task", "clear-done", "-d", "2024-01-01")
	assert.Equal(t, "deleted 1 task(s)\n", out)

	out = h.as("task", "rm", "2")
	assert.Equal(t, "deleted task 2\n", out)
	_, err := h.exec("-u", "alice", "-p", "pw", "task", "rm", "2")
	assert.True(t, errors.Is(err, errs.ErrNotFound))

	_, err = h.exec("-u", "alice", "-p", "pw", "task", "rm")
	assert.True(t, errors.Is(err, errs.ErrValidation))
	_, err = h.exec("-u", "alice", "-p", "pw", "task", "set", "1")
	assert.True(t, errors.Is(err, errs.ErrValidation))
	_, err = h.exec("-u", "alice", "-p", "pw", "task", "add", "-d", "01/02/2024", "x")
	assert.True(t, errors.Is(err, errs.ErrValidation))
}

func TestCategoryCommands(t *testing.T) {
	h := newHarness(t)
	h.as("register")

	h.as("category", "add", "Work")
	h.as("task", "add", "-d", "2024-01-01", "-c", "Work", "report")
	assert.Equal(t, "all categories\nWork\n", h.as("category", "list"))

	path := filepath.Join(h.dir, "cats.txt")
	h.as("category", "export", path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Work\n", string(data))

	h.as("category", "rm", "Work")
	assert.Equal(t, "all categories\n", h.as("category", "list"))
	assert.Equal(t, "total: 0\ndone: 0\n", h.as("stats"))

	_, err = h.exec("-u", "alice", "-p", "pw", "category", "rm", "all categories")
	assert.True(t, errors.Is(err, errs.ErrValidation))

	require.NoError(t, os.WriteFile(path, []byte("Home\n\nGarden\nBad (name)\n"), 0o644))
	assert.Equal(t, "imported 2 categories from "+path+", skipped 1\n", h.as("category", "import", path))
	assert.Equal(t, "all categories\nGarden\nHome\n", h.as("category", "list"))
}

func TestThemeCommand(t *testing.T) {
	h := newHarness(t)
	h.as("register")

	assert.Equal(t, "light\n", h.as("theme"))
	assert.Equal(t, "dark\n", h.as("theme", "toggle"))
	assert.Equal(t, "dark\n", h.as("theme"))
	assert.Equal(t, "light\n", h.as("theme", "light"))

	_, err := h.exec("-u", "alice", "-p", "pw", "theme", "blue")
	assert.Error(t, err)
}

func TestMonthExportImport(t *testing.T) {
	h := newHarness(t)
	h.as("register")
	h.as("task", "add", "-d", "2024-03-20", "later")
	h.as("task", "add", "-d", "2023-03-01", "-c", "Work", "earlier")
	h.as("task", "add", "-d", "2024-04-01", "april")

	out := h.as("month", "3")
	assert.Equal(t, "2023-03-01: [ ] earlier (Work) [Low]\n2024-03-20: [ ] later (all categories) [Low]\n", out)
	assert.Equal(t, "no tasks for the selected month\n", h.as("month", "7"))
	_, err := h.exec("-u", "alice", "-p", "pw", "month", "13")
	assert.True(t, errors.Is(err, errs.ErrValidation))

	textPath := filepath.Join(h.dir, "tasks.txt")
	h.as("export", "text", textPath)
	data, err := os.ReadFile(textPath)
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(string(data), "\n"))
	assert.True(t, strings.HasPrefix(string(data), "2023-03-01 | [ ] earlier (Work) [Low]\n"))

	xlsxPath := filepath.Join(h.dir, "tasks.xlsx")
	assert.Equal(t, "exported 3 task(s) to "+xlsxPath+"\n", h.as("export", "xlsx", xlsxPath))

	_, err = h.exec("-u", "bob", "-p", "pw2", "register")
	require.NoError(t, err)
	out, err = h.exec("-u", "bob", "-p", "pw2", "import", "xlsx", xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, "imported 3 task(s), skipped 0 row(s)\n", out)

	statsPath := filepath.Join(h.dir, "stats.xlsx")
	out, err = h.exec("-u", "bob", "-p", "pw2", "stats", "--xlsx", statsPath)
	require.NoError(t, err)
	assert.Equal(t, "total: 3\ndone: 0\nwritten to "+statsPath+"\n", out)
}

func TestPasswdAndUnregister(t *testing.T) {
	h := newHarness(t)
	h.as("register")

	_, err := h.exec("-u", "alice", "-p", "pw", "passwd", "--new", "a", "--confirm", "b")
	assert.True(t, errors.Is(err, errs.ErrIntegrity))

	out, err := h.exec("-u", "alice", "-p", "pw", "passwd", "--new", "pw2", "--confirm", "pw2")
	require.NoError(t, err)
	assert.Equal(t, "password changed\n", out)

	_, err = h.exec("-u", "alice", "-p", "pw", "stats")
	assert.True(t, errors.Is(err, errs.ErrIntegrity))

	_, err = h.exec("-u", "alice", "-p", "pw2", "unregister")
	assert.True(t, errors.Is(err, errs.ErrValidation))
	out, err = h.exec("-u", "alice", "-p", "pw2", "unregister", "--yes")
	require.NoError(t, err)
	assert.Equal(t, "deleted alice\n", out)

	_, err = h.exec("-u", "alice", "-p", "pw2", "stats")
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}
