package bren

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/sokinpui/bren/rename"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFiles(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	paths := make([]string, 0, len(names))
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte(n), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func runApp(t *testing.T, cfg Config) (Summary, *bytes.Buffer) {
	t.Helper()
	app, err := NewApp(&cfg, zap.NewNop())
	require.NoError(t, err)
	var out bytes.Buffer
	app.SetOutput(&out)
	s, err := app.Execute()
	require.NoError(t, err)
	return s, &out
}

func TestPreviewDoesNotTouchDisk(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "第一回.txt", "第二回.txt", "notes.txt")

	s, _ := runApp(t, Config{
		Rule:     rename.NumeralConversion{ChapterOnly: true},
		Paths:    paths,
		StateDir: t.TempDir(),
	})

	require.Equal(t, "Preview: 2 of 3 file(s) would change", s.Message)
	require.Len(t, s.Previews, 3)
	require.Equal(t, "第1回.txt", s.Previews[0].ProposedName)
	require.False(t, s.Previews[2].Changed)
	require.Equal(t, 1, s.Unchanged)
	require.FileExists(t, paths[0])
	require.NoFileExists(t, filepath.Join(dir, "第1回.txt"))
}

func TestApplyUndoRedo(t *testing.T) {
	dir := t.TempDir()
	stateDir := t.TempDir()
	paths := writeFiles(t, dir, "b.txt", "a.txt")
	rule := rename.IndexInsertion{Digits: 2, Separator: rename.Sep("-")}

	s, _ := runApp(t, Config{Rule: rule, Paths: paths, Apply: true, Yes: true, StateDir: stateDir})
	require.Equal(t, "Renamed 2 of 2 file(s)", s.Message)
	require.Len(t, s.Renamed, 2)
	require.Empty(t, s.Failed)
	require.FileExists(t, filepath.Join(dir, "01-b.txt"))
	require.FileExists(t, filepath.Join(dir, "02-a.txt"))
	require.NoFileExists(t, paths[0])

	s, _ = runApp(t, Config{Undo: true, StateDir: stateDir})
	require.Equal(t, "Undone", s.Message)
	require.Len(t, s.Renamed, 2)
	require.FileExists(t, paths[0])
	require.FileExists(t, paths[1])
	require.NoFileExists(t, filepath.Join(dir, "01-b.txt"))

	s, _ = runApp(t, Config{Undo: true, StateDir: stateDir})
	require.Equal(t, "No undo", s.Message)

	s, _ = runApp(t, Config{Redo: true, StateDir: stateDir})
	require.Equal(t, "Redone", s.Message)
	require.FileExists(t, filepath.Join(dir, "01-b.txt"))
	require.FileExists(t, filepath.Join(dir, "02-a.txt"))

	s, _ = runApp(t, Config{Redo: true, StateDir: stateDir})
	require.Equal(t, "No redo", s.Message)
}

func TestApplyRefusesExistingTarget(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.txt", "b.txt")

	s, _ := runApp(t, Config{
		Rule:     rename.LiteralReplace{Search: "a", Replacement: "b"},
		Paths:    paths[:1],
		Apply:    true,
		Yes:      true,
		StateDir: t.TempDir(),
	})

	require.Equal(t, "Renamed 0 of 1 file(s)", s.Message)
	require.Len(t, s.Failed, 1)
	require.Contains(t, s.Failed[0], errTargetExists.Error())
	require.FileExists(t, paths[0])

	content, err := os.ReadFile(paths[1])
	require.NoError(t, err)
	require.Equal(t, "b.txt", string(content))
}

func TestApplyRefusesInvalidName(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.txt")

	s, _ := runApp(t, Config{
		Rule:     rename.TextInsertion{Text: "x/", Position: rename.Prefix},
		Paths:    paths,
		Apply:    true,
		Yes:      true,
		StateDir: t.TempDir(),
	})

	require.Equal(t, "Nothing to do", s.Message)
	require.Len(t, s.Failed, 1)
	require.Contains(t, s.Failed[0], "path separator in name")
	require.FileExists(t, paths[0])
}

func TestUndoSkipsChangedFile(t *testing.T) {
	dir := t.TempDir()
	stateDir := t.TempDir()
	paths := writeFiles(t, dir, "a.txt")

	runApp(t, Config{
		Rule:     rename.TextInsertion{Text: "_v2", Position: rename.Suffix},
		Paths:    paths,
		Apply:    true,
		Yes:      true,
		StateDir: stateDir,
	})
	renamed := filepath.Join(dir, "a_v2.txt")
	require.FileExists(t, renamed)
	require.NoError(t, os.WriteFile(renamed, []byte("edited"), 0o644))

	s, _ := runApp(t, Config{Undo: true, StateDir: stateDir})
	require.Empty(t, s.Renamed)
	require.Len(t, s.Failed, 1)
	require.FileExists(t, renamed)
	require.NoFileExists(t, paths[0])
}

func TestConfirmDeclined(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.txt")

	cfg := Config{
		Rule:     rename.TextInsertion{Text: "new_", Position: rename.Prefix},
		Paths:    paths,
		Apply:    true,
		StateDir: t.TempDir(),
	}
	app, err := NewApp(&cfg, zap.NewNop())
	require.NoError(t, err)

	asked := 0
	app.SetConfirm(func(previews []rename.Preview, plan *ExecutionPlan) (bool, error) {
		asked++
		require.Len(t, previews, 1)
		require.Len(t, plan.Ready(), 1)
		return false, nil
	})

	s, err := app.Execute()
	require.NoError(t, err)
	require.Equal(t, 1, asked)
	require.Equal(t, "Cancelled", s.Message)
	require.FileExists(t, paths[0])
}

func TestOutputScript(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "第十回.txt")

	_, out := runApp(t, Config{
		Rule:         rename.NumeralConversion{},
		Paths:        paths,
		OutputScript: true,
		StateDir:     t.TempDir(),
	})

	require.Equal(t, "mv -n -- '"+paths[0]+"' '"+filepath.Join(dir, "第10回.txt")+"'\n", out.String())
	require.FileExists(t, paths[0])
}

func TestProgressReported(t *testing.T) {
	dir := t.TempDir()
	paths := writeFiles(t, dir, "a.txt", "b.txt", "c.txt")

	cfg := Config{
		Rule:     rename.TextInsertion{Text: "x", Position: rename.Prefix},
		Paths:    paths,
		Apply:    true,
		Yes:      true,
		StateDir: t.TempDir(),
	}
	app, err := NewApp(&cfg, zap.NewNop())
	require.NoError(t, err)

	var seen []int
	app.SetProgressCallback(func(current, total int) {
		require.Equal(t, 3, total)
		seen = append(seen, current)
	})
	_, err = app.Execute()
	require.NoError(t, err)
	require.Equal(t, []int{0, 1, 2, 3}, seen)
}

func TestMissingRule(t *testing.T) {
	cfg := Config{Paths: []string{"x"}, StateDir: t.TempDir()}
	app, err := NewApp(&cfg, zap.NewNop())
	require.NoError(t, err)
	_, err = app.Execute()
	require.Error(t, err)
}

func TestMissingPathsReported(t *testing.T) {
	dir := t.TempDir()
	s, _ := runApp(t, Config{
		Rule:     rename.NumeralConversion{},
		Paths:    []string{filepath.Join(dir, "gone.txt")},
		StateDir: t.TempDir(),
	})
	require.Equal(t, "No files", s.Message)
	require.Len(t, s.Failed, 1)
}

func TestNonApplyRunsLeaveNoState(t *testing.T) {
	work := t.TempDir()
	oldWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(work))
	t.Cleanup(func() { _ = os.Chdir(oldWD) })

	dir := t.TempDir()
	paths := writeFiles(t, dir, "第一回.txt")
	rule := rename.NumeralConversion{ChapterOnly: true}

	runApp(t, Config{Rule: rule, Paths: paths})
	require.NoDirExists(t, filepath.Join(work, stateDirName))

	_, out := runApp(t, Config{Rule: rule, Paths: paths, OutputScript: true})
	require.Contains(t, out.String(), "mv -n --")
	require.NoDirExists(t, filepath.Join(work, stateDirName))

	runApp(t, Config{Undo: true})
	require.NoDirExists(t, filepath.Join(work, stateDirName))
}
