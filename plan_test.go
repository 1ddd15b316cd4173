package bren

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sokinpui/bren/rename"
	"github.com/stretchr/testify/require"
)

func TestCreatePlan(t *testing.T) {
	files := []rename.FileDescriptor{
		{Name: "a.txt", Path: "/x/a.txt"},
		{Name: "b.txt", Path: "/x/b.txt"},
		{Name: "c.txt", Path: "/x/c.txt"},
	}
	previews := []rename.Preview{
		{OriginalName: "a.txt", ProposedName: "1.txt", Changed: true},
		{OriginalName: "b.txt", ProposedName: "b.txt"},
		{OriginalName: "c.txt", ProposedName: "y/c.txt", Changed: true},
	}

	plan := CreatePlan(files, previews)
	require.Equal(t, 1, plan.Unchanged)
	require.Len(t, plan.Renames, 2)

	ready := plan.Ready()
	require.Len(t, ready, 1)
	require.Equal(t, "/x/a.txt", ready[0].OldPath)
	require.Equal(t, filepath.Join("/x", "1.txt"), ready[0].NewPath)
	require.Equal(t, "1.txt", ready[0].NewName)

	refused := plan.Refused()
	require.Len(t, refused, 1)
	require.Equal(t, "path separator in name", refused[0].Reason)
}

func TestInvalidNameReason(t *testing.T) {
	cases := map[string]string{
		"ok.txt":    "",
		"  ":        "empty name",
		"":          "empty name",
		".":         "reserved name",
		"..":        "reserved name",
		"a/b":       "path separator in name",
		"a\x00b":    "path separator in name",
		"line\nbrk": "line break in name",
		"第1回.txt":   "",
	}
	for name, want := range cases {
		require.Equal(t, want, invalidNameReason(name), "name %q", name)
	}
}

func TestTargetTaken(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.txt")
	b := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o644))

	require.False(t, targetTaken(a, b))
	require.False(t, targetTaken(a, a))

	require.NoError(t, os.WriteFile(b, []byte("b"), 0o644))
	require.True(t, targetTaken(a, b))
}

func TestFormatScript(t *testing.T) {
	plan := &ExecutionPlan{Renames: []PlannedRename{
		{FileRename: FileRename{OldPath: "/d/it's.txt", NewPath: "/d/1 it's.txt"}},
		{FileRename: FileRename{OldPath: "/d/c.txt", NewPath: "/d/"}, Reason: "empty name"},
	}}

	out := FormatScript(plan)
	require.Equal(t,
		"mv -n -- '/d/it'\\''s.txt' '/d/1 it'\\''s.txt'\n"+
			"# skipped \"/d/c.txt\": empty name\n",
		out)
}
