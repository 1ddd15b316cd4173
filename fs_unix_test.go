//go:build unix

package bren

import (
	"path/filepath"
	"syscall"
	"testing"

	"github.com/sokinpui/bren/rename"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestCollectFilesSkipsFIFO(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "第一回.pipe")
	require.NoError(t, syscall.Mkfifo(fifo, 0o644))
	writeFiles(t, dir, "第二回.txt")

	resolver, err := NewPathResolver()
	require.NoError(t, err)

	files, err := CollectFiles([]string{fifo}, resolver, nil)
	require.Empty(t, files)
	errs := multierr.Errors(err)
	require.Len(t, errs, 1)
	require.Contains(t, errs[0].Error(), "not a regular file")

	files, err = CollectFiles([]string{dir}, resolver, nil)
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.Equal(t, "第二回.txt", files[0].Name)
}

func TestApplySkipsFIFO(t *testing.T) {
	dir := t.TempDir()
	fifo := filepath.Join(dir, "第一回.pipe")
	require.NoError(t, syscall.Mkfifo(fifo, 0o644))

	s, _ := runApp(t, Config{
		Rule:     rename.NumeralConversion{ChapterOnly: true},
		Paths:    []string{fifo},
		Apply:    true,
		Yes:      true,
		StateDir: t.TempDir(),
	})

	require.Equal(t, "No files", s.Message)
	require.Len(t, s.Failed, 1)
	require.FileExists(t, fifo)
}
