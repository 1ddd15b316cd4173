package bren

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/neovim/go-client/nvim"
	"go.uber.org/zap"
)

var errNoNvim = errors.New("not running inside nvim")

// NvimManager points the buffers of a surrounding Neovim session at the
// new locations of renamed files.
type NvimManager struct {
	v *nvim.Nvim
}

func nvimAddress() string {
	if addr := os.Getenv("NVIM"); addr != "" {
		return addr
	}
	return os.Getenv("NVIM_LISTEN_ADDRESS")
}

func NewNvimManager() (*NvimManager, error) {
	addr := nvimAddress()
	if addr == "" {
		return nil, errNoNvim
	}
	v, err := nvim.Dial(addr)
	if err != nil {
		return nil, err
	}
	return &NvimManager{v: v}, nil
}

func (m *NvimManager) Close() {
	if m.v != nil {
		m.v.Close()
	}
}

// RenameBuffers renames every loaded buffer whose file moved and returns
// how many were updated.
func (m *NvimManager) RenameBuffers(moves []FileRename) (int, error) {
	if len(moves) == 0 {
		return 0, nil
	}
	target := make(map[string]string, len(moves))
	for _, r := range moves {
		target[filepath.Clean(r.OldPath)] = r.NewPath
	}

	bufs, err := m.v.Buffers()
	if err != nil {
		return 0, err
	}

	b := m.v.NewBatch()
	n := 0
	for _, buf := range bufs {
		name, err := m.v.BufferName(buf)
		if err != nil || name == "" {
			continue
		}
		if newPath, ok := target[filepath.Clean(name)]; ok {
			b.SetBufferName(buf, newPath)
			n++
		}
	}
	if n == 0 {
		return 0, nil
	}
	return n, b.Execute()
}

// syncEditorBuffers is best effort: outside nvim, or when the session is
// unreachable, it only logs.
func syncEditorBuffers(log *zap.Logger, moves []FileRename) {
	if len(moves) == 0 {
		return
	}
	m, err := NewNvimManager()
	if err != nil {
		log.Debug("skipping editor buffer sync", zap.Error(err))
		return
	}
	defer m.Close()

	n, err := m.RenameBuffers(moves)
	if err != nil {
		log.Warn("editor buffer sync failed", zap.Error(err))
		return
	}
	log.Debug("editor buffers renamed", zap.Int("count", n))
}
