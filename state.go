package bren

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	stateDirName   = ".bren"
	stateFileName  = "states.bren"
	entrySeparator = "\n===\n"
	opSeparator    = "\n---\n"
	none           = "-"
)

// Operation is one recorded rename. ContentHash is the file's SHA-256 at the
// time it was renamed and guards undo and redo against a file that has
// since changed.
type Operation struct {
	Timestamp   int64
	Path        string
	NewPath     string
	ContentHash string
}

type HistoryEntry struct {
	Operations []Operation
}

type State struct {
	History      []HistoryEntry
	CurrentIndex int
}

type StateManager struct {
	statePath string
	state     *State
	StateDir  string
	log       *zap.Logger
}

func findGitRoot() (string, error) {
	cmd := exec.Command("git", "rev-parse", "--show-toplevel")
	out, err := cmd.Output()
	if err != nil {
		return os.Getwd()
	}
	return strings.TrimSpace(string(out)), nil
}

// NewStateManager opens the history kept in dir, or in .bren under the git
// root (or working directory) when dir is empty. The directory is created on
// the first save.
func NewStateManager(dir string, log *zap.Logger) (*StateManager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if dir == "" {
		root, err := findGitRoot()
		if err != nil {
			return nil, fmt.Errorf("locating state directory: %w", err)
		}
		dir = filepath.Join(root, stateDirName)
	}
	m := &StateManager{statePath: filepath.Join(dir, stateFileName), StateDir: dir, log: log}
	m.state = &State{CurrentIndex: -1, History: []HistoryEntry{}}
	_ = m.load()
	return m, nil
}

func (m *StateManager) load() error {
	data, err := os.ReadFile(m.statePath)
	if err != nil {
		return err
	}

	blocks := strings.Split(strings.ReplaceAll(string(data), "\r\n", "\n"), entrySeparator)
	if len(blocks) == 0 {
		return nil
	}

	idx, _ := strconv.Atoi(strings.TrimSpace(blocks[0]))
	m.state = &State{CurrentIndex: idx, History: []HistoryEntry{}}

	for _, b := range blocks[1:] {
		entry := HistoryEntry{}
		for _, opBlock := range strings.Split(strings.TrimSpace(b), opSeparator) {
			lines := strings.Split(strings.TrimSpace(opBlock), "\n")
			if len(lines) < 4 {
				continue
			}

			val := func(s string) string {
				if s == none {
					return ""
				}
				return s
			}

			entry.Operations = append(entry.Operations, Operation{
				Timestamp:   parseTimestamp(lines[0]),
				Path:        val(lines[1]),
				NewPath:     val(lines[2]),
				ContentHash: val(strings.TrimSpace(lines[3])),
			})
		}
		m.state.History = append(m.state.History, entry)
	}
	if m.state.CurrentIndex >= len(m.state.History) {
		m.state.CurrentIndex = len(m.state.History) - 1
	}
	return nil
}

func parseTimestamp(s string) int64 {
	ts, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return ts
}

func (m *StateManager) save() error {
	var b strings.Builder
	fmt.Fprintf(&b, "%d", m.state.CurrentIndex)

	placeholder := func(s string) string {
		if s == "" {
			return none
		}
		return s
	}

	for _, e := range m.state.History {
		b.WriteString(entrySeparator)
		for i, op := range e.Operations {
			fmt.Fprintf(&b, "%d\n%s\n%s\n%s", op.Timestamp, placeholder(op.Path), placeholder(op.NewPath), placeholder(op.ContentHash))
			if i < len(e.Operations)-1 {
				b.WriteString(opSeparator)
			}
		}
	}
	if err := os.MkdirAll(m.StateDir, 0755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	return os.WriteFile(m.statePath, []byte(b.String()), 0644)
}

// Sync drops history entries that no longer describe the filesystem, for
// example after a file was renamed or edited outside bren.
func (m *StateManager) Sync() error {
	if m.state.CurrentIndex < 0 {
		return nil
	}

	for i := m.state.CurrentIndex; i >= 0; i-- {
		if m.matchState(i) {
			if i < m.state.CurrentIndex {
				m.state.History = m.state.History[:i+1]
				m.state.CurrentIndex = i
				return m.save()
			}
			return nil
		}
	}

	m.state.History = []HistoryEntry{}
	m.state.CurrentIndex = -1
	return m.save()
}

func (m *StateManager) matchState(idx int) bool {
	if idx < 0 || idx >= len(m.state.History) {
		return false
	}

	for _, op := range m.state.History[idx].Operations {
		currentHash, err := GetFileSHA256(op.NewPath)
		if err != nil || currentHash != op.ContentHash {
			return false
		}
	}
	return true
}

// Write appends a batch after the current entry, discarding anything that
// could still have been redone.
func (m *StateManager) Write(ops []Operation) error {
	if m.state.CurrentIndex < len(m.state.History)-1 {
		m.state.History = m.state.History[:m.state.CurrentIndex+1]
	}
	m.state.History = append(m.state.History, HistoryEntry{Operations: ops})
	m.state.CurrentIndex++
	return m.save()
}

func (m *StateManager) GetOperationsToUndo() ([]Operation, error) {
	if m.state.CurrentIndex < 0 {
		return nil, nil
	}
	ops := m.state.History[m.state.CurrentIndex].Operations
	m.state.CurrentIndex--
	return ops, m.save()
}

func (m *StateManager) GetOperationsToRedo() ([]Operation, error) {
	if m.state.CurrentIndex+1 >= len(m.state.History) {
		return nil, nil
	}
	m.state.CurrentIndex++
	return m.state.History[m.state.CurrentIndex].Operations, m.save()
}

// CreateOperations records the renames that succeeded, in the order they
// were applied, hashing each file at its new location. A file that cannot be
// hashed is left out of the history.
func (m *StateManager) CreateOperations(renamed []FileRename) []Operation {
	now := time.Now().UTC().Unix()
	ops := make([]Operation, 0, len(renamed))
	for _, r := range renamed {
		hash, err := GetFileSHA256(r.NewPath)
		if err != nil {
			m.log.Warn("not recording rename in history", zap.String("path", r.NewPath), zap.Error(err))
			continue
		}
		ops = append(ops, Operation{
			Timestamp:   now,
			Path:        r.OldPath,
			NewPath:     r.NewPath,
			ContentHash: hash,
		})
	}
	return ops
}
