package bren

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
)

var errTargetExists = errors.New("target exists")

type FileManager struct {
	log *zap.Logger
}

func NewFileManager(log *zap.Logger) *FileManager {
	return &FileManager{log: log}
}

// Rename moves each file independently. A failure never stops the batch.
func (m *FileManager) Rename(renames []PlannedRename, progressCb func(int)) (renamed []FileRename, failed []string) {
	for i, r := range renames {
		if err := m.move(r.OldPath, r.NewPath); err != nil {
			m.log.Error("rename failed", zap.String("from", r.OldPath), zap.String("to", r.NewPath), zap.Error(err))
			failed = append(failed, fmt.Sprintf("%s (%v)", r.OldPath, err))
		} else {
			m.log.Info("renamed", zap.String("from", r.OldPath), zap.String("to", r.NewPath))
			renamed = append(renamed, r.FileRename)
		}
		if progressCb != nil {
			progressCb(i + 1)
		}
	}
	return renamed, failed
}

func (m *FileManager) move(oldPath, newPath string) error {
	if targetTaken(oldPath, newPath) {
		return errTargetExists
	}
	return os.Rename(oldPath, newPath)
}

// Undo walks ops backwards so chained renames inside one batch unwind in
// the right order.
func (m *FileManager) Undo(ops []Operation, progressCb func(int)) (Summary, []FileRename) {
	var s Summary
	var moved []FileRename
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if err := m.step(op.NewPath, op.Path, op.ContentHash); err != nil {
			m.log.Warn("undo failed", zap.String("path", op.NewPath), zap.Error(err))
			s.Failed = append(s.Failed, fmt.Sprintf("%s (%v)", op.NewPath, err))
		} else {
			s.Renamed = append(s.Renamed, fmt.Sprintf("%s -> %s", op.NewPath, op.Path))
			moved = append(moved, FileRename{OldPath: op.NewPath, NewPath: op.Path})
		}
		if progressCb != nil {
			progressCb(len(ops) - i)
		}
	}
	return s, moved
}

func (m *FileManager) Redo(ops []Operation, progressCb func(int)) (Summary, []FileRename) {
	var s Summary
	var moved []FileRename
	for i, op := range ops {
		if err := m.step(op.Path, op.NewPath, op.ContentHash); err != nil {
			m.log.Warn("redo failed", zap.String("path", op.Path), zap.Error(err))
			s.Failed = append(s.Failed, fmt.Sprintf("%s (%v)", op.Path, err))
		} else {
			s.Renamed = append(s.Renamed, fmt.Sprintf("%s -> %s", op.Path, op.NewPath))
			moved = append(moved, FileRename{OldPath: op.Path, NewPath: op.NewPath})
		}
		if progressCb != nil {
			progressCb(i + 1)
		}
	}
	return s, moved
}

// step moves from to dest only if from still holds the recorded content.
func (m *FileManager) step(from, dest, hash string) error {
	actual, err := GetFileSHA256(from)
	if err != nil {
		return err
	}
	if actual != hash {
		return errors.New("file changed since rename")
	}
	return m.move(from, dest)
}
