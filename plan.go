package bren

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/sokinpui/bren/rename"
)

type ExecutionPlan struct {
	Renames   []PlannedRename
	Unchanged int
}

// Ready returns the entries that will actually be renamed.
func (p *ExecutionPlan) Ready() []PlannedRename {
	var out []PlannedRename
	for _, r := range p.Renames {
		if r.Reason == "" {
			out = append(out, r)
		}
	}
	return out
}

// Refused returns the entries rejected while planning.
func (p *ExecutionPlan) Refused() []PlannedRename {
	var out []PlannedRename
	for _, r := range p.Renames {
		if r.Reason != "" {
			out = append(out, r)
		}
	}
	return out
}

// CreatePlan maps previews back onto their files. files and previews must
// be the same batch, in the same order.
func CreatePlan(files []rename.FileDescriptor, previews []rename.Preview) *ExecutionPlan {
	plan := &ExecutionPlan{}
	for i, p := range previews {
		if !p.Changed {
			plan.Unchanged++
			continue
		}
		src := files[i].Path
		plan.Renames = append(plan.Renames, PlannedRename{
			FileRename: FileRename{OldPath: src, NewPath: filepath.Join(filepath.Dir(src), p.ProposedName)},
			OldName:    p.OriginalName,
			NewName:    p.ProposedName,
			Reason:     invalidNameReason(p.ProposedName),
		})
	}
	return plan
}

func invalidNameReason(name string) string {
	switch {
	case strings.TrimSpace(name) == "":
		return "empty name"
	case name == "." || name == "..":
		return "reserved name"
	case strings.ContainsAny(name, "/\x00") || strings.ContainsRune(name, filepath.Separator):
		return "path separator in name"
	case strings.ContainsAny(name, "\r\n"):
		return "line break in name"
	}
	return ""
}

// targetTaken reports whether newPath is occupied by a file other than
// oldPath. Case-only renames on case-insensitive filesystems stat as the
// same file and are allowed.
func targetTaken(oldPath, newPath string) bool {
	dst, err := os.Lstat(newPath)
	if err != nil {
		return false
	}
	src, err := os.Lstat(oldPath)
	if err != nil {
		return true
	}
	return !os.SameFile(src, dst)
}
