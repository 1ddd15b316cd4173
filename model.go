package bren

import "github.com/sokinpui/bren/rename"

type FileRename struct {
	OldPath string
	NewPath string
}

// PlannedRename is one changed preview mapped back onto the filesystem.
// A non-empty Reason means the entry is refused and will not be renamed.
type PlannedRename struct {
	FileRename
	OldName string
	NewName string
	Reason  string
}

type Summary struct {
	Previews  []rename.Preview
	Renamed   []string
	Unchanged int
	Failed    []string
	Message   string
}
