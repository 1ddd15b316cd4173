package bren

import (
	"fmt"

	"github.com/sokinpui/bren/rename"
)

// PreviewPaths collects paths and previews rule over them without touching
// the filesystem. Paths that could not be read are reported in err while the
// rest are still previewed.
func PreviewPaths(paths []string, rule rename.Rule) ([]rename.Preview, error) {
	resolver, err := NewPathResolver()
	if err != nil {
		return nil, err
	}
	files, err := CollectFiles(paths, resolver, nil)
	return rename.GeneratePreview(files, rule), err
}

// Apply renames paths under rule without prompting and records the batch
// in the history found through cfg.StateDir.
func Apply(paths []string, rule rename.Rule, cfg Config) (Summary, error) {
	if len(paths) == 0 {
		return Summary{Message: "No files"}, nil
	}
	cfg.Paths, cfg.Rule = paths, rule
	cfg.Apply, cfg.Yes = true, true
	cfg.Undo, cfg.Redo, cfg.OutputScript = false, false, false

	app, err := NewApp(&cfg, nil)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to initialize bren app: %w", err)
	}
	return app.Execute()
}
