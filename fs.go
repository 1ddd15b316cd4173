package bren

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sokinpui/bren/rename"
	"go.uber.org/multierr"
)

func GetFileSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

type PathResolver struct {
	wd string
}

func NewPathResolver() (*PathResolver, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("could not get current working directory: %w", err)
	}
	return &PathResolver{wd: wd}, nil
}

func (r *PathResolver) Resolve(relativePath string) string {
	if filepath.IsAbs(relativePath) {
		return filepath.Clean(relativePath)
	}
	return filepath.Join(r.wd, relativePath)
}

func (r *PathResolver) Rel(path string) string {
	if rel, err := filepath.Rel(r.wd, path); err == nil {
		return rel
	}
	return path
}

func HasAllowedExtension(path string, extensions []string) bool {
	if len(extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// CollectFiles expands paths into file descriptors. Directories are walked
// recursively and only regular files are kept. The first occurrence of a path wins and input order is kept.
// Paths that cannot be read are skipped; their errors are combined into the
// returned error while the rest of the batch is still collected.
func CollectFiles(paths []string, resolver *PathResolver, extensions []string) ([]rename.FileDescriptor, error) {
	c := &collector{extensions: extensions, seen: make(map[string]struct{})}
	for _, p := range paths {
		abs := resolver.Resolve(p)
		info, err := os.Stat(abs)
		if err != nil {
			c.errs = multierr.Append(c.errs, err)
			continue
		}
		switch {
		case info.IsDir():
			c.walk(abs)
		case info.Mode().IsRegular():
			c.add(abs)
		default:
			c.errs = multierr.Append(c.errs, fmt.Errorf("%s: not a regular file", abs))
		}
	}
	return c.files, c.errs
}

type collector struct {
	extensions []string
	seen       map[string]struct{}
	files      []rename.FileDescriptor
	errs       error
}

func (c *collector) add(path string) {
	if _, ok := c.seen[path]; ok {
		return
	}
	if !HasAllowedExtension(path, c.extensions) {
		return
	}
	c.seen[path] = struct{}{}
	c.files = append(c.files, rename.FileDescriptor{Name: filepath.Base(path), Path: path})
}

func (c *collector) walk(dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		c.errs = multierr.Append(c.errs, err)
		return
	}
	for _, e := range entries {
		full := filepath.Join(dir, e.Name())
		switch {
		case e.IsDir():
			c.walk(full)
		case e.Type().IsRegular():
			c.add(full)
		}
	}
}
