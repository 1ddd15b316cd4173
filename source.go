package bren

import (
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
)

type SourceProvider struct{}

func NewSourceProvider() *SourceProvider {
	return &SourceProvider{}
}

// GetContent reads piped stdin, falling back to the clipboard when stdin is
// a terminal.
func (sp *SourceProvider) GetContent() (string, error) {
	if !isTerminal(os.Stdin) {
		c, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(c), nil
	}

	c, err := clipboard.ReadAll()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(c), nil
}

func isTerminal(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
