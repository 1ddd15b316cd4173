package bren

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type CodeBlock struct {
	Lang    string
	Content string
}

func ExtractCodeBlocks(source []byte) ([]CodeBlock, error) {
	var blocks []CodeBlock
	parser := goldmark.DefaultParser()
	root := parser.Parse(text.NewReader(source))

	walker := func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		fencedCodeBlock, ok := node.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}

		var block CodeBlock
		if fencedCodeBlock.Info != nil {
			block.Lang = string(fencedCodeBlock.Info.Text(source))
		}

		var content bytes.Buffer
		lines := fencedCodeBlock.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			content.Write(line.Value(source))
		}
		block.Content = content.String()

		blocks = append(blocks, block)
		return ast.WalkSkipChildren, nil
	}

	if err := ast.Walk(root, walker); err != nil {
		return nil, err
	}

	return blocks, nil
}

// ExtractPaths reads a path list from pasted content. When the content
// carries fenced code blocks only their lines count, so a list copied out
// of notes or a chat keeps working; otherwise each non-empty line is a path.
func ExtractPaths(content string) ([]string, error) {
	blocks, err := ExtractCodeBlocks([]byte(content))
	if err != nil {
		return nil, err
	}

	if len(blocks) == 0 {
		return splitLines(content), nil
	}

	var paths []string
	for _, b := range blocks {
		paths = append(paths, splitLines(b.Content)...)
	}
	return paths, nil
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
