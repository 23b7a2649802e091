// Package pyparse extracts module-level symbols from Python source using
// tree-sitter. Each symbol carries a structural fingerprint: a hash over the
// parse tree's shape with source positions stripped, so reformatting and
// comment edits never change it.
package pyparse

import (
	"context"
	"fmt"
	"os"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// Kind classifies a symbol definition.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
	KindMethod   Kind = "method"
	KindConstant Kind = "constant"
)

// Symbol is one module-level definition site.
type Symbol struct {
	Name        string
	Kind        Kind
	Line        int // 1-based start line
	EndLine     int // 1-based inclusive end line
	Signature   string
	Fingerprint string
}

// Parse extracts module-level symbols from Python source. It returns an error
// when the content is not valid UTF-8 or the file does not parse cleanly;
// callers treat either as "skip this file", never as fatal.
func Parse(ctx context.Context, content []byte) ([]Symbol, error) {
	if !utf8.Valid(content) {
		return nil, fmt.Errorf("pyparse: content is not valid UTF-8")
	}

	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	tree, err := p.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("pyparse: parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("pyparse: syntax error")
	}

	return extractModule(root, content), nil
}

// ParseFile reads and parses a Python file from disk.
func ParseFile(ctx context.Context, path string) ([]Symbol, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("pyparse: read %s: %w", path, err)
	}
	return Parse(ctx, content)
}

// FindSymbol returns the first symbol with the given name, or nil.
// Names are exact: methods are looked up as "Class.method".
func FindSymbol(syms []Symbol, name string) *Symbol {
	for i := range syms {
		if syms[i].Name == name {
			return &syms[i]
		}
	}
	return nil
}
