// Package parser provides tree-sitter infrastructure for Python source
// analysis.
package parser

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

// MaxTreeDepth is the maximum recursion depth when walking AST trees.
const MaxTreeDepth = 1000

// ErrInvalidEncoding is returned when the source is not valid UTF-8.
var ErrInvalidEncoding = errors.New("parser: source is not valid UTF-8")

// ErrSyntax is returned when the parse tree contains syntax errors.
// Discovery is all-or-nothing per file; a partial tree is never used.
var ErrSyntax = errors.New("parser: source contains syntax errors")

var (
	pyLang   *sitter.Language
	langOnce sync.Once
)

func getLanguage() *sitter.Language {
	langOnce.Do(func() {
		pyLang = python.GetLanguage()
	})
	return pyLang
}

// Parse parses Python source and returns the syntax tree.
//
// A fresh parser is created per call: when a context is cancelled during
// ParseCtx, the parser's internal cancel flag is set but not reset,
// causing subsequent parses to fail with "operation limit was hit".
//
// Caller MUST call tree.Close() to free resources.
func Parse(ctx context.Context, source []byte) (*sitter.Tree, error) {
	if !utf8.Valid(source) {
		return nil, ErrInvalidEncoding
	}

	p := sitter.NewParser()
	defer p.Close()
	p.SetLanguage(getLanguage())

	tree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("parse failed: %w", err)
	}

	if tree.RootNode().HasError() {
		tree.Close()
		return nil, ErrSyntax
	}

	return tree, nil
}

// GetNodeText returns the source text for the given AST node.
// Returns empty string if the node's byte range exceeds the source length.
// Uses defensive bounds checking and panic recovery to handle edge cases.
func GetNodeText(node *sitter.Node, source []byte) (result string) {
	start := node.StartByte()
	end := node.EndByte()
	sourceLen := uint32(len(source))

	// Validate bounds before calling tree-sitter C code
	if start > sourceLen || end > sourceLen {
		return ""
	}

	// Content() can panic when tree-sitter's internal C code reports a
	// byte range beyond the slice capacity; return "" in that case.
	defer func() {
		if r := recover(); r != nil {
			result = ""
		}
	}()

	return node.Content(source)
}

// StartLine returns the 1-based source line of the node's first byte.
func StartLine(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

// FindChildByType returns the first direct child with the given node type.
func FindChildByType(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}
