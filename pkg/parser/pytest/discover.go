// Package pytest implements static discovery of pytest-style test
// declarations in a single Python source file.
package pytest

import (
	"context"
	"fmt"
	"os"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/specvital/pyscan/pkg/domain"
	"github.com/specvital/pyscan/pkg/parser"
	"github.com/specvital/pyscan/pkg/parser/pyast"
)

// MaxFileSize is the largest file DiscoverFile will read (10MB).
const MaxFileSize = 10 * 1024 * 1024

// Discover parses source and returns all test declarations in pre-order
// traversal order. It fails as a whole: invalid UTF-8, a cancelled
// context, or syntax errors yield an error and no items, never a
// partial inventory.
func Discover(ctx context.Context, source []byte, filename string) ([]domain.TestItem, error) {
	tree, err := parser.Parse(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", filename, err)
	}
	defer tree.Close()

	w := &walker{source: source}
	w.visit(tree.RootNode(), "", 0)
	return w.items, nil
}

// DiscoverFile is the fail-soft boundary around [Discover]: a missing,
// unreadable, oversized, or unparsable file yields an empty inventory.
// Callers cannot distinguish "no tests" from "broken file" here; in a
// batch discovery pipeline one bad file must not abort the run.
func DiscoverFile(ctx context.Context, path string) []domain.TestItem {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() || info.Size() > MaxFileSize {
		return nil
	}

	source, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	items, err := Discover(ctx, source, path)
	if err != nil {
		return nil
	}
	return items
}

// walker accumulates test items during a depth-first pre-order pass.
// The only traversal context is the name of the nearest enclosing class.
type walker struct {
	source []byte
	items  []domain.TestItem
}

func (w *walker) visit(node *sitter.Node, class string, depth int) {
	if depth > parser.MaxTreeDepth {
		return
	}

	switch node.Type() {
	case pyast.NodeFunctionDefinition:
		w.visitFunction(node, nil, class, depth)

	case pyast.NodeClassDefinition:
		w.visitClass(node, depth)

	case pyast.NodeDecoratedDefinition:
		def := pyast.GetDecoratedDefinition(node)
		if def == nil {
			return
		}
		switch def.Type() {
		case pyast.NodeFunctionDefinition:
			w.visitFunction(def, pyast.GetDecorators(node), class, depth)
		case pyast.NodeClassDefinition:
			w.visitClass(def, depth)
		}

	default:
		for i := 0; i < int(node.ChildCount()); i++ {
			w.visit(node.Child(i), class, depth+1)
		}
	}
}

func (w *walker) visitFunction(def *sitter.Node, decorators []*sitter.Node, class string, depth int) {
	if nameNode := def.ChildByFieldName("name"); nameNode != nil {
		name := parser.GetNodeText(nameNode, w.source)
		if isTestFunction(name) {
			kind := domain.KindFunction
			if class != "" {
				kind = domain.KindMethod
			}

			w.items = append(w.items, domain.TestItem{
				Name:         name,
				Line:         parser.StartLine(def),
				Kind:         kind,
				Class:        class,
				FullName:     domain.QualifiedName(class, name),
				Parametrized: w.isParametrized(decorators),
				Async:        pyast.IsAsync(def),
				Fixtures:     w.candidateFixtures(def),
			})
		}
	}

	// Nested declarations keep the same enclosing class: a def inside a
	// method still belongs to the method's class.
	for i := 0; i < int(def.ChildCount()); i++ {
		w.visit(def.Child(i), class, depth+1)
	}
}

func (w *walker) visitClass(def *sitter.Node, depth int) {
	nameNode := def.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := parser.GetNodeText(nameNode, w.source)

	if isTestClass(name) {
		// Classes are never reported as enclosed, even when nested.
		w.items = append(w.items, domain.TestItem{
			Name:     name,
			Line:     parser.StartLine(def),
			Kind:     domain.KindClass,
			FullName: name,
		})
	}

	// Members are visited with this class as context regardless of
	// whether the class itself qualified.
	for i := 0; i < int(def.ChildCount()); i++ {
		w.visit(def.Child(i), name, depth+1)
	}
}

func (w *walker) isParametrized(decorators []*sitter.Node) bool {
	for _, dec := range decorators {
		if isParametrizeShape(pyast.ClassifyDecorator(dec, w.source)) {
			return true
		}
	}
	return false
}

// isParametrizeShape matches the closed set of parametrize decorator
// shapes: a call or bare attribute access ending in .mark.parametrize,
// or a call of the bare name parametrize. The base expression and the
// arguments are never inspected.
func isParametrizeShape(d pyast.Decorator) bool {
	if d.Invoked && d.Name == "parametrize" {
		return true
	}
	n := len(d.AttrChain)
	return n >= 2 && d.AttrChain[n-2] == "mark" && d.AttrChain[n-1] == "parametrize"
}

// candidateFixtures lists declared positional parameters minus self.
// This is a heuristic: the names are plausible fixture candidates by
// position, not resolved fixture bindings.
func (w *walker) candidateFixtures(def *sitter.Node) []string {
	var fixtures []string
	for _, name := range pyast.ParameterNames(def, w.source) {
		if name != "self" {
			fixtures = append(fixtures, name)
		}
	}
	return fixtures
}

func isTestFunction(name string) bool {
	// test_* is the pytest convention; a Test* function also counts
	// (class-style naming accidentally used on a function).
	return strings.HasPrefix(name, "test_") || strings.HasPrefix(name, "Test")
}

func isTestClass(name string) bool {
	return strings.HasPrefix(name, "Test") && name != "Test"
}
