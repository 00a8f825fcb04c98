// Package domain defines the output model for single-file test discovery.
package domain

// TestKind classifies a discovered declaration.
type TestKind string

// Kinds of discovered test declarations.
const (
	// KindFunction is a test function declared at module level (or nested
	// outside any class).
	KindFunction TestKind = "function"
	// KindMethod is a test function declared inside a class body.
	KindMethod TestKind = "method"
	// KindClass is a test class declaration.
	KindClass TestKind = "class"
)

// TestItem represents one discovered test declaration.
//
// Field order matches the wire contract of the discovery report.
type TestItem struct {
	// Name is the declared identifier.
	Name string `json:"name"`
	// Line is the 1-based line of the def/class keyword, not of any
	// decorator above it.
	Line int `json:"line"`
	// Kind is function, method, or class.
	Kind TestKind `json:"type"`
	// Class is the name of the immediately enclosing class, empty for
	// top-level declarations and always empty for classes.
	Class string `json:"class,omitempty"`
	// FullName is "Class::Name" for methods, otherwise Name.
	FullName string `json:"full_name"`
	// Parametrized reports whether a parametrize-style decorator was
	// detected on the declaration.
	Parametrized bool `json:"parametrized"`
	// Async reports whether the declaration is an async def.
	Async bool `json:"async"`
	// Fixtures holds the declared positional parameter names, in order,
	// excluding self. They are candidates only; no fixture resolution
	// is performed.
	Fixtures []string `json:"fixtures,omitempty"`
}

// QualifiedName returns "class::name" when class is non-empty, else name.
func QualifiedName(class, name string) string {
	if class == "" {
		return name
	}
	return class + "::" + name
}

// Report is the top-level discovery result for one file.
type Report struct {
	// Tests holds the discovered items in source traversal order.
	// Serializes as an empty array, never null.
	Tests []TestItem `json:"tests"`
	// File is the input path, echoed verbatim.
	File string `json:"file"`
	// Success is true whenever discovery ran. An unreadable or
	// unparsable file still yields Success=true with zero tests.
	Success bool `json:"success"`
}

// NewReport builds a successful report for the given path and items.
func NewReport(path string, items []TestItem) Report {
	if items == nil {
		items = []TestItem{}
	}
	return Report{
		Tests:   items,
		File:    path,
		Success: true,
	}
}

// CountKind returns the number of items of the given kind.
func (r Report) CountKind(kind TestKind) int {
	count := 0
	for _, item := range r.Tests {
		if item.Kind == kind {
			count++
		}
	}
	return count
}
