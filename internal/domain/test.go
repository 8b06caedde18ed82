package domain

import (
	"fmt"
	"strings"
)

// QualifiedName identifies one discovered test: package and module segments,
// an optional class and the callable (method or bare function) last.
type QualifiedName struct {
	segments []string
	hasClass bool
}

// NewQualifiedName builds a name from a dotted module path, an optional class
// and the callable name.
func NewQualifiedName(module, class, callable string) QualifiedName {
	segments := splitSegments(module)
	if class != "" {
		segments = append(segments, class)
	}
	segments = append(segments, callable)
	return QualifiedName{segments: segments, hasClass: class != ""}
}

// ParseQualifiedName splits a dotted name. When hasClass is set the
// second-to-last segment is taken to be the class.
func ParseQualifiedName(dotted string, hasClass bool) (QualifiedName, error) {
	segments := splitSegments(dotted)
	if len(segments) == 0 {
		return QualifiedName{}, fmt.Errorf("empty test name %q", dotted)
	}
	if hasClass && len(segments) < 2 {
		return QualifiedName{}, fmt.Errorf("test name %q has no class segment", dotted)
	}
	return QualifiedName{segments: segments, hasClass: hasClass}, nil
}

// Segments returns a copy of the ordered segments.
func (q QualifiedName) Segments() []string {
	out := make([]string, len(q.segments))
	copy(out, q.segments)
	return out
}

// Len returns the number of segments.
func (q QualifiedName) Len() int { return len(q.segments) }

// HasClass reports whether the callable is a method.
func (q QualifiedName) HasClass() bool { return q.hasClass }

// Callable returns the method or function name.
func (q QualifiedName) Callable() string {
	if len(q.segments) == 0 {
		return ""
	}
	return q.segments[len(q.segments)-1]
}

// Class returns the class name, or "" for a bare function.
func (q QualifiedName) Class() string {
	if !q.hasClass || len(q.segments) < 2 {
		return ""
	}
	return q.segments[len(q.segments)-2]
}

// Module returns the dotted module path.
func (q QualifiedName) Module() string {
	n := len(q.segments) - 1
	if q.hasClass {
		n--
	}
	if n <= 0 {
		return ""
	}
	return strings.Join(q.segments[:n], ".")
}

// Owner returns every segment except the callable.
func (q QualifiedName) Owner() []string {
	if len(q.segments) == 0 {
		return nil
	}
	return q.Segments()[:len(q.segments)-1]
}

// String returns the dotted name.
func (q QualifiedName) String() string {
	return strings.Join(q.segments, ".")
}

// Address returns the selector the host framework accepts on its command
// line: "pkg.module:Class.method" or "pkg.module:function".
func (q QualifiedName) Address() string {
	module := q.Module()
	local := q.Callable()
	if class := q.Class(); class != "" {
		local = class + "." + local
	}
	if module == "" {
		return local
	}
	return module + ":" + local
}

// Source says how a candidate was discovered.
type Source string

const (
	// SourceCollected marks tests reported by the host's collect-only run
	SourceCollected Source = "collected"
	// SourceStatic marks tests found by scanning source files
	SourceStatic Source = "static"
)

// Candidate is a discovered test offered to the selection hook
type Candidate struct {
	Name   QualifiedName
	Source Source
	File   string // Source file, when known
}

func splitSegments(dotted string) []string {
	var segments []string
	for _, s := range strings.Split(dotted, ".") {
		s = strings.TrimSpace(s)
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
