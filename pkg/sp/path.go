package sp

import "strings"

// PathBuilder holds a base URL plus the ordered pieces appended to it.
// Every method returns a new value; pieces are copied on write so a derived
// builder never shares backing storage with its parent.
type PathBuilder struct {
	base   string
	pieces []string
}

// NewPathBuilder creates a builder rooted at base.
func NewPathBuilder(base string) PathBuilder {
	return PathBuilder{base: strings.TrimRight(base, "/")}
}

// Append adds a slash separated segment. Leading and trailing slashes of the
// segment are ignored; an empty segment is a no-op.
func (p PathBuilder) Append(segment string) PathBuilder {
	segment = strings.Trim(segment, "/")
	if segment == "" {
		return p
	}

	return p.with("/" + segment)
}

// Concat appends suffix verbatim, e.g. a key predicate like ('name').
func (p PathBuilder) Concat(suffix string) PathBuilder {
	if suffix == "" {
		return p
	}

	return p.with(suffix)
}

func (p PathBuilder) with(piece string) PathBuilder {
	pieces := make([]string, len(p.pieces), len(p.pieces)+1)
	copy(pieces, p.pieces)

	return PathBuilder{base: p.base, pieces: append(pieces, piece)}
}

// Base returns the base URL.
func (p PathBuilder) Base() string {
	return p.base
}

// ToURL joins base and pieces.
func (p PathBuilder) ToURL() string {
	if len(p.pieces) == 0 {
		return p.base
	}

	var b strings.Builder

	b.WriteString(p.base)

	for _, piece := range p.pieces {
		b.WriteString(piece)
	}

	return b.String()
}

// String implements fmt.Stringer.
func (p PathBuilder) String() string {
	return p.ToURL()
}

// combineURL joins URL parts with exactly one slash between them.
func combineURL(parts ...string) string {
	builder := NewPathBuilder("")

	for i, part := range parts {
		if i == 0 {
			builder = NewPathBuilder(part)

			continue
		}

		builder = builder.Append(part)
	}

	return builder.ToURL()
}

// extractWebURL cuts a REST URL down to the web it belongs to.
func extractWebURL(candidate string) string {
	lower := strings.ToLower(candidate)

	for _, marker := range []string{"/_api/", "/_vti_bin/"} {
		if index := strings.Index(lower, marker); index > -1 {
			return candidate[:index]
		}
	}

	if strings.HasSuffix(lower, "/_api") {
		return candidate[:len(candidate)-len("/_api")]
	}

	return strings.TrimRight(candidate, "/")
}
