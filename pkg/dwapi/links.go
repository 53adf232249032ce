package dwapi

import (
	"fmt"
	"regexp"
	"strings"
)

// Link is a single HATEOAS link entry as the platform serializes it.
type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// ResourceEntry is a named URI template advertised by the platform for URLs
// the client cannot reach through links alone.
type ResourceEntry struct {
	Name       string `json:"Name"`
	UriPattern string `json:"UriPattern"`
}

// Endpoints maps link relation names to URLs, case-insensitively. It is
// rebuilt from the Links array of every resource response and replaces
// whatever the connection knew before.
type Endpoints struct {
	table *CIDict[string]
}

// NewEndpoints builds the lookup table from a Links array. Later duplicates
// of a relation overwrite earlier ones.
func NewEndpoints(links []Link) Endpoints {
	table := NewCIDict[string]()
	for _, link := range links {
		table.Set(link.Rel, link.Href)
	}

	return Endpoints{table: table}
}

// URL returns the URL for a relation. A missing relation is an error here,
// at lookup time, never at construction time.
func (e Endpoints) URL(rel string) (string, error) {
	href, ok := e.table.Get(rel)
	if !ok {
		return "", &InternalError{Message: fmt.Sprintf("required link relation %q is not advertised", rel)}
	}

	return href, nil
}

// URLOr returns the URL for a relation, or fallback when absent.
func (e Endpoints) URLOr(rel, fallback string) string {
	return e.table.GetOr(rel, fallback)
}

// Contains reports whether the relation is advertised.
func (e Endpoints) Contains(rel string) bool {
	return e.table.Contains(rel)
}

// Set overrides or adds a relation. Used for the rare server response that
// advertises a link under the wrong name.
func (e Endpoints) Set(rel, href string) {
	e.table.Set(rel, href)
}

// Rels returns the advertised relation names in response order.
func (e Endpoints) Rels() []string {
	return e.table.Keys()
}

// Len returns the number of advertised relations.
func (e Endpoints) Len() int {
	return e.table.Len()
}

var placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)

// ResourcePattern is a named URI template with {placeholder} tokens.
type ResourcePattern struct {
	Name    string
	Pattern string

	fields []string
	parsed bool
}

// NewResourcePattern builds a pattern from a Resources entry.
func NewResourcePattern(entry ResourceEntry) *ResourcePattern {
	return &ResourcePattern{Name: entry.Name, Pattern: entry.UriPattern}
}

// Fields returns the placeholder names in the template, in order of first
// occurrence. The scan runs once and is memoized.
func (p *ResourcePattern) Fields() []string {
	if !p.parsed {
		for _, m := range placeholderPattern.FindAllStringSubmatch(p.Pattern, -1) {
			p.fields = append(p.fields, m[1])
		}

		p.parsed = true
	}

	return p.fields
}

// Apply substitutes each {name} token, case-insensitively, with the value
// under that name. With strict set, every provided key must substitute at
// least once and no placeholder may remain unresolved; either violation is an
// InternalError naming the offending key or fields.
func (p *ResourcePattern) Apply(values map[string]string, strict bool) (string, error) {
	result := p.Pattern

	for name, value := range values {
		re, err := regexp.Compile(`(?i)\{` + regexp.QuoteMeta(name) + `\}`)
		if err != nil {
			return "", &InternalError{Message: fmt.Sprintf("invalid field name %q for pattern %q", name, p.Pattern)}
		}

		replaced := re.ReplaceAllLiteralString(result, value)
		if strict && replaced == result {
			return "", &InternalError{Message: fmt.Sprintf("key %q not found in pattern %q", name, p.Pattern)}
		}

		result = replaced
	}

	if strict {
		if missing := placeholderPattern.FindAllStringSubmatch(result, -1); len(missing) > 0 {
			names := make([]string, 0, len(missing))
			for _, m := range missing {
				names = append(names, m[1])
			}

			return "", &InternalError{
				Message: fmt.Sprintf("pattern %q incomplete, missing fields: %s", p.Pattern, strings.Join(names, ", ")),
			}
		}
	}

	return result, nil
}

func (p *ResourcePattern) String() string {
	return fmt.Sprintf("Resource %s = %q", p.Name, p.Pattern)
}

// Resources maps resource pattern names to their URI templates,
// case-insensitively.
type Resources struct {
	table *CIDict[*ResourcePattern]
}

// NewResources builds the pattern table from a Resources array.
func NewResources(entries []ResourceEntry) Resources {
	table := NewCIDict[*ResourcePattern]()
	for _, entry := range entries {
		p := NewResourcePattern(entry)
		table.Set(p.Name, p)
	}

	return Resources{table: table}
}

// Pattern returns the named pattern; a missing name is a lookup-time error.
func (r Resources) Pattern(name string) (*ResourcePattern, error) {
	p, ok := r.table.Get(name)
	if !ok {
		return nil, &InternalError{Message: fmt.Sprintf("resource pattern %q is not advertised", name)}
	}

	return p, nil
}

// Contains reports whether the named pattern is advertised.
func (r Resources) Contains(name string) bool {
	return r.table.Contains(name)
}

// Names returns the advertised pattern names in response order.
func (r Resources) Names() []string {
	return r.table.Keys()
}
