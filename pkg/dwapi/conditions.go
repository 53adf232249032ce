package dwapi

import (
	"fmt"
	"sort"
	"time"
)

// SearchField describes one searchable index field of a dialog: its database
// name, its display label, and the declared type.
type SearchField struct {
	ID     string
	Name   string
	Type   string
	Length int
}

// Condition is one resolved search term as the query endpoint expects it.
type Condition struct {
	DBName string   `json:"DBName"`
	Value  []string `json:"Value"`
}

// Logical operations joining the conditions of a search.
const (
	OperationAnd = "And"
	OperationOr  = "Or"
)

// ConditionResolver validates parsed search conditions against the fields a
// dialog actually has. The syntax layer (ParseSearchCondition) knows nothing
// about field names; unknown-field checks happen here.
type ConditionResolver struct {
	byID   *CIDict[SearchField]
	byName *CIDict[SearchField]
}

// NewConditionResolver indexes the dialog's fields by database name and by
// display label, both case-insensitively.
func NewConditionResolver(fields []SearchField) *ConditionResolver {
	r := &ConditionResolver{
		byID:   NewCIDict[SearchField](),
		byName: NewCIDict[SearchField](),
	}

	for _, f := range fields {
		r.byID.Set(f.ID, f)
		r.byName.Set(f.Name, f)
	}

	return r
}

// Field resolves a name to a field, trying database names before display
// labels. An unresolvable name is a SearchConditionError.
func (r *ConditionResolver) Field(name string) (SearchField, error) {
	if f, ok := r.byID.Get(name); ok {
		return f, nil
	}

	if f, ok := r.byName.Get(name); ok {
		return f, nil
	}

	return SearchField{}, &SearchConditionError{Field: name, Message: "unknown field"}
}

// Resolve parses each condition expression and maps its field to the
// database name.
func (r *ConditionResolver) Resolve(conditions []string) ([]Condition, error) {
	resolved := make([]Condition, 0, len(conditions))

	for _, text := range conditions {
		name, values, err := ParseSearchCondition(text)
		if err != nil {
			return nil, err
		}

		field, err := r.Field(name)
		if err != nil {
			return nil, err
		}

		resolved = append(resolved, Condition{DBName: field.ID, Value: values})
	}

	return resolved, nil
}

// ResolveMap resolves pre-split conditions. Fields are processed in sorted
// key order so the resulting query is deterministic.
func (r *ConditionResolver) ResolveMap(conditions map[string][]string) ([]Condition, error) {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}

	sort.Strings(names)

	resolved := make([]Condition, 0, len(names))

	for _, name := range names {
		field, err := r.Field(name)
		if err != nil {
			return nil, err
		}

		values := make([]string, 0, len(conditions[name]))
		for _, v := range conditions[name] {
			values = append(values, v)
		}

		resolved = append(resolved, Condition{DBName: field.ID, Value: values})
	}

	return resolved, nil
}

// ConvertFieldValue renders a condition value the way the query endpoint
// expects: nil matches anything, times use the platform date form, and
// everything else is its string form.
func ConvertFieldValue(value any) string {
	switch v := value.(type) {
	case nil:
		return "*"
	case time.Time:
		return FormatDateTime(v)
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
