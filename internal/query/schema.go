package query

import (
	"strconv"
	"strings"
	"time"
)

type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindTime
	// KindDocument marks nested or array values: projectable only.
	KindDocument
)

// Field maps a public field name onto its storage names. Only fields listed
// in a schema can reach a store, which is what keeps request keys out of
// query syntax.
type Field struct {
	Name   string // request and JSON name
	Column string // relational column
	Key    string // document key
	Kind   Kind
}

func (f Field) Filterable() bool {
	return f.Kind != KindDocument
}

func (f Field) Sortable() bool {
	return f.Kind != KindDocument
}

// Coerce converts a raw parameter into the field's kind. ok is false when the
// value does not parse; callers drop the predicate in that case.
func (f Field) Coerce(raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	switch f.Kind {
	case KindNumber:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, false
		}
		return v, true
	case KindBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, false
		}
		return v, true
	case KindTime:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
			if v, err := time.Parse(layout, raw); err == nil {
				return v.UTC(), true
			}
		}
		return nil, false
	case KindString:
		return raw, true
	default:
		return nil, false
	}
}

type Schema struct {
	Collection   string
	IDField      string
	VersionField string
	DefaultSort  []SortField
	fields       map[string]Field
}

func NewSchema(collection string, defaultSort []SortField, fields ...Field) *Schema {
	s := &Schema{
		Collection:   collection,
		IDField:      "id",
		VersionField: "version",
		DefaultSort:  defaultSort,
		fields:       make(map[string]Field, len(fields)),
	}
	for _, f := range fields {
		if f.Column == "" {
			f.Column = f.Name
		}
		if f.Key == "" {
			f.Key = f.Name
		}
		s.fields[f.Name] = f
	}
	return s
}

func (s *Schema) Field(name string) (Field, bool) {
	f, ok := s.fields[name]
	return f, ok
}

// MustField is for store code resolving names the schema itself produced.
func (s *Schema) MustField(name string) Field {
	f, ok := s.fields[name]
	if !ok {
		panic("query: unknown field " + name + " in " + s.Collection)
	}
	return f
}
