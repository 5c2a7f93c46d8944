// Package query turns untrusted request parameters into a composed,
// not-yet-executed query descriptor. Stores translate the descriptor into
// their native form; nothing here talks to a database.
package query

type Operator string

const (
	OpEq  Operator = "eq"
	OpIn  Operator = "in"
	OpGte Operator = "gte"
	OpGt  Operator = "gt"
	OpLte Operator = "lte"
	OpLt  Operator = "lt"
)

// Predicate constrains one field. Field is the public (JSON) field name;
// Value is already coerced to the field's kind. For OpIn, Value is []any.
type Predicate struct {
	Field string
	Op    Operator
	Value any
}

type SortField struct {
	Field string
	Desc  bool
}

// Projection is either an inclusion list or an exclusion list, never both.
type Projection struct {
	Include []string
	Exclude []string
}

// Options are the explicit switches that replace implicit find-time
// behaviour: hidden documents and related-entity population.
type Options struct {
	IncludeSecret bool
	Populate      []string
}

func (o Options) Populates(relation string) bool {
	for _, p := range o.Populate {
		if p == relation {
			return true
		}
	}
	return false
}

// Query is the descriptor a store executes. A zero Limit means the shaper
// has not run; stores treat it as DefaultLimit.
type Query struct {
	Collection string
	Filter     []Predicate
	Sort       []SortField
	Projection Projection
	Skip       int
	Limit      int
	Options
}

// Where returns a copy of q with an extra equality predicate.
func (q Query) Where(field string, value any) Query {
	out := q.clone()
	out.Filter = append(out.Filter, Predicate{Field: field, Op: OpEq, Value: value})
	return out
}

func (q Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

func (q Query) clone() Query {
	out := q
	out.Filter = append([]Predicate(nil), q.Filter...)
	out.Sort = append([]SortField(nil), q.Sort...)
	out.Projection = Projection{
		Include: append([]string(nil), q.Projection.Include...),
		Exclude: append([]string(nil), q.Projection.Exclude...),
	}
	out.Populate = append([]string(nil), q.Populate...)
	return out
}
