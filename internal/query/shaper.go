package query

import (
	"maps"
	"math"
	"net/url"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 100
)

// Control keys are read by the pipeline and never become filter fields.
const (
	KeyPage   = "page"
	KeySort   = "sort"
	KeyLimit  = "limit"
	KeyFields = "fields"
)

var controlKeys = map[string]bool{KeyPage: true, KeySort: true, KeyLimit: true, KeyFields: true}

var comparisonOps = map[string]Operator{
	"gte": OpGte,
	"gt":  OpGt,
	"lte": OpLte,
	"lt":  OpLt,
}

// field[op]
var bracketKey = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9_]*)\[([A-Za-z]+)\]$`)

// Params is the raw request parameter map. Repeated keys keep every value.
type Params map[string][]string

func FromValues(v url.Values) Params {
	return Params(v)
}

// Get returns the last value of key, matching how duplicate parameters
// collapse to the final occurrence.
func (p Params) Get(key string) string {
	vs := p[key]
	if len(vs) == 0 {
		return ""
	}
	return vs[len(vs)-1]
}

// Shaper builds queries for one schema. It holds no mutable state, so a
// single instance serves concurrent requests.
type Shaper struct {
	schema *Schema
}

func NewShaper(schema *Schema) *Shaper {
	return &Shaper{schema: schema}
}

// Build applies filter, sort, projection and pagination to base, in that
// order, and returns the composed query. base is not modified.
func (s *Shaper) Build(base Query, params Params) Query {
	q := base.clone()
	if q.Collection == "" {
		q.Collection = s.schema.Collection
	}
	q.Filter = append(q.Filter, s.filter(params)...)
	q.Sort = s.sort(params)
	q.Projection = s.project(params)
	q.Skip, q.Limit = paginate(params)
	return q
}

func (s *Shaper) filter(params Params) []Predicate {
	var preds []Predicate
	for _, key := range sortedKeys(params) {
		if controlKeys[key] {
			continue
		}
		values := params[key]
		if len(values) == 0 {
			continue
		}

		name, op := key, OpEq
		if m := bracketKey.FindStringSubmatch(key); m != nil {
			known, ok := comparisonOps[strings.ToLower(m[2])]
			if !ok {
				continue
			}
			name, op = m[1], known
		}

		field, ok := s.schema.Field(name)
		if !ok || !field.Filterable() {
			continue
		}

		if op != OpEq {
			v, ok := field.Coerce(values[len(values)-1])
			if !ok {
				continue
			}
			preds = append(preds, Predicate{Field: field.Name, Op: op, Value: v})
			continue
		}

		coerced := make([]any, 0, len(values))
		for _, raw := range values {
			if v, ok := field.Coerce(raw); ok {
				coerced = append(coerced, v)
			}
		}
		switch len(coerced) {
		case 0:
		case 1:
			preds = append(preds, Predicate{Field: field.Name, Op: OpEq, Value: coerced[0]})
		default:
			preds = append(preds, Predicate{Field: field.Name, Op: OpIn, Value: coerced})
		}
	}
	return preds
}

func (s *Shaper) sort(params Params) []SortField {
	var out []SortField
	seen := map[string]bool{}
	for _, tok := range splitList(params.Get(KeySort)) {
		desc := strings.HasPrefix(tok, "-")
		name := strings.TrimPrefix(tok, "-")
		field, ok := s.schema.Field(name)
		if !ok || !field.Sortable() || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, SortField{Field: name, Desc: desc})
	}
	if len(out) == 0 {
		return append([]SortField(nil), s.schema.DefaultSort...)
	}
	return out
}

func (s *Shaper) project(params Params) Projection {
	var include, exclude []string
	seen := map[string]bool{}
	for _, tok := range splitList(params.Get(KeyFields)) {
		neg := strings.HasPrefix(tok, "-")
		name := strings.TrimPrefix(tok, "-")
		if _, ok := s.schema.Field(name); !ok || seen[name] {
			continue
		}
		seen[name] = true
		if neg {
			exclude = append(exclude, name)
		} else {
			include = append(include, name)
		}
	}

	switch {
	case len(include) > 0:
		out := []string{s.schema.IDField}
		for _, name := range include {
			if name != s.schema.IDField {
				out = append(out, name)
			}
		}
		return Projection{Include: out}
	case len(exclude) > 0:
		return Projection{Exclude: exclude}
	default:
		return Projection{Exclude: []string{s.schema.VersionField}}
	}
}

// paginate never fails: bad, missing or non-positive values fall back to the
// defaults, so a zero or negative limit can never reach a store as
// "unlimited".
func paginate(params Params) (skip, limit int) {
	page := positiveInt(params.Get(KeyPage), DefaultPage)
	limit = positiveInt(params.Get(KeyLimit), DefaultLimit)
	if page-1 > math.MaxInt/limit {
		return math.MaxInt, limit
	}
	return (page - 1) * limit, limit
}

func positiveInt(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v <= 0 {
		return def
	}
	return v
}

func sortedKeys(params Params) []string {
	return slices.Sorted(maps.Keys(params))
}

func splitList(raw string) []string {
	return strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' })
}
