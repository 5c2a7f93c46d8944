package query

import (
	"encoding/json"
	"fmt"
)

// Shape renders v (a document or a slice of documents) and applies the
// projection to each rendered document, so omitted fields are absent from the
// response rather than present with zero values.
func (p Projection) Shape(v any) (any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("render documents: %w", err)
	}

	var many []map[string]any
	if err := json.Unmarshal(raw, &many); err == nil {
		for _, doc := range many {
			p.apply(doc)
		}
		if many == nil {
			many = []map[string]any{}
		}
		return many, nil
	}

	var one map[string]any
	if err := json.Unmarshal(raw, &one); err != nil {
		return nil, fmt.Errorf("shape documents: %w", err)
	}
	p.apply(one)
	return one, nil
}

func (p Projection) apply(doc map[string]any) {
	if len(p.Include) > 0 {
		keep := make(map[string]bool, len(p.Include))
		for _, f := range p.Include {
			keep[f] = true
		}
		for k := range doc {
			if !keep[k] {
				delete(doc, k)
			}
		}
		return
	}
	for _, f := range p.Exclude {
		delete(doc, f)
	}
}
