package prediction

import "fmt"

// TemplateHit is a structural template match for a query sequence.
type TemplateHit struct {
	Index        int     `json:"index"`
	Name         string  `json:"name"`
	AlignedCols  int     `json:"aligned_cols"`
	SumProbs     float64 `json:"sum_probs"`
	Query        string  `json:"query"`
	HitSequence  string  `json:"hit_sequence"`
	IndicesQuery []int   `json:"indices_query"`
	IndicesHit   []int   `json:"indices_hit"`
}

// TemplateSet holds the ranked template hits of one query sequence.
type TemplateSet []TemplateHit

// Validate checks the hit's index correspondence.
// indices_query, indices_hit, query and hit_sequence must all have equal length.
func (h TemplateHit) Validate() error {
	if h.Index < 1 {
		return fmt.Errorf("index must be >= 1, got %d", h.Index)
	}
	if len(h.IndicesQuery) != len(h.IndicesHit) {
		return fmt.Errorf("indices_query has %d positions, indices_hit has %d",
			len(h.IndicesQuery), len(h.IndicesHit))
	}
	if len(h.Query) != len(h.IndicesQuery) {
		return fmt.Errorf("query length %d does not match %d query indices",
			len(h.Query), len(h.IndicesQuery))
	}
	if len(h.HitSequence) != len(h.IndicesHit) {
		return fmt.Errorf("hit_sequence length %d does not match %d hit indices",
			len(h.HitSequence), len(h.IndicesHit))
	}
	return nil
}
