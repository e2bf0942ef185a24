package schema

import (
	"github.com/ajitpratap0/gzcsv/pkg/models"
)

// ColumnProfile summarizes the kinds inferred for one column over a sample
// of rows.
type ColumnProfile struct {
	Name       string         `json:"name"`
	Identifier bool           `json:"identifier"`
	Kinds      map[string]int `json:"kinds"`
	Empty      int            `json:"empty"`
	Samples    int            `json:"samples"`
	// Type is the dominant kind, set by Profiles
	Type string `json:"type"`
	// Example is the first non-empty value seen, as inferred
	Example interface{} `json:"example,omitempty"`
}

// Dominant returns the most frequent kind, preferring string on ties.
func (p *ColumnProfile) Dominant() string {
	best, bestCount := models.KindString.String(), -1
	for _, k := range []models.Kind{models.KindString, models.KindNumber, models.KindBool, models.KindNull} {
		if c := p.Kinds[k.String()]; c > bestCount {
			best, bestCount = k.String(), c
		}
	}
	return best
}

// Profiler accumulates column profiles row by row.
type Profiler struct {
	engine   *TypeInferenceEngine
	profiles []*ColumnProfile
}

// NewProfiler creates a profiler for every column of header
func NewProfiler(engine *TypeInferenceEngine, header []string) *Profiler {
	profiles := make([]*ColumnProfile, len(header))
	for i, name := range header {
		profiles[i] = &ColumnProfile{
			Name:       name,
			Identifier: engine.IsIdentifier(name),
			Kinds:      make(map[string]int),
		}
	}
	return &Profiler{engine: engine, profiles: profiles}
}

// Observe infers every cell of row and counts the result. Non-finite values
// are counted as null regardless of policy.
func (p *Profiler) Observe(row []string) {
	for i, raw := range row {
		if i >= len(p.profiles) {
			break
		}
		prof := p.profiles[i]
		prof.Samples++
		if raw == "" {
			prof.Empty++
		}

		cell, err := p.engine.InferCell(prof.Name, raw)
		if err != nil {
			cell = models.Null()
		}
		prof.Kinds[cell.Kind().String()]++
		if prof.Example == nil && raw != "" {
			prof.Example = cell.Value()
		}
	}
}

// Profiles returns the accumulated profiles in header order
func (p *Profiler) Profiles() []*ColumnProfile {
	for _, prof := range p.profiles {
		prof.Type = prof.Dominant()
	}
	return p.profiles
}
