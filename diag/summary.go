package diag

import "github.com/reoring/strschema/report"

// Summary is the machine-readable form of a Result, as printed by
// `strschema check -json`.
type Summary struct {
	Valid        bool      `json:"valid" yaml:"valid"`
	Errors       []Entry   `json:"errors" yaml:"errors"`
	Warnings     []Entry   `json:"warnings" yaml:"warnings"`
	FeaturesUsed []Feature `json:"features_used" yaml:"features_used"`
}

// Entry is one issue of a Summary.
type Entry struct {
	Code     string    `json:"code" yaml:"code"`
	Message  string    `json:"message" yaml:"message"`
	Hint     string    `json:"hint,omitempty" yaml:"hint,omitempty"`
	Path     string    `json:"path,omitempty" yaml:"path,omitempty"`
	Position *Position `json:"position,omitempty" yaml:"position,omitempty"`
}

// Position locates an Entry in the source.
type Position struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
	Offset int `json:"offset" yaml:"offset"`
}

// Summary converts r. Empty lists are kept non-nil so they encode as [].
func (r Result) Summary() Summary {
	features := r.Features
	if features == nil {
		features = []Feature{}
	}
	return Summary{
		Valid:        r.Valid,
		Errors:       entries(r.Errors),
		Warnings:     entries(r.Warnings),
		FeaturesUsed: features,
	}
}

func entries(iss report.Issues) []Entry {
	out := make([]Entry, 0, len(iss))
	for _, it := range iss {
		e := Entry{Code: it.Code, Message: it.Message, Hint: it.Hint, Path: it.Path}
		if it.Pos.IsValid() {
			e.Position = &Position{Line: it.Pos.Line, Column: it.Pos.Column, Offset: it.Pos.Offset}
		}
		out = append(out, e)
	}
	return out
}
