// Package constraint resolves the arguments of a parenthesized constraint
// group into an ir.Constraints value for a given target dimension.
package constraint

import (
	"math"
	"strconv"
	"strings"

	"github.com/reoring/strschema/internal/suggest"
	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/report"
)

// Arg is one comma-separated entry of a constraint group. Name is empty for
// positional entries.
type Arg struct {
	Name    string
	Value   string
	Numeric bool // Value was lexed as a number
	Pos     report.Pos
	Len     int
}

// Target describes the type a constraint group applies to.
type Target struct {
	Dimension ir.Dimension
	Integer   bool   // value bounds must be whole numbers
	TypeName  string // used in messages, e.g. "string" or "array"
}

// names maps accepted constraint spellings to the dimension-relative bound
// they denote. "min"/"max" are resolved against the target dimension.
var names = map[string]ir.ConstraintName{
	"min_length": ir.MinLength,
	"minlength":  ir.MinLength,
	"max_length": ir.MaxLength,
	"maxlength":  ir.MaxLength,
	"minimum":    ir.Minimum,
	"maximum":    ir.Maximum,
	"min_items":  ir.MinItems,
	"minitems":   ir.MinItems,
	"max_items":  ir.MaxItems,
	"maxitems":   ir.MaxItems,
}

// maxSafeInteger is the largest integer a float64 bound holds exactly.
const maxSafeInteger = 1<<53 - 1

var knownNames = []string{"min", "max", "min_length", "max_length", "min_items", "max_items", "minimum", "maximum"}

// Resolve turns args into constraints for target.
//
// Positional values map onto the (min, max) pair of the target dimension;
// a single positional value is the max. Named and positional entries may be
// mixed, but setting the same bound twice is an error.
func Resolve(args []Arg, target Target) (ir.Constraints, error) {
	var (
		cs         ir.Constraints
		positional []Arg
		named      []Arg
		origin     = map[ir.ConstraintName]Arg{}
	)
	for _, a := range args {
		if a.Name == "" {
			positional = append(positional, a)
		} else {
			named = append(named, a)
		}
	}
	if len(positional) > 2 {
		a := positional[2]
		return cs, report.Errorf(report.Semantic, report.CodeConstraintConflict, a.Pos, a.Len,
			"too many positional constraints for %s: expected at most 2 (min, max)", target.TypeName)
	}

	minName, maxName := target.Dimension.Bounds()
	assign := func(name ir.ConstraintName, a Arg) error {
		if prev, dup := origin[name]; dup {
			return report.Errorf(report.Semantic, report.CodeConstraintConflict, a.Pos, a.Len,
				"constraint %s is specified more than once (first as %s at %s)", name, describe(prev), prev.Pos)
		}
		v, err := value(name, a, target)
		if err != nil {
			return err
		}
		origin[name] = a
		cs = cs.With(name, v)
		return nil
	}

	switch len(positional) {
	case 1:
		if err := assign(maxName, positional[0]); err != nil {
			return cs, err
		}
	case 2:
		if err := assign(minName, positional[0]); err != nil {
			return cs, err
		}
		if err := assign(maxName, positional[1]); err != nil {
			return cs, err
		}
	}

	for _, a := range named {
		name, err := canonical(a, target)
		if err != nil {
			return cs, err
		}
		if err := assign(name, a); err != nil {
			return cs, err
		}
	}

	lo, hasLo := cs.Get(minName)
	hi, hasHi := cs.Get(maxName)
	if hasLo && hasHi && lo > hi {
		a := origin[maxName]
		return cs, report.Errorf(report.Semantic, report.CodeConstraintConflict, a.Pos, a.Len,
			"%s %s exceeds %s %s", minName, format(lo), maxName, format(hi))
	}
	return cs, nil
}

// canonical maps a named argument to the bound it sets on target.
func canonical(a Arg, target Target) (ir.ConstraintName, error) {
	key := strings.ToLower(a.Name)
	minName, maxName := target.Dimension.Bounds()
	switch key {
	case "min":
		return minName, nil
	case "max":
		return maxName, nil
	}
	name, ok := names[key]
	if !ok {
		return 0, report.Errorf(report.Semantic, report.CodeUnknownConstraint, a.Pos, len(a.Name),
			"unknown constraint %q", a.Name).WithHint(suggest.Hint(key, knownNames))
	}
	if name.Dimension() != target.Dimension {
		return 0, report.Errorf(report.Semantic, report.CodeConstraintNotAllowed, a.Pos, len(a.Name),
			"constraint %s applies to %s, but %s constrains %s", a.Name, name.Dimension(), target.TypeName, target.Dimension).
			WithHint("use min=/max= or " + minName.String() + "=/" + maxName.String() + "=")
	}
	return name, nil
}

func value(name ir.ConstraintName, a Arg, target Target) (float64, error) {
	if !a.Numeric {
		return 0, report.Errorf(report.Semantic, report.CodeInvalidConstraintValue, a.Pos, a.Len,
			"constraint %s expects a number, found %q", name, a.Value)
	}
	v, err := strconv.ParseFloat(a.Value, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, report.Errorf(report.Semantic, report.CodeInvalidConstraintValue, a.Pos, a.Len,
			"constraint %s has an out of range value %q", name, a.Value)
	}
	whole := v == math.Trunc(v)
	switch name.Dimension() {
	case ir.DimLength, ir.DimItems:
		if !whole {
			return 0, report.Errorf(report.Semantic, report.CodeInvalidConstraintValue, a.Pos, a.Len,
				"constraint %s expects a whole number, found %s", name, a.Value)
		}
		if v < 0 {
			return 0, report.Errorf(report.Semantic, report.CodeInvalidConstraintValue, a.Pos, a.Len,
				"constraint %s cannot be negative, found %s", name, a.Value)
		}
		if v > math.MaxInt32 {
			return 0, report.Errorf(report.Semantic, report.CodeInvalidConstraintValue, a.Pos, a.Len,
				"constraint %s is too large, found %s (at most %d)", name, a.Value, math.MaxInt32)
		}
	case ir.DimValue:
		if target.Integer && !whole {
			return 0, report.Errorf(report.Semantic, report.CodeInvalidConstraintValue, a.Pos, a.Len,
				"bounds of %s must be whole numbers, found %s", target.TypeName, a.Value)
		}
		if target.Integer && math.Abs(v) > maxSafeInteger {
			return 0, report.Errorf(report.Semantic, report.CodeInvalidConstraintValue, a.Pos, a.Len,
				"bounds of %s are too large, found %s (magnitude at most %d)", target.TypeName, a.Value, maxSafeInteger)
		}
	}
	return v, nil
}

func describe(a Arg) string {
	if a.Name == "" {
		return "positional " + a.Value
	}
	return a.Name + "=" + a.Value
}

func format(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
