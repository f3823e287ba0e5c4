package ir

import "fmt"

// ConstraintName names a single numeric constraint.
type ConstraintName int

const (
	MinLength ConstraintName = iota
	MaxLength
	Minimum
	Maximum
	MinItems
	MaxItems

	numConstraints
)

// AllConstraintNames lists every constraint name in canonical order.
var AllConstraintNames = []ConstraintName{MinLength, MaxLength, Minimum, Maximum, MinItems, MaxItems}

func (n ConstraintName) String() string {
	switch n {
	case MinLength:
		return "min_length"
	case MaxLength:
		return "max_length"
	case Minimum:
		return "min"
	case Maximum:
		return "max"
	case MinItems:
		return "min_items"
	case MaxItems:
		return "max_items"
	}
	return fmt.Sprintf("ConstraintName(%d)", int(n))
}

// Dimension returns the semantic axis the constraint applies to.
func (n ConstraintName) Dimension() Dimension {
	switch n {
	case MinLength, MaxLength:
		return DimLength
	case MinItems, MaxItems:
		return DimItems
	}
	return DimValue
}

// IsMin reports whether n is the lower bound of its dimension.
func (n ConstraintName) IsMin() bool { return n == MinLength || n == Minimum || n == MinItems }

// Dimension is the axis a numeric constraint applies to.
type Dimension int

const (
	DimLength Dimension = iota // string length
	DimValue                   // numeric value range
	DimItems                   // array item count
)

func (d Dimension) String() string {
	switch d {
	case DimLength:
		return "length"
	case DimValue:
		return "value"
	case DimItems:
		return "items"
	}
	return fmt.Sprintf("Dimension(%d)", int(d))
}

// Bounds returns the (min, max) constraint pair of the dimension.
func (d Dimension) Bounds() (ConstraintName, ConstraintName) {
	switch d {
	case DimLength:
		return MinLength, MaxLength
	case DimItems:
		return MinItems, MaxItems
	}
	return Minimum, Maximum
}

// Constraints is an immutable set of numeric constraints. The zero value is
// the empty set.
type Constraints struct {
	set  uint8
	vals [numConstraints]float64
}

// Get returns the value of the named constraint.
func (c Constraints) Get(n ConstraintName) (float64, bool) {
	if !c.Has(n) {
		return 0, false
	}
	return c.vals[n], true
}

// Has reports whether the named constraint is set.
func (c Constraints) Has(n ConstraintName) bool {
	return n >= 0 && n < numConstraints && c.set&(1<<uint(n)) != 0
}

// With returns a copy of c with n set to v.
func (c Constraints) With(n ConstraintName, v float64) Constraints {
	c.set |= 1 << uint(n)
	c.vals[n] = v
	return c
}

// IsZero reports whether no constraint is set.
func (c Constraints) IsZero() bool { return c.set == 0 }

// Len returns the number of constraints set.
func (c Constraints) Len() int {
	n := 0
	for _, name := range AllConstraintNames {
		if c.Has(name) {
			n++
		}
	}
	return n
}

// Names lists the constraints that are set, in canonical order.
func (c Constraints) Names() []ConstraintName {
	var out []ConstraintName
	for _, name := range AllConstraintNames {
		if c.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// Int returns the named constraint truncated to an int.
func (c Constraints) Int(n ConstraintName) (int, bool) {
	v, ok := c.Get(n)
	return int(v), ok
}

// ConstraintsOf returns the constraints carried by a scalar or array node.
func ConstraintsOf(n Node) Constraints {
	switch t := n.(type) {
	case *Scalar:
		return t.Constraints
	case *Array:
		return t.Constraints
	}
	return Constraints{}
}
