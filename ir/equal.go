package ir

// Equal reports whether a and b describe the same shape. Spellings recorded
// for diagnostics (Scalar.Alias, Scalar.Text, Array.Spelling, Enum.Spelling)
// and field positions are ignored, since they never change the emitted
// schema.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case *Scalar:
		y := b.(*Scalar)
		return x.Base == y.Base && x.Format == y.Format && x.Constraints == y.Constraints
	case *Object:
		y := b.(*Object)
		if len(x.Fields) != len(y.Fields) {
			return false
		}
		for i := range x.Fields {
			fx, fy := x.Fields[i], y.Fields[i]
			if fx.Name != fy.Name || fx.Required != fy.Required || !Equal(fx.Type, fy.Type) {
				return false
			}
		}
		return true
	case *Array:
		y := b.(*Array)
		return x.Constraints == y.Constraints && Equal(x.Item, y.Item)
	case *Enum:
		y := b.(*Enum)
		if len(x.Values) != len(y.Values) {
			return false
		}
		for i := range x.Values {
			if x.Values[i] != y.Values[i] {
				return false
			}
		}
		return true
	case *Union:
		y := b.(*Union)
		if x.Nullable != y.Nullable || len(x.Members) != len(y.Members) {
			return false
		}
		for i := range x.Members {
			if !Equal(x.Members[i], y.Members[i]) {
				return false
			}
		}
		return true
	}
	return false
}

// Inspect traverses the tree rooted at n in depth-first order, calling fn for
// each node. If fn returns false, the children of that node are skipped.
func Inspect(n Node, fn func(Node) bool) {
	if n == nil || !fn(n) {
		return
	}
	switch t := n.(type) {
	case *Object:
		for _, f := range t.Fields {
			Inspect(f.Type, fn)
		}
	case *Array:
		Inspect(t.Item, fn)
	case *Union:
		for _, m := range t.Members {
			Inspect(m, fn)
		}
	}
}
