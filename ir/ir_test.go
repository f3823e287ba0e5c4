package ir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/strschema/ir"
	"github.com/reoring/strschema/report"
)

func TestConstraints(t *testing.T) {
	var c ir.Constraints
	assert.True(t, c.IsZero())

	c2 := c.With(ir.MaxItems, 5).With(ir.MinItems, 1)
	assert.True(t, c.IsZero(), "With must not modify the receiver")
	assert.Equal(t, 2, c2.Len())
	assert.Equal(t, []ir.ConstraintName{ir.MinItems, ir.MaxItems}, c2.Names())

	v, ok := c2.Int(ir.MaxItems)
	assert.True(t, ok)
	assert.Equal(t, 5, v)
	_, ok = c2.Get(ir.Maximum)
	assert.False(t, ok)
}

func TestDimensionBounds(t *testing.T) {
	for _, d := range []ir.Dimension{ir.DimLength, ir.DimValue, ir.DimItems} {
		lo, hi := d.Bounds()
		assert.True(t, lo.IsMin(), d.String())
		assert.False(t, hi.IsMin(), d.String())
		assert.Equal(t, d, lo.Dimension())
		assert.Equal(t, d, hi.Dimension())
	}
}

func TestScalarName(t *testing.T) {
	tests := []struct {
		s    ir.Scalar
		want string
	}{
		{ir.Scalar{Base: ir.String}, "string"},
		{ir.Scalar{Base: ir.String, Text: true}, "text"},
		{ir.Scalar{Base: ir.String, Format: ir.FormatEmail}, "email"},
		{ir.Scalar{Base: ir.String, Format: ir.FormatDateTime}, "datetime"},
		{ir.Scalar{Base: ir.Integer, Alias: "integer"}, "int"},
		{ir.Scalar{Base: ir.Number, Alias: "float"}, "number"},
		{ir.Scalar{Base: ir.Boolean}, "bool"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.s.Name())
	}
	_, ok := (&ir.Scalar{Base: ir.Boolean}).Dimension()
	assert.False(t, ok)
}

func TestNewObject(t *testing.T) {
	name := ir.NewField("name", &ir.Scalar{Base: ir.String}, true)
	age := ir.NewField("age", &ir.Scalar{Base: ir.Integer}, false)

	obj, err := ir.NewObject(name, age)
	require.NoError(t, err)
	assert.Equal(t, []string{"name"}, obj.RequiredNames())
	f, ok := obj.Lookup("age")
	assert.True(t, ok)
	assert.False(t, f.Required)

	_, err = ir.NewObject(name, name)
	iss, ok := report.AsIssues(err)
	require.True(t, ok, "duplicate fields must be reported as issues")
	assert.Equal(t, report.CodeDuplicateField, iss[0].Code)

	_, err = ir.NewObject(ir.Field{Name: "x"})
	assert.Error(t, err)
}

func TestEqual_IgnoresSpelling(t *testing.T) {
	a := &ir.Array{Item: &ir.Enum{Values: []string{"a", "b"}, Spelling: "choice"}, Spelling: "list"}
	b := &ir.Array{Item: &ir.Enum{Values: []string{"a", "b"}, Spelling: "enum"}}
	assert.True(t, ir.Equal(a, b))

	c := &ir.Array{Item: &ir.Enum{Values: []string{"b", "a"}}}
	assert.False(t, ir.Equal(a, c), "enum order is significant")

	u1 := &ir.Union{Members: []ir.Node{&ir.Scalar{Base: ir.String}}, Nullable: true}
	u2 := &ir.Union{Members: []ir.Node{&ir.Scalar{Base: ir.String}}}
	assert.False(t, ir.Equal(u1, u2))
	assert.True(t, ir.Equal(nil, nil))
	assert.False(t, ir.Equal(u1, nil))
}

func TestInspect(t *testing.T) {
	root := &ir.Object{Fields: []ir.Field{
		ir.NewField("tags", &ir.Array{Item: &ir.Scalar{Base: ir.String}}, true),
		ir.NewField("meta", &ir.Object{Fields: []ir.Field{
			ir.NewField("v", &ir.Union{Members: []ir.Node{&ir.Scalar{Base: ir.Integer}}}, true),
		}}, true),
	}}

	var kinds []ir.NodeKind
	ir.Inspect(root, func(n ir.Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})
	assert.Equal(t, []ir.NodeKind{
		ir.NodeObject, ir.NodeArray, ir.NodeScalar, ir.NodeObject, ir.NodeUnion, ir.NodeScalar,
	}, kinds)

	count := 0
	ir.Inspect(root, func(n ir.Node) bool {
		count++
		return n.Kind() != ir.NodeObject
	})
	assert.Equal(t, 1, count, "returning false skips children")
}
