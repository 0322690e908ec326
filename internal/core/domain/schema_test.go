package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinSchemas(t *testing.T) {
	lengths := map[string]int{"basic-13": 13, "ultisol-21": 21, "kesuburan-21": 21, "rf-21": 21}
	for _, name := range BuiltinSchemaNames() {
		s, ok := LookupSchema(name)
		require.True(t, ok, name)
		assert.Equal(t, lengths[name], s.Len(), name)
		assert.NoError(t, s.Validate(), name)
	}

	_, ok := LookupSchema("unknown")
	assert.False(t, ok)
}

func TestLookupSchema_ReturnsCopy(t *testing.T) {
	s, _ := LookupSchema("rf-21")
	s.Columns[0] = "mutated"

	again, _ := LookupSchema("rf-21")
	assert.Equal(t, "Mg(%)", again.Columns[0])
	assert.Equal(t, "Mg(%)", SchemaRF21.Columns[0])
}

func TestLookupSchema_IndependentOfExportedVars(t *testing.T) {
	for _, name := range BuiltinSchemaNames() {
		s, _ := LookupSchema(name)
		internal := builtinSchemas[name]
		assert.NotSame(t, &s.Columns[0], &internal.Columns[0], name)
	}
	assert.NotSame(t, &SchemaBasic13.Columns[0], &builtinSchemas[SchemaBasic13.Name].Columns[0])
	assert.NotSame(t, &SchemaRF21.Columns[0], &builtinSchemas[SchemaRF21.Name].Columns[0])
}

func TestSchemaKesuburan21_LowerCaseLabels(t *testing.T) {
	s, ok := LookupSchema("kesuburan-21")
	require.True(t, ok)
	assert.Equal(t, "c(%)", s.Columns[17])
	assert.Equal(t, "p(%)", s.Columns[18])
	assert.Equal(t, "C(%)", SchemaUltisol21.Columns[17])
}

func TestSchema_Validate(t *testing.T) {
	assert.ErrorIs(t, Schema{}.Validate(), ErrInvalidSchema)
	assert.ErrorIs(t, Schema{Columns: []string{"a", " "}}.Validate(), ErrInvalidSchema)
	assert.ErrorIs(t, Schema{Columns: []string{"a", "a"}}.Validate(), ErrInvalidSchema)
	assert.ErrorIs(t, Schema{Columns: []string{ImpedanceColumn}}.Validate(), ErrInvalidSchema)
	assert.NoError(t, Schema{Columns: []string{"a", "b"}}.Validate())
}

func TestBoundsFor(t *testing.T) {
	assert.Equal(t, PHBounds, BoundsFor("pH"))
	assert.Equal(t, PHBounds, BoundsFor("pH(%)"))
	assert.Equal(t, PercentBounds, BoundsFor("P(%)"))
	assert.Equal(t, 14.0, PHBounds.Clamp(20))
	assert.Equal(t, 0.0, PercentBounds.Clamp(-3))
	assert.True(t, PercentBounds.Contains(100))
}

func TestReport_EmptyRadar(t *testing.T) {
	r := &Report{}
	assert.Empty(t, r.RadarProjection().Categories)
	assert.Equal(t, []string{ImpedanceColumn}, r.Table().Columns)
}
