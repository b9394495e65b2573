package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeFieldsAliases(t *testing.T) {
	tests := []struct {
		name    string
		in      map[string]any
		key     string
		want    float64
		present bool
	}{
		{"legacy energy key folds", map[string]any{"energyConsumptionKwh": 45000.0}, "electricityUsageKwh", 45000, true},
		{"canonical key passes through", map[string]any{"electricityUsageKwh": 45000.0}, "electricityUsageKwh", 45000, true},
		{"canonical wins over alias", map[string]any{"electricityUsageKwh": 100.0, "energyConsumptionKwh": 999.0}, "electricityUsageKwh", 100, true},
		{"legacy governance key folds", map[string]any{"boardSize": 5.0}, "boardMembers", 5, true},
		{"unknown key untouched", map[string]any{"customField": 7.0}, "customField", 7, true},
		{"absent key stays absent", map[string]any{}, "electricityUsageKwh", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFields(tt.in)
			v, ok := FieldNumber(got, tt.key)
			assert.Equal(t, tt.present, ok)
			if tt.present {
				assert.InDelta(t, tt.want, v, 0.001)
			}
		})
	}
}

func TestNormalizeFieldsDerivations(t *testing.T) {
	t.Run("female percent derived from counts", func(t *testing.T) {
		got := NormalizeFields(map[string]any{
			"totalEmployees":  200.0,
			"femaleEmployees": 50.0,
		})
		v, ok := FieldNumber(got, "femaleEmployeePercent")
		require.True(t, ok)
		assert.InDelta(t, 25.0, v, 0.001)
	})

	t.Run("explicit percent preferred over counts", func(t *testing.T) {
		got := NormalizeFields(map[string]any{
			"totalEmployees":        200.0,
			"femaleEmployees":       50.0,
			"femaleEmployeePercent": 40.0,
		})
		v, ok := FieldNumber(got, "femaleEmployeePercent")
		require.True(t, ok)
		assert.InDelta(t, 40.0, v, 0.001)
	})

	t.Run("training hours derived from totals", func(t *testing.T) {
		got := NormalizeFields(map[string]any{
			"totalEmployees":     100.0,
			"totalTrainingHours": 1500.0,
		})
		v, ok := FieldNumber(got, "trainingHoursPerEmployee")
		require.True(t, ok)
		assert.InDelta(t, 15.0, v, 0.001)
	})

	t.Run("no derivation without headcount", func(t *testing.T) {
		got := NormalizeFields(map[string]any{"femaleEmployees": 50.0})
		assert.False(t, FieldPresent(got, "femaleEmployeePercent"))
	})

	t.Run("nil map yields empty map", func(t *testing.T) {
		got := NormalizeFields(nil)
		require.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestFieldNumberCoercion(t *testing.T) {
	fields := map[string]any{
		"f64":   1.5,
		"f32":   float32(1.25),
		"i":     3,
		"i64":   int64(4),
		"str":   "2.25",
		"blank": "",
		"junk":  "abc",
		"nan":   math.NaN(),
		"nan32": float32(math.NaN()),
		"inf32": float32(math.Inf(1)),
		"null":  nil,
		"flag":  true,
	}

	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"f64", 1.5, true},
		{"f32", 1.25, true},
		{"i", 3, true},
		{"i64", 4, true},
		{"str", 2.25, true},
		{"blank", 0, false},
		{"junk", 0, false},
		{"nan", 0, false},
		{"nan32", 0, false},
		{"inf32", 0, false},
		{"null", 0, false},
		{"flag", 0, false},
		{"missing", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := FieldNumber(fields, tt.key)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, v, 0.001)
			}
		})
	}
}

func TestFieldBoolCoercion(t *testing.T) {
	fields := map[string]any{
		"b":    true,
		"yes":  "Yes",
		"no":   "no",
		"one":  1.0,
		"zero": 0,
		"junk": "maybe",
	}

	tests := []struct {
		key  string
		want bool
		ok   bool
	}{
		{"b", true, true},
		{"yes", true, true},
		{"no", false, true},
		{"one", true, true},
		{"zero", false, true},
		{"junk", false, false},
		{"missing", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			v, ok := FieldBool(fields, tt.key)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestFieldPresent(t *testing.T) {
	fields := map[string]any{
		"num":   5.0,
		"zero":  0.0,
		"str":   "x",
		"blank": "  ",
		"nan":   math.NaN(),
		"null":  nil,
		"flag":  false,
	}

	assert.True(t, FieldPresent(fields, "num"))
	assert.True(t, FieldPresent(fields, "zero"), "zero is a value, not absence")
	assert.True(t, FieldPresent(fields, "str"))
	assert.True(t, FieldPresent(fields, "flag"), "false is a value, not absence")
	assert.False(t, FieldPresent(fields, "blank"))
	assert.False(t, FieldPresent(fields, "nan"))
	assert.False(t, FieldPresent(fields, "null"))
	assert.False(t, FieldPresent(fields, "missing"))
}

func TestSnapshotNilReceivers(t *testing.T) {
	var s *MetricSnapshot
	_, ok := s.Number("x")
	assert.False(t, ok)
	_, ok = s.Bool("x")
	assert.False(t, ok)
	assert.False(t, s.Present("x"))
	assert.Nil(t, s.Normalized())
}
