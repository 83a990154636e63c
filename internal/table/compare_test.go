package table

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCompare(t *testing.T) {
	day1 := time.Date(2023, 5, 10, 14, 30, 0, 0, time.UTC)
	day2 := day1.Add(24 * time.Hour)

	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"equal ints", 1, 1, 0},
		{"int less", 1, 2, -1},
		{"int greater", 3, 2, 1},
		{"int vs float", 2, 2.5, -1},
		{"strings lexicographic", "10", "9", -1},
		{"string vs number coerces", "10", 9, 1},
		{"numeric string less than number", "2", 10, -1},
		{"same value different kind is not equal", "1", 1, 1},
		{"non numeric string vs number", "abc", 1, 1},
		{"number vs non numeric string", 1, "abc", 1},
		{"nil vs number", nil, 1, -1},
		{"nil vs nil", nil, nil, 0},
		{"bools", false, true, -1},
		{"times", day1, day2, -1},
		{"time pointers", &day2, &day1, 1},
		{"nil time pointer", (*time.Time)(nil), nil, 0},
		{"NaN never equal", math.NaN(), math.NaN(), 1},
		{"undefined vs undefined", Undefined, Undefined, 0},
		{"empty string is zero", "", 0, 1},
		{"whitespace numeric", " 5 ", 4, 1},
		{"hex string", "0x10", 15, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Compare(tt.a, tt.b))
		})
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{Undefined, "undefined"},
		{"abc", "abc"},
		{true, "true"},
		{1500.0, "1500"},
		{2300.5, "2300.5"},
		{-0.0, "0"},
		{42, "42"},
		{uint8(7), "7"},
		{math.NaN(), "NaN"},
		{math.Inf(-1), "-Infinity"},
		{1e21, "1e+21"},
		{1.5e-7, "1.5e-7"},
		{time.Date(2023, 4, 15, 0, 0, 0, 0, time.UTC), "2023-04-15T00:00:00Z"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Stringify(tt.in), "%#v", tt.in)
	}

	var p *string
	assert.Equal(t, "null", Stringify(p))
	s := "101"
	assert.Equal(t, "101", Stringify(&s))
}

func TestDisplayPlaceholder(t *testing.T) {
	for _, v := range []any{nil, Undefined, "", 0, 0.0, false, math.NaN()} {
		assert.Equal(t, Placeholder, Display(v), "%#v", v)
	}
	assert.Equal(t, "aberto", Display("aberto"))
	assert.Equal(t, "1800.75", Display(1800.75))
	assert.Equal(t, "true", Display(true))
}
