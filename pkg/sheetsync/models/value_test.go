package models

import (
	"math"
	"testing"
	"time"
)

func TestValueCell(t *testing.T) {
	day := time.Date(2025, 10, 6, 13, 45, 0, 0, time.UTC)
	tests := []struct {
		name     string
		value    Value
		expected interface{}
	}{
		{"empty", Empty(), ""},
		{"string", String("abc"), "abc"},
		{"int", Int(42), int64(42)},
		{"float", Float(1.5), 1.5},
		{"nan", Float(math.NaN()), ""},
		{"inf", Float(math.Inf(1)), ""},
		{"date", Date(day), "2025-10-06"},
		{"time", Time(day), "2025-10-06 13:45:00"},
	}

	for _, tt := range tests {
		result := tt.value.Cell()
		if result != tt.expected {
			t.Errorf("%s: Cell() = %v (type: %T), expected %v (type: %T)",
				tt.name, result, result, tt.expected, tt.expected)
		}
	}
}

func TestValueCompare(t *testing.T) {
	d1 := Date(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC))
	d2 := Date(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	tests := []struct {
		a, b     Value
		expected int
	}{
		{Empty(), Empty(), 0},
		{Empty(), Int(0), -1},
		{Int(3), Empty(), 1},
		{Int(2), Float(2.5), -1},
		{Float(10), Int(9), 1},
		{d1, d2, -1},
		{d2, d1, 1},
		{String("b"), String("a"), 1},
		{String("10"), String("10"), 0},
	}

	for _, tt := range tests {
		result := tt.a.Compare(tt.b)
		if result != tt.expected {
			t.Errorf("%v.Compare(%v) = %d, expected %d", tt.a.Cell(), tt.b.Cell(), result, tt.expected)
		}
	}
}

func TestDateDropsTimeOfDay(t *testing.T) {
	a := Date(time.Date(2025, 3, 1, 23, 59, 0, 0, time.UTC))
	b := Date(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	if !a.Equal(b) {
		t.Errorf("expected dates on the same day to be equal: %v vs %v", a.Cell(), b.Cell())
	}
}
