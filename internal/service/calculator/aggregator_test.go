package calculator

import (
	"testing"

	"gradecalc/internal/model"
)

func TestAggregate_WeightedAverage(t *testing.T) {
	t.Parallel()

	records := []model.NormalizedRecord{
		{Score: 80, Credit: 3, Category: model.CategoryRequired},
		{Score: 90, Credit: 2, Category: model.CategoryRequired},
	}
	avg, credit, count, ok := Aggregate(records, DefaultSignificantDigits)
	if !ok {
		t.Fatalf("expected result")
	}
	if !floatEquals(avg, 84) || !floatEquals(credit, 5) || count != 2 {
		t.Fatalf("want 84/5/2 got %v/%v/%d", avg, credit, count)
	}
}

func TestAggregate_ZeroCreditExcluded(t *testing.T) {
	t.Parallel()

	_, _, _, ok := Aggregate([]model.NormalizedRecord{{Score: 90, Credit: 0}}, DefaultSignificantDigits)
	if ok {
		t.Fatalf("zero total credit should produce no summary")
	}
	if _, _, _, ok := Aggregate(nil, DefaultSignificantDigits); ok {
		t.Fatalf("empty record set should produce no summary")
	}
}

func TestRoundSignificant(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     float64
		digits int
		want   float64
	}{
		{86.666666, 5, 86.667},
		{83.888888, 5, 83.889},
		{123456.7, 5, 123460},
		{0.000123456, 5, 0.00012346},
		{84, 5, 84},
		{9.99996, 5, 10},
		{0, 5, 0},
		{86.666666, 0, 86.666666},
	}
	for _, tt := range tests {
		if got := RoundSignificant(tt.in, tt.digits); !floatEquals(got, tt.want) {
			t.Fatalf("RoundSignificant(%v, %d) want=%v got=%v", tt.in, tt.digits, tt.want, got)
		}
	}
}
