package service

import (
	"regexp"
	"testing"
	"time"
)

func TestOrderNumberGeneratorFormat(t *testing.T) {
	gen := NewOrderNumberGenerator(fixedClock, &sequenceRandom{values: []int{417, 9}}, time.UTC)
	if got := gen.Next(); got != "ORD-20250314-153022-0417" {
		t.Fatalf("order number want ORD-20250314-153022-0417 got %s", got)
	}
	if got := gen.Next(); got != "ORD-20250314-153022-0009" {
		t.Fatalf("suffix should be zero padded, got %s", got)
	}
}

func TestOrderNumberGeneratorTimezone(t *testing.T) {
	seoul := time.FixedZone("KST", 9*3600)
	gen := NewOrderNumberGenerator(fixedClock, &sequenceRandom{values: []int{1}}, seoul)
	if got := gen.Next(); got != "ORD-20250315-003022-0001" {
		t.Fatalf("timestamp should use configured zone, got %s", got)
	}
}

func TestOrderNumberGeneratorDefaults(t *testing.T) {
	pattern := regexp.MustCompile(`^ORD-\d{8}-\d{6}-\d{4}$`)
	gen := NewOrderNumberGenerator(nil, nil, nil)
	for i := 0; i < 20; i++ {
		if got := gen.Next(); !pattern.MatchString(got) {
			t.Fatalf("unexpected order number format: %s", got)
		}
	}
}
