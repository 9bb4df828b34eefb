package extract

import (
	"reflect"
	"testing"

	"github.com/ark9164-create/torscrape/internal/domain"
)

func TestDedupeCollapsesByTimeAndPrice(t *testing.T) {
	slots := []domain.PriceSlot{
		{Date: "2026-09-01", Time: "10:40 AM", Price: "$44.00", Source: domain.SourceNetworkJSON},
		{Date: "2026-09-01", Time: "10:30 AM", Price: "$40.00", Source: domain.SourceNetworkJSON},
		{Date: "2026-09-01", Time: "10:30 AM", Price: "$40.00", Source: domain.SourceDOM},
	}

	out := Dedupe(slots)
	if len(out) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(out))
	}

	// Sorted by time then price.
	if out[0].Time != "10:30 AM" || out[1].Time != "10:40 AM" {
		t.Fatalf("unexpected order: %v", out)
	}

	// On collision the later record wins, so the DOM slot survives.
	if out[0].Source != domain.SourceDOM {
		t.Fatalf("expected dom source to win, got %s", out[0].Source)
	}
}

func TestDedupeKeepsSameTimeDifferentPrice(t *testing.T) {
	slots := []domain.PriceSlot{
		{Time: "10:30 AM", Price: "$51.00"},
		{Time: "10:30 AM", Price: "$40.00"},
	}

	out := Dedupe(slots)
	if len(out) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(out))
	}
	if out[0].Price != "$40.00" || out[1].Price != "$51.00" {
		t.Fatalf("expected price order within a time, got %v", out)
	}
}

func TestDedupeIsIdempotentAndOrderStable(t *testing.T) {
	slots := []domain.PriceSlot{
		{Time: "2:20 PM", Price: "$51.00"},
		{Time: "10:30 AM", Price: "$40.00"},
		{Time: "10:30 AM", Price: "$40.00"},
		{Time: "1:00 PM", Price: "$40.00"},
	}

	once := Dedupe(slots)
	twice := Dedupe(once)
	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("dedupe is not idempotent:\n once: %v\ntwice: %v", once, twice)
	}

	// Input order must not leak into the output.
	reversed := make([]domain.PriceSlot, 0, len(slots))
	for i := len(slots) - 1; i >= 0; i-- {
		reversed = append(reversed, slots[i])
	}
	if !reflect.DeepEqual(once, Dedupe(reversed)) {
		t.Fatal("output depends on input order")
	}
}

func TestDedupeEmptyInput(t *testing.T) {
	if out := Dedupe(nil); len(out) != 0 {
		t.Fatalf("expected empty output, got %v", out)
	}
}
