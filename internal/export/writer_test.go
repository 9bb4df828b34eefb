package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ark9164-create/torscrape/internal/domain"
)

var sampleSlots = []domain.PriceSlot{
	{Date: "2026-09-01", Time: "10:30 AM", Price: "$40.00", Source: domain.SourceNetworkJSON},
	{Date: "2026-09-01", Time: "10:40 AM", Price: "$44.00", Source: domain.SourceDOM},
}

func TestCSVRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := WriteCSV(path, sampleSlots); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sampleSlots) {
		t.Fatalf("round-trip mismatch:\n got: %v\nwant: %v", got, sampleSlots)
	}
}

func TestWriteCSVHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteCSV(path, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "date,time,price,source\n" {
		t.Fatalf("unexpected header: %q", string(data))
	}
}

func TestWriteJSONEmptyIsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	if err := WriteJSON(path, nil); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %q", string(data))
	}
}

func TestWriteFiles(t *testing.T) {
	prefix := filepath.Join(t.TempDir(), "tor_prices")

	jsonPath, csvPath, err := WriteFiles(prefix, sampleSlots)
	if err != nil {
		t.Fatal(err)
	}
	if jsonPath != prefix+".json" || csvPath != prefix+".csv" {
		t.Fatalf("unexpected paths: %s, %s", jsonPath, csvPath)
	}

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatal(err)
	}
	var got []domain.PriceSlot
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, sampleSlots) {
		t.Fatalf("json mismatch:\n got: %v\nwant: %v", got, sampleSlots)
	}
}

func TestReadCSVMalformedRow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	if err := os.WriteFile(path, []byte("date,time,price,source\nonly,three,cols\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadCSV(path); err == nil {
		t.Fatal("expected error for malformed row")
	}
}
