package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/ark9164-create/torscrape/internal/domain"
)

var csvHeader = []string{"date", "time", "price", "source"}

// WriteFiles serializes slots to <prefix>.json and <prefix>.csv and returns
// both paths. An empty result still produces both files; best-effort runs
// leave empty output rather than none.
func WriteFiles(prefix string, slots []domain.PriceSlot) (string, string, error) {
	jsonPath := prefix + ".json"
	csvPath := prefix + ".csv"

	if err := WriteJSON(jsonPath, slots); err != nil {
		return "", "", err
	}
	if err := WriteCSV(csvPath, slots); err != nil {
		return "", "", err
	}
	return jsonPath, csvPath, nil
}

// WriteJSON writes slots as an indented JSON array.
func WriteJSON(path string, slots []domain.PriceSlot) error {
	if slots == nil {
		slots = []domain.PriceSlot{}
	}
	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// WriteCSV writes slots with a date,time,price,source header row.
func WriteCSV(path string, slots []domain.PriceSlot) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, s := range slots {
		if err := w.Write([]string{s.Date, s.Time, s.Price, s.Source}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV parses a file written by WriteCSV back into slot records.
func ReadCSV(path string) ([]domain.PriceSlot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row in %s", path)
	}

	slots := make([]domain.PriceSlot, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) != len(csvHeader) {
			return nil, fmt.Errorf("malformed row in %s: %v", path, row)
		}
		slots = append(slots, domain.PriceSlot{
			Date:   row[0],
			Time:   row[1],
			Price:  row[2],
			Source: row[3],
		})
	}
	return slots, nil
}
