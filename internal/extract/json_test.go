package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ark9164-create/torscrape/internal/domain"
)

func TestFromJSONFlatArray(t *testing.T) {
	body := []byte(`[
		{"time": "10:30 AM", "price": "$40.00"},
		{"time": "10:40 AM", "price": "$44.00"},
		{"time": "11:00 AM", "price": "$40.00"}
	]`)

	slots := FromJSON(body, "2026-09-01")
	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.Equal(t, domain.SourceNetworkJSON, s.Source)
		assert.Equal(t, "2026-09-01", s.Date)
	}
	assert.Equal(t, "10:30 AM", slots[0].Time)
	assert.Equal(t, "$40.00", slots[0].Price)
}

func TestFromJSONNestedPayload(t *testing.T) {
	body := []byte(`{
		"data": {
			"availability": {
				"slots": [
					{"startTime": "09:00", "adultPrice": "$43.55"},
					{"start_time": "09:10", "adult_price": "$43.55"}
				]
			},
			"featured": {"slot_time": "2:20 PM", "displayPrice": "$51.00"}
		}
	}`)

	slots := FromJSON(body, "2026-09-01")
	require.Len(t, slots, 3)
	for _, s := range slots {
		assert.Equal(t, domain.SourceNetworkJSON, s.Source)
	}
}

func TestFromJSONKeyMatchingIsCaseInsensitive(t *testing.T) {
	body := []byte(`{"Time": "12:50", "FormattedPrice": "$40"}`)
	slots := FromJSON(body, "2026-09-01")
	require.Len(t, slots, 1)
	assert.Equal(t, "12:50", slots[0].Time)
	assert.Equal(t, "$40", slots[0].Price)
}

func TestFromJSONFiltersOffMarkTimes(t *testing.T) {
	body := []byte(`[
		{"time": "10:15 AM", "price": "$40.00"},
		{"time": "10:30 AM", "price": "$40.00"},
		{"time": "10:45 AM", "price": "$40.00"}
	]`)
	slots := FromJSON(body, "2026-09-01")
	require.Len(t, slots, 1)
	assert.Equal(t, "10:30 AM", slots[0].Time)
}

func TestFromJSONSkipsMissingFields(t *testing.T) {
	body := []byte(`[
		{"time": "10:30 AM"},
		{"price": "$40.00"},
		{"time": "10:40 AM", "price": ""},
		{"time": "no clock here", "price": "$40.00"}
	]`)
	assert.Empty(t, FromJSON(body, "2026-09-01"))
}

func TestFromJSONNumericPrice(t *testing.T) {
	body := []byte(`{"time": "10:30", "price": 40.5}`)
	slots := FromJSON(body, "2026-09-01")
	require.Len(t, slots, 1)
	assert.Equal(t, "40.5", slots[0].Price)
}

func TestFromJSONMalformedBody(t *testing.T) {
	assert.Empty(t, FromJSON([]byte(`{"time": "10:30",`), "2026-09-01"))
	assert.Empty(t, FromJSON([]byte(`<html>challenge page</html>`), "2026-09-01"))
	assert.Empty(t, FromJSON(nil, "2026-09-01"))
}
