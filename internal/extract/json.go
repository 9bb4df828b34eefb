package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/ark9164-create/torscrape/internal/domain"
)

// Key aliases the booking APIs have been observed to use for slot objects.
var (
	timeKeys  = []string{"time", "starttime", "start_time", "slot_time"}
	priceKeys = []string{"price", "adultprice", "adult_price", "displayprice", "formattedprice"}
)

var clockRe = regexp.MustCompile(`(\d{1,2}):(\d{2})`)

// FromJSON walks an intercepted response body and collects every object that
// carries a recognizable time/price pair. Tours run on 10-minute marks, so
// anything else is noise from unrelated payloads. A body that fails to parse
// yields no slots and no error; the caller falls back to the DOM path.
func FromJSON(body []byte, date string) []domain.PriceSlot {
	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil
	}
	var out []domain.PriceSlot
	collectSlots(payload, date, &out)
	return out
}

func collectSlots(node interface{}, date string, out *[]domain.PriceSlot) {
	switch v := node.(type) {
	case []interface{}:
		for _, item := range v {
			collectSlots(item, date, out)
		}
	case map[string]interface{}:
		lower := make(map[string]string, len(v))
		for k := range v {
			lower[strings.ToLower(k)] = k
		}

		timeKey := firstPresent(lower, timeKeys)
		priceKey := firstPresent(lower, priceKeys)

		if timeKey != "" && priceKey != "" {
			rawTime := strings.TrimSpace(stringify(v[timeKey]))
			rawPrice := strings.TrimSpace(stringify(v[priceKey]))

			if m := clockRe.FindStringSubmatch(rawTime); m != nil {
				minutes, _ := strconv.Atoi(m[2])
				if minutes%10 == 0 && rawPrice != "" {
					*out = append(*out, domain.PriceSlot{
						Date:   date,
						Time:   rawTime,
						Price:  rawPrice,
						Source: domain.SourceNetworkJSON,
					})
				}
			}
		}

		for _, val := range v {
			collectSlots(val, date, out)
		}
	}
}

func firstPresent(lower map[string]string, candidates []string) string {
	for _, c := range candidates {
		if orig, ok := lower[c]; ok {
			return orig
		}
	}
	return ""
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
