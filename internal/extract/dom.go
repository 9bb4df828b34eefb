package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ark9164-create/torscrape/internal/domain"
)

// Cap on candidate nodes per page. The booking widget renders well under
// this; the rest of the page is marketing content not worth scanning.
const maxCandidates = 4000

var (
	// Matches "10:30 AM", "10:40 PM", "13:20".
	slotTimeRe = regexp.MustCompile(`(?i)\b\d{1,2}:\d{2}(?:\s?[AP]M)?\b`)
	currencyRe = regexp.MustCompile(`\$\s*\d+(?:\.\d{2})?`)
)

// FromHTML scrapes rendered page text for time/price pairs. The selector
// sweep is deliberately broad so the extractor survives minor site redesigns.
func FromHTML(html, date string) ([]domain.PriceSlot, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	var slots []domain.PriceSlot
	doc.Find("button, li, div, span").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxCandidates {
			return false
		}
		text := strings.TrimSpace(s.Text())
		if text == "" || len(text) > 200 {
			return true
		}

		tm := slotTimeRe.FindString(text)
		if tm == "" || !onTenMinuteMark(tm) {
			return true
		}

		price := parseCurrency(text)
		if price == "" {
			// Sometimes time and price live in sibling/ancestor nodes.
			price = parseCurrency(s.Parent().Text())
		}
		if price == "" {
			return true
		}

		slots = append(slots, domain.PriceSlot{
			Date:   date,
			Time:   normalizeClock(tm),
			Price:  price,
			Source: domain.SourceDOM,
		})
		return true
	})

	return Dedupe(slots), nil
}

func onTenMinuteMark(clock string) bool {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 || len(parts[1]) < 2 {
		return false
	}
	minutes, err := strconv.Atoi(parts[1][:2])
	if err != nil {
		return false
	}
	return minutes%10 == 0
}

func parseCurrency(text string) string {
	m := currencyRe.FindString(text)
	return strings.ReplaceAll(m, " ", "")
}

func normalizeClock(clock string) string {
	return strings.ReplaceAll(strings.ToUpper(clock), "  ", " ")
}
