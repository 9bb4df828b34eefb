package domain

import (
	"time"

	"github.com/google/uuid"
)

// Extraction sources for a PriceSlot.
const (
	SourceNetworkJSON = "network-json"
	SourceDOM         = "dom"
)

// PriceSlot is one extracted (date, time, price) tuple for a tour timeslot.
// Slots are unique by (date, time, price) within a single run.
type PriceSlot struct {
	Date   string `json:"date"`
	Time   string `json:"time"`
	Price  string `json:"price"`
	Source string `json:"source"`
}

// ScrapeRequest is the payload for the API.
type ScrapeRequest struct {
	Dates []string `json:"dates"`
	Force bool     `json:"force"` // Bypass the recently-scraped rule
}

// ScrapeTask represents a single date to be processed by a worker.
type ScrapeTask struct {
	Date  string
	Force bool
}

// ScrapeRun holds the outcome of one scrape of the booking widget.
type ScrapeRun struct {
	ID           uuid.UUID
	Date         string
	Status       string // "completed", "failed", "processing"
	FailReason   string
	NetworkSlots int
	DOMSlots     int
	ScrapedAt    time.Time
}

// ScrapeStatusResponse is the API response for a date status query.
type ScrapeStatusResponse struct {
	Date       string    `json:"date"`
	Status     string    `json:"status"`
	FailReason string    `json:"fail_reason,omitempty"`
	SlotCount  int       `json:"slot_count"`
	UpdatedAt  time.Time `json:"updated_at"`
}
