package browser

import "testing"

func TestBookingEndpoint(t *testing.T) {
	cases := []struct {
		url  string
		want bool
	}{
		{"https://api.example.com/v2/Availability?date=2026-09-01", true},
		{"https://widget.example.com/timeslots/list", true},
		{"https://www.example.com/buy-tickets/calendar", true},
		{"https://cdn.example.com/assets/app.js", false},
		{"https://analytics.example.com/collect", false},
	}
	for _, tc := range cases {
		if got := bookingEndpoint(tc.url); got != tc.want {
			t.Errorf("bookingEndpoint(%q) = %v, want %v", tc.url, got, tc.want)
		}
	}
}
