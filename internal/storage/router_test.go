package storage

import (
	"testing"
	"time"
)

func TestKeyRouter_Route(t *testing.T) {
	// Use a fixed timestamp for consistent testing
	timestamp := time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		basePath string
		archive  string
		want     string
	}{
		{
			name:     "with base path",
			basePath: "archives",
			archive:  "proj.zip",
			want:     "archives/dt=2026-08-24/proj.zip",
		},
		{
			name:     "empty base path",
			basePath: "",
			archive:  "proj.zip",
			want:     "dt=2026-08-24/proj.zip",
		},
		{
			name:     "nested base path",
			basePath: "team/backups",
			archive:  "notes.txt.zip",
			want:     "team/backups/dt=2026-08-24/notes.txt.zip",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := NewKeyRouter(tt.basePath)
			got := router.Route(tt.archive, timestamp)
			if got != tt.want {
				t.Errorf("Route() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestKeyRouter_RouteUsesUTC(t *testing.T) {
	router := NewKeyRouter("")

	// 02:00 at UTC+5 is still the previous day in UTC; the key must
	// carry the UTC date.
	loc := time.FixedZone("UTC+5", 5*3600)
	local := time.Date(2026, 8, 24, 2, 0, 0, 0, loc) // 2026-08-23 21:00 UTC

	got := router.Route("a.zip", local)
	want := "dt=2026-08-23/a.zip"
	if got != want {
		t.Errorf("Route() = %v, want %v", got, want)
	}
}
