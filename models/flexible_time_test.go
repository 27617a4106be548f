package models

import (
	"testing"
	"time"
)

func TestParseFlexibleTime(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		endOfDay bool
		want     time.Time
		wantErr  bool
	}{
		{"date seule", "2025-03-15", false, time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), false},
		{"date seule, borne haute", "2025-03-15", true, time.Date(2025, 3, 16, 0, 0, 0, 0, time.UTC), false},
		{"format ISO", "2025-12-31T20:00:00", false, time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC), false},
		{"format court", "2025-12-31T20:00", true, time.Date(2025, 12, 31, 20, 0, 0, 0, time.UTC), false},
		{"RFC3339 avec fuseau", "2025-12-31T20:00:00+05:45", false, time.Date(2025, 12, 31, 14, 15, 0, 0, time.UTC), false},
		{"invalide", "hier", false, time.Time{}, true},
		{"vide", "", false, time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlexibleTime(tt.input, tt.endOfDay)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFlexibleTime() erreur = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && !got.Equal(tt.want) {
				t.Errorf("ParseFlexibleTime() = %v, want %v", got, tt.want)
			}
		})
	}
}
