package models

import (
	"fmt"
	"strings"
	"time"
)

// flexibleLayouts sont les formats de date acceptés dans les filtres admin.
// Les formats sans fuseau sont lus en UTC.
var flexibleLayouts = []string{
	time.RFC3339Nano,      // "2025-12-31T20:00:00.123Z"
	time.RFC3339,          // "2025-12-31T20:00:00+05:45"
	"2006-01-02T15:04:05", // "2025-12-31T20:00:00"
	"2006-01-02T15:04",    // "2025-12-31T20:00"
}

const dateOnlyLayout = "2006-01-02"

// ParseFlexibleTime lit une date saisie dans le tableau de bord.
// Une date seule ("2025-12-31") désigne le début du jour, ou le début du jour
// suivant si endOfDay est vrai, pour qu'une borne "to" inclue toute la journée.
func ParseFlexibleTime(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)

	if day, err := time.ParseInLocation(dateOnlyLayout, s, time.UTC); err == nil {
		if endOfDay {
			return day.AddDate(0, 0, 1), nil
		}
		return day, nil
	}

	for _, layout := range flexibleLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("format de date invalide: %s", s)
}
