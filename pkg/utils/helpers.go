package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ParseDuration safely parses duration string like "5m"
func ParseDuration(d string) time.Duration {
	if d == "" {
		return 5 * time.Minute
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return 5 * time.Minute
	}
	return duration
}

// missing cell markers as pandas reads them
var nullMarkers = map[string]bool{
	"":     true,
	"na":   true,
	"nan":  true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// IsNull reports whether a raw cell means "no value"
func IsNull(s string) bool {
	return nullMarkers[strings.ToLower(strings.TrimSpace(s))]
}

// ParseNumeric parses a numeric cell. A null cell returns (nil, nil).
func ParseNumeric(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if IsNull(s) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("not a finite number: %q", s)
	}
	return &f, nil
}

// CleanHeader trims whitespace and removes ALL quotes from a header cell
func CleanHeader(h string) string {
	h = strings.TrimSpace(h)
	h = strings.TrimPrefix(h, "\ufeff")
	return strings.ReplaceAll(h, `"`, "")
}
