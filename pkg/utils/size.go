package utils

import (
	"fmt"

	"github.com/docker/go-units"
	"github.com/dustin/go-humanize"
)

// Units selects the scale used for human-readable sizes.
type Units string

const (
	// UnitsDecimal uses powers of 1000 (kB, MB, GB).
	UnitsDecimal Units = "decimal"
	// UnitsBinary uses powers of 1024 (KiB, MiB, GiB).
	UnitsBinary Units = "binary"
)

// ParseUnits returns the Units for s. An empty string yields UnitsDecimal.
func ParseUnits(s string) (Units, error) {
	switch Units(s) {
	case "", UnitsDecimal:
		return UnitsDecimal, nil
	case UnitsBinary:
		return UnitsBinary, nil
	default:
		return "", fmt.Errorf("invalid units %q (want %q or %q)", s, UnitsDecimal, UnitsBinary)
	}
}

// FormatSize renders n bytes for display, e.g. "1.5MB" or "1.43MiB".
func FormatSize(n int64, u Units) string {
	if u == UnitsBinary {
		return units.BytesSize(float64(n))
	}
	return units.HumanSize(float64(n))
}

// FormatExact renders n with thousands separators, e.g. "1,500,000".
func FormatExact(n int64) string {
	return humanize.Comma(n)
}
