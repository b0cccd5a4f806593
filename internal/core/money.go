// Package core holds the domain types of the launchpad and the two pure
// calculators used by the habit and split apps.
//
// This file contains amount parsing and display helpers. Ledger amounts are
// float64 currency units; parsing goes through integer cents so user input
// like "12,345" is rounded the same way everywhere.
package core

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimalToCents converts a decimal string to cents with half-up rounding
// on the third decimal digit. Dot and comma separators are both accepted.
// Zero is a valid amount; negative and malformed values return
// ErrInvalidAmount.
//
// Examples:
//
//	ParseDecimalToCents("12.34")  -> 1234, nil
//	ParseDecimalToCents("12,34")  -> 1234, nil
//	ParseDecimalToCents("12.345") -> 1235, nil
func ParseDecimalToCents(s string) (int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	if s == "" || strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	intPart, fracPart, _ := strings.Cut(s, ".")
	if strings.Contains(fracPart, ".") {
		return 0, ErrInvalidAmount
	}
	if intPart == "" && fracPart == "" {
		return 0, ErrInvalidAmount
	}
	if intPart == "" {
		intPart = "0"
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return 0, ErrInvalidAmount
	}
	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	const maxSafe = (1<<63 - 1) / 100
	if iv > maxSafe {
		return 0, ErrInvalidAmount
	}

	var frac int64
	for i := 0; i < 2 && i < len(fracPart); i++ {
		frac = frac*10 + int64(fracPart[i]-'0')
	}
	if len(fracPart) == 1 {
		frac *= 10
	}
	if len(fracPart) > 2 && fracPart[2] >= '5' {
		frac++
	}

	return iv*100 + frac, nil
}

// ParseAmount parses user input into currency units.
func ParseAmount(s string) (float64, error) {
	cents, err := ParseDecimalToCents(s)
	if err != nil {
		return 0, err
	}
	return float64(cents) / 100, nil
}

// FormatAmount renders currency units as "€12,34", rounding to the cent.
func FormatAmount(v float64) string {
	cents := int64(math.Round(v * 100))
	neg := cents < 0
	if neg {
		cents = -cents
	}
	frac := strconv.FormatInt(cents%100, 10)
	if len(frac) == 1 {
		frac = "0" + frac
	}
	s := "€" + strconv.FormatInt(cents/100, 10) + "," + frac
	if neg {
		return "-" + s
	}
	return s
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
