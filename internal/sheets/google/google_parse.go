package google

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"nexus/internal/core"
)

// parseLedgerRows converts a values matrix (as returned by the Sheets API)
// into expenses. A header row and rows that fail validation are skipped;
// the number of skipped non-empty rows is returned.
func parseLedgerRows(values [][]interface{}) ([]core.SplitExpense, int) {
	var (
		out     []core.SplitExpense
		skipped int
	)
	for i, row := range values {
		cols := toStrings(row)
		if isBlank(cols) {
			continue
		}
		e, err := parseLedgerRow(cols)
		if err != nil {
			// The first row is usually a header.
			if i > 0 {
				skipped++
			}
			continue
		}
		out = append(out, e)
	}
	return out, skipped
}

func parseLedgerRow(cols []string) (core.SplitExpense, error) {
	amount, ok := parseAmount(safeGet(cols, 3))
	if !ok {
		return core.SplitExpense{}, fmt.Errorf("bad amount %q", safeGet(cols, 3))
	}
	e := core.SplitExpense{
		ID:           safeGet(cols, 0),
		Payer:        safeGet(cols, 2),
		Amount:       amount,
		Participants: splitParticipants(safeGet(cols, 4)),
		Description:  safeGet(cols, 5),
	}
	if ts := safeGet(cols, 1); ts != "" {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			e.CreatedAt = t
		}
	}
	if err := e.Validate(); err != nil {
		return core.SplitExpense{}, err
	}
	return e, nil
}

func splitParticipants(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func isBlank(cols []string) bool {
	for _, c := range cols {
		if c != "" {
			return false
		}
	}
	return true
}

func safeGet(arr []string, idx int) string {
	if idx < 0 || idx >= len(arr) {
		return ""
	}
	return arr[idx]
}

// parseAmount accepts numbers as the API renders them, including a decimal
// comma and a leading currency sign.
func parseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "€"))
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
