package core

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

type (
	// SplitExpense is one shared expense: Payer paid Amount, split evenly
	// across Participants. The payer may or may not be a participant.
	SplitExpense struct {
		ID           string    `json:"id" yaml:"id"`
		Payer        string    `json:"payer" yaml:"payer"`
		Amount       float64   `json:"amount" yaml:"amount"`
		Participants []string  `json:"participants" yaml:"participants"`
		Description  string    `json:"description,omitempty" yaml:"description,omitempty"`
		CreatedAt    time.Time `json:"created_at" yaml:"created_at,omitempty"`
	}

	// Balances maps a participant to what they are owed (positive) or owe (negative).
	Balances map[string]float64

	ParticipantBalance struct {
		Participant string  `json:"participant"`
		Amount      float64 `json:"amount"`
	}
)

func (e SplitExpense) Validate() error {
	if strings.TrimSpace(e.Payer) == "" {
		return ErrEmptyPayer
	}
	if e.Amount < 0 || math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
		return ErrInvalidAmount
	}
	if len(e.Participants) == 0 {
		return ErrNoParticipants
	}
	for _, p := range e.Participants {
		if strings.TrimSpace(p) == "" {
			return ErrBadParticipant
		}
	}
	if len(e.Description) > 200 {
		return ErrDescTooLong
	}
	return nil
}

// ComputeBalances accumulates net balances over expenses. The payer is
// credited the full amount and every participant, payer included when listed,
// is debited an equal share. An expense without participants is rejected
// with ErrNoParticipants rather than producing a non-finite share.
func ComputeBalances(expenses []SplitExpense) (Balances, error) {
	balances := make(Balances)
	for i, e := range expenses {
		if len(e.Participants) == 0 {
			return nil, fmt.Errorf("expense %d (%s): %w", i, e.ID, ErrNoParticipants)
		}
		share := e.Amount / float64(len(e.Participants))

		balances[e.Payer] += e.Amount
		for _, p := range e.Participants {
			balances[p] -= share
		}
	}
	return balances, nil
}

// Total sums all balances. It is zero, up to rounding, for any result of
// ComputeBalances.
func (b Balances) Total() float64 {
	var sum float64
	for _, v := range b {
		sum += v
	}
	return sum
}

// Sorted returns the balances ordered by participant name.
func (b Balances) Sorted() []ParticipantBalance {
	out := make([]ParticipantBalance, 0, len(b))
	for p, amt := range b {
		out = append(out, ParticipantBalance{Participant: p, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Participant < out[j].Participant })
	return out
}
