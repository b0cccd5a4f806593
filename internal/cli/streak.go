package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"nexus/internal/backend"
	"nexus/internal/core"
	"nexus/internal/services"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func newStreakCmd(env Env) *cobra.Command {
	var (
		days    string
		created string
		at      string
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "streak [HABIT_ID]",
		Short: "Print the current streak of a habit",
		Long: `Print the current streak of a stored habit, or compute one offline from
--days (comma-separated day indices) and --created (habit creation time).`,
		Example: `  nexusctl streak --created 2024-05-01 --days 9,8,7 --at 2024-05-10
  nexusctl streak 3f1c... --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			now := env.Now()
			if at != "" {
				t, err := parseTime(at)
				if err != nil {
					return fmt.Errorf("--at: %w", err)
				}
				now = t
			}

			var status core.HabitStatus
			switch {
			case len(args) == 1:
				err := env.withBackend(cmd.Context(), func(b backend.Backend) error {
					h, err := services.NewHabitService(b, env.Now).Get(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					status = h.Status(now)
					return nil
				})
				if err != nil {
					return err
				}
			case created != "":
				createdAt, err := parseTime(created)
				if err != nil {
					return fmt.Errorf("--created: %w", err)
				}
				completions, err := parseDays(days)
				if err != nil {
					return fmt.Errorf("--days: %w", err)
				}
				status = core.Habit{Name: "offline", CreatedAt: createdAt, Completions: completions}.Status(now)
			default:
				return errors.New("pass a habit id or --created with --days")
			}

			if asJSON {
				return writeJSON(cmd.OutOrStdout(), status)
			}
			_, err := fmt.Fprintln(cmd.OutOrStdout(), status.Streak)
			return err
		},
	}
	cmd.Flags().StringVar(&days, "days", "", "comma-separated completed day indices")
	cmd.Flags().StringVar(&created, "created", "", "habit creation time (RFC3339 or YYYY-MM-DD)")
	cmd.Flags().StringVar(&at, "at", "", "evaluate at this time instead of now")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full habit status as JSON")
	return cmd
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}

func parseDays(s string) ([]int, error) {
	var out []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		d, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid day index %q", part)
		}
		out = append(out, d)
	}
	return out, nil
}
