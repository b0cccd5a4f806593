package core

import (
	"net/url"
	"strings"
)

const (
	SyncStatusSynced   = "Cloud Synced"
	SyncStatusDefaults = "Sync Error (Defaults Loaded)"
)

type (
	// Shortcut is a launcher tile. Order is ascending display position.
	Shortcut struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		URL   string `json:"url"`
		Order int64  `json:"order"`
	}

	// TileStyle carries the presentation hints for a shortcut tile.
	TileStyle struct {
		Emoji     string
		Icon      string
		Color     string
		TextColor string
		HoverBg   string
	}
)

func (s Shortcut) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return ErrEmptyName
	}
	if len(s.Name) > 100 {
		return ErrNameTooLong
	}
	raw := strings.TrimSpace(s.URL)
	if raw == "" {
		return ErrInvalidURL
	}
	if _, err := url.Parse(raw); err != nil {
		return ErrInvalidURL
	}
	return nil
}

// DefaultShortcuts are shown when the store is unreachable or empty.
func DefaultShortcuts() []Shortcut {
	return []Shortcut{
		{ID: "default-1", Name: "Intent Logger", URL: "intent_logger.html", Order: 0},
		{ID: "default-2", Name: "Habit Tracker", URL: "habit_tracker.html", Order: 1},
		{ID: "default-3", Name: "Split", URL: "split.html", Order: 2},
	}
}

var builtinStyles = map[string]TileStyle{
	"intent_logger.html": {
		Emoji:     "📝",
		Color:     "bg-blue-100 dark:bg-blue-900/30",
		TextColor: "text-blue-600 dark:text-blue-400",
		HoverBg:   "group-hover:bg-blue-50 dark:group-hover:bg-blue-900/50",
	},
	"habit_tracker.html": {
		Emoji:     "✅",
		Color:     "bg-emerald-100 dark:bg-emerald-900/30",
		TextColor: "text-emerald-600 dark:text-emerald-400",
		HoverBg:   "group-hover:bg-emerald-50 dark:group-hover:bg-emerald-900/50",
	},
	"split.html": {
		Emoji:     "💰",
		Color:     "bg-amber-100 dark:bg-amber-900/30",
		TextColor: "text-amber-600 dark:text-amber-400",
		HoverBg:   "group-hover:bg-amber-50 dark:group-hover:bg-amber-900/50",
	},
}

// StyleFor returns the tile style for a shortcut URL. Built-in apps get an
// emoji; anything else gets an icon name.
func StyleFor(rawURL string) TileStyle {
	if st, ok := builtinStyles[rawURL]; ok {
		return st
	}
	icon := "layout"
	if strings.Contains(rawURL, "http") {
		icon = "globe"
	}
	return TileStyle{
		Icon:      icon,
		Color:     "bg-slate-100 dark:bg-slate-800",
		TextColor: "text-slate-600 dark:text-slate-400",
		HoverBg:   "group-hover:bg-slate-50 dark:group-hover:bg-slate-700",
	}
}
