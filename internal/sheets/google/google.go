package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"nexus/internal/core"
	"nexus/internal/ports"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"
)

// Ledger rows are laid out as ID | Created | Payer | Amount | Participants | Description.
const ledgerColumns = "A:F"

type (
	Client struct {
		svc           *gsheet.Service
		spreadsheetID string
		ledgerSheet   string
	}

	Options struct {
		SpreadsheetID string
		// SheetName is the tab holding the ledger (default "Split").
		SheetName string
		// CredentialsJSON takes precedence over CredentialsFile.
		CredentialsJSON string
		CredentialsFile string
	}
)

var (
	_ ports.LedgerExporter = (*Client)(nil)
	_ ports.LedgerReader   = (*Client)(nil)
)

// New creates a Sheets client authenticated with a service account.
func New(ctx context.Context, opts Options) (*Client, error) {
	spreadsheetID := strings.TrimSpace(opts.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing spreadsheet id")
	}
	sheet := strings.TrimSpace(opts.SheetName)
	if sheet == "" {
		sheet = "Split"
	}

	svc, err := newSheetsService(ctx, opts.CredentialsJSON, opts.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		ledgerSheet:   sheet,
	}, nil
}

// newSheetsService initializes a Sheets Service using Service Account credentials.
// Falls back to GOOGLE_APPLICATION_CREDENTIALS when neither option is set.
func newSheetsService(ctx context.Context, credentialsJSON, credentialsFile string) (*gsheet.Service, error) {
	credentialsJSON = strings.TrimSpace(credentialsJSON)
	credentialsFile = strings.TrimSpace(credentialsFile)
	if credentialsJSON == "" && credentialsFile == "" {
		credentialsFile = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}

	var raw []byte
	switch {
	case credentialsJSON != "":
		slog.InfoContext(ctx, "Using inline JSON credentials")
		raw = []byte(credentialsJSON)
	case credentialsFile != "":
		slog.InfoContext(ctx, "Reading credentials from file", "path", credentialsFile)
		b, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		raw = b
	default:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(raw),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return service, nil
}

// AppendExpense implements ports.LedgerExporter
func (c *Client) AppendExpense(ctx context.Context, e core.SplitExpense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", fmt.Errorf("validation failed: %w", err)
	}
	if c.svc == nil {
		return "", errors.New("sheets service not initialized")
	}

	rng := fmt.Sprintf("%s!%s", c.ledgerSheet, ledgerColumns)
	vr := &gsheet.ValueRange{Values: [][]any{ledgerRow(e)}}
	resp, err := c.svc.Spreadsheets.Values.Append(c.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("append to sheet %s: %w", c.ledgerSheet, err)
	}

	ref := rng
	if resp.Updates != nil && resp.Updates.UpdatedRange != "" {
		ref = resp.Updates.UpdatedRange
	}
	return ref, nil
}

// ReadExpenses implements ports.LedgerReader
func (c *Client) ReadExpenses(ctx context.Context) ([]core.SplitExpense, error) {
	if c.svc == nil {
		return nil, errors.New("sheets service not initialized")
	}
	rng := fmt.Sprintf("%s!%s", c.ledgerSheet, ledgerColumns)
	resp, err := c.svc.Spreadsheets.Values.Get(c.spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", rng, err)
	}
	expenses, skipped := parseLedgerRows(resp.Values)
	if skipped > 0 {
		slog.WarnContext(ctx, "Skipped malformed ledger rows", "sheet", c.ledgerSheet, "skipped", skipped)
	}
	return expenses, nil
}

func ledgerRow(e core.SplitExpense) []any {
	return []any{
		e.ID,
		e.CreatedAt.UTC().Format(time.RFC3339),
		e.Payer,
		e.Amount,
		strings.Join(e.Participants, ", "),
		e.Description,
	}
}
