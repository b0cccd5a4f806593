package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"nexus/internal/backend"
	"nexus/internal/core"
	"nexus/internal/services"
)

// ledgerFile is the document layout accepted by --file; a bare list of
// expenses is accepted too.
type ledgerFile struct {
	Expenses []core.SplitExpense `yaml:"expenses"`
}

func newBalancesCmd(env Env) *cobra.Command {
	var (
		file      string
		fromSheet bool
		asJSON    bool
	)
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Compute who owes whom in the split ledger",
		Long: `Compute net balances from a YAML or JSON ledger file (--file), from the
configured Google Sheet (--sheet), or from the configured backend.
Positive amounts are owed to the participant, negative amounts are owed by them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if file != "" && fromSheet {
				return fmt.Errorf("--file and --sheet are mutually exclusive")
			}

			var expenses []core.SplitExpense
			switch {
			case file != "":
				var err error
				if expenses, err = readLedgerFile(file); err != nil {
					return err
				}
			case fromSheet:
				cfg, err := env.LoadConfig()
				if err != nil {
					return err
				}
				reader, err := env.OpenSheet(cmd.Context(), cfg)
				if err != nil {
					return err
				}
				if expenses, err = reader.ReadExpenses(cmd.Context()); err != nil {
					return fmt.Errorf("read sheet: %w", err)
				}
			default:
				err := env.withBackend(cmd.Context(), func(b backend.Backend) error {
					var err error
					expenses, err = services.NewLedgerService(b, env.Now).List(cmd.Context())
					return err
				})
				if err != nil {
					return err
				}
			}

			balances, err := core.ComputeBalances(expenses)
			if err != nil {
				return err
			}
			rows := balances.Sorted()
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), rows)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PARTICIPANT\tBALANCE")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\n", r.Participant, core.FormatAmount(r.Amount))
			}
			return tw.Flush()
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON ledger file")
	cmd.Flags().BoolVar(&fromSheet, "sheet", false, "read the ledger from the configured Google Sheet")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print balances as JSON")
	return cmd
}

// readLedgerFile decodes a ledger document. JSON is valid YAML, so one
// decoder serves both formats.
func readLedgerFile(path string) ([]core.SplitExpense, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ledger: %w", err)
	}

	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("parse ledger %s: %w", path, err)
	}
	if len(node.Content) == 0 {
		return nil, nil
	}

	var expenses []core.SplitExpense
	switch node.Content[0].Kind {
	case yaml.SequenceNode:
		err = node.Decode(&expenses)
	default:
		var doc ledgerFile
		err = node.Decode(&doc)
		expenses = doc.Expenses
	}
	if err != nil {
		return nil, fmt.Errorf("decode ledger %s: %w", path, err)
	}
	return expenses, nil
}
