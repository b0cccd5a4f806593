package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"nexus/internal/backend"
	"nexus/internal/services"
)

func newNotesCmd(env Env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Work with developer notes",
	}

	var out string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write all developer notes as Markdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var md string
			err := env.withBackend(cmd.Context(), func(b backend.Backend) error {
				var err error
				md, err = services.NewNotesService(b, env.Now).ExportMarkdown(cmd.Context())
				return err
			})
			if err != nil {
				return err
			}

			w, closeOut, err := createOutput(cmd, out)
			if err != nil {
				return err
			}
			if _, err := io.WriteString(w, md); err != nil {
				closeOut()
				return fmt.Errorf("write notes: %w", err)
			}
			return closeOut()
		},
	}
	export.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")

	cmd.AddCommand(export)
	return cmd
}
