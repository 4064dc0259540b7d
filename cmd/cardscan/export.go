package main

import (
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/export"
	"github.com/joseph-ayodele/cardscan/internal/ui"
)

func newExportCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export <contacts.vcf>",
		Short: "Write the contacts of a vCard file to an XLSX sheet for review",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			dst := out
			if dst == "" {
				dst = defaultWorkbookPath(src)
			}
			logger := common.NewLogger(cmd.ErrOrStderr(), "warn", "text")
			n, err := export.NewService(logger).ExportFile(src, dst)
			if err != nil {
				return err
			}
			ui.Success(cmd.OutOrStdout(), "%d contact(s) exported to %s", n, dst)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "", "output XLSX path (defaults next to the input)")
	return cmd
}

// defaultWorkbookPath swaps the input extension for .xlsx.
func defaultWorkbookPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".xlsx"
}
