package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/licitaciones/constants"
	"github.com/joseph-ayodele/licitaciones/internal/classify"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/export"
)

func newExportCmd(c *cli) *cobra.Command {
	var (
		out      string
		openOnly bool
		category string
		status   string
		limit    int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write stored biddings to an XLSX workbook",
		Long: `Write stored biddings, newest first, to an XLSX workbook with the
Spanish column headers used by the review team.

Examples:
  licitaciones export --out licitaciones.xlsx
  licitaciones export --open-only --status pending`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := entity.ListFilter{OpenOnly: openOnly, Limit: limit}
			if category != "" {
				cat, ok := classify.Canonicalize(category)
				if !ok {
					return fmt.Errorf("unknown category %q", category)
				}
				f.Category = cat
			}
			if status != "" {
				st, ok := constants.ParseApprovalStatus(strings.ToLower(status))
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				f.ApprovalStatus = st
			}
			if out == "" {
				out = c.cfg.Export.Path
			}

			store, err := c.store(cmd.Context())
			if err != nil {
				return err
			}
			if store == nil {
				return errors.New("export needs a database; database.driver is none")
			}
			defer func() { _ = store.Close() }()

			data, err := export.NewService(store, c.logger).ExportXLSX(cmd.Context(), f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output path (default export.path)")
	cmd.Flags().BoolVar(&openOnly, "open-only", false, "only biddings that are still open")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&status, "status", "", "filter by approval status: pending, approved, rejected")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum rows, 0 for all")
	return cmd
}
