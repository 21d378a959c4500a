package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/licitaciones/internal/app"
	"github.com/joseph-ayodele/licitaciones/internal/core"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/ingest"
	"github.com/joseph-ayodele/licitaciones/internal/repository"
)

func newBatchCmd(c *cli) *cobra.Command {
	var (
		openOnly bool
		workers  int
		force    bool
	)
	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Extract and store every notice in a directory",
		Long: `Scan a directory (default ingest.dir) for notice files, extract each
one and upsert it into the configured store. Documents already stored are
skipped unless --force is set.

Examples:
  licitaciones batch ./inbox
  licitaciones batch --open-only=false --workers 8 ./archivo`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := c.cfg.Ingest.Dir
			if len(args) == 1 {
				dir = args[0]
			}
			if cmd.Flags().Changed("open-only") {
				c.cfg.Ingest.OpenOnly = openOnly
			}

			scanned, stats, err := ingest.ScanDirectory(ctx, dir, ingest.Extensions(c.cfg.Ingest.Extensions), c.cfg.Ingest.SkipHidden)
			if err != nil {
				return err
			}
			docs := make([]entity.Document, 0, len(scanned))
			for _, r := range scanned {
				if r.Err != "" {
					fmt.Fprintf(cmd.ErrOrStderr(), "read failed: %s: %s\n", r.Path, r.Err)
					continue
				}
				docs = append(docs, r.Document)
			}
			c.logger.Info("batch.scan", "dir", dir, "matched", stats.Matched, "failed", stats.Failed)

			store, err := c.store(ctx)
			if err != nil {
				return err
			}
			if store != nil {
				defer func(s repository.Store) { _ = s.Close() }(store)
			}

			proc := app.NewProcessor(c.cfg, app.NewExtractor(c.cfg, c.logger, nil), store, c.logger, nil)
			results, sum, err := core.Batch(ctx, proc, docs, workers, force)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Outcome == "" {
					continue
				}
				line := fmt.Sprintf("%-17s %s %s", r.Outcome, r.EmailID, r.Path)
				if r.Err != nil {
					line += " error=" + r.Err.Error()
				}
				fmt.Fprintln(out, line)
			}
			fmt.Fprintf(out, "total=%d processed=%d skipped_processed=%d skipped_closed=%d failed=%d\n",
				sum.Total, sum.Processed, sum.SkippedProcessed, sum.SkippedClosed, sum.Failed)

			if sum.Failed > 0 || stats.Failed > 0 {
				return errors.New("some documents failed")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&openOnly, "open-only", false, "skip biddings whose close date has passed; overrides ingest.open_only")
	cmd.Flags().IntVarP(&workers, "workers", "w", core.DefaultBatchWorkers, "concurrent extractions")
	cmd.Flags().BoolVar(&force, "force", false, "reprocess documents that are already stored")
	return cmd
}
