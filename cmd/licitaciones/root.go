package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/licitaciones/internal/app"
	"github.com/joseph-ayodele/licitaciones/internal/common"
	"github.com/joseph-ayodele/licitaciones/internal/repository"
)

var version = "dev"

// cli carries state resolved once in PersistentPreRunE.
type cli struct {
	configPath string
	noLLM      bool
	cfg        *common.Config
	logger     *slog.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:   "licitaciones",
		Short: "Extract and track public bidding notices",
		Long: `licitaciones turns bidding notice text into structured records.

Configuration is read from an optional YAML file (--config) and
LICITACIONES_* environment variables, e.g. LICITACIONES_LLM__API_KEY or
LICITACIONES_DATABASE__DSN. OPENAI_API_KEY and DB_URL are honored too.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := common.LoadConfig(c.configPath)
			if err != nil {
				return err
			}
			if c.noLLM {
				cfg.LLM.Enabled = false
			}
			c.cfg = cfg
			c.logger = common.NewLogger(cfg.Log, cmd.ErrOrStderr())
			slog.SetDefault(c.logger)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().BoolVar(&c.noLLM, "no-llm", false, "use pattern extraction only")

	root.AddCommand(
		newExtractCmd(c),
		newBatchCmd(c),
		newEligibleCmd(c),
		newExportCmd(c),
	)
	return root
}

// store opens the configured sink; commands that need one fail when the
// driver is "none".
func (c *cli) store(ctx context.Context) (repository.Store, error) {
	s, err := app.OpenStore(ctx, c.cfg.Database, c.logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}
