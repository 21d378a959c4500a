package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joseph-ayodele/licitaciones/internal/app"
	"github.com/joseph-ayodele/licitaciones/internal/eligibility"
	"github.com/joseph-ayodele/licitaciones/internal/entity"
	"github.com/joseph-ayodele/licitaciones/internal/extract"
	"github.com/joseph-ayodele/licitaciones/internal/ingest"
)

// extractOutput is what `extract` prints.
type extractOutput struct {
	Source entity.Source          `json:"source" yaml:"source"`
	Record entity.ExtractedRecord `json:"record" yaml:"record"`
	Open   bool                   `json:"open" yaml:"open"`
}

func newExtractCmd(c *cli) *cobra.Command {
	var (
		format  string
		subject string
	)
	cmd := &cobra.Command{
		Use:   "extract [file|-]",
		Short: "Extract fields from one notice",
		Long: `Extract fields from one notice text file, or from stdin when the
argument is "-" or missing. Nothing is stored.

Examples:
  licitaciones extract aviso.txt
  pdftotext aviso.pdf - | licitaciones extract --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (json, yaml)", format)
			}
			doc, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			if subject != "" {
				doc.Source.Subject = subject
			}

			orch := app.NewExtractor(c.cfg, c.logger, nil)
			rec := orch.Extract(cmd.Context(), extract.Input{
				Text:     doc.Text,
				Subject:  doc.Source.Subject,
				Filename: doc.Source.PDFFilename,
			})
			out := extractOutput{
				Source: doc.Source,
				Record: rec,
				Open:   eligibility.Evaluator{Logger: c.logger}.IsOpen(rec.BiddingCloseDate),
			}
			return writeFormatted(cmd.OutOrStdout(), format, out)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().StringVar(&subject, "subject", "", "email subject, overrides a Subject header")
	return cmd
}

func readInput(cmd *cobra.Command, args []string) (entity.Document, error) {
	if len(args) == 0 || args[0] == "-" {
		doc, err := ingest.ReadDocumentFrom("-", cmd.InOrStdin())
		if doc.Source.PDFFilename == "-" {
			doc.Source.PDFFilename = ""
		}
		return doc, err
	}
	return ingest.ReadDocument(args[0])
}

func writeFormatted(w io.Writer, format string, v any) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
