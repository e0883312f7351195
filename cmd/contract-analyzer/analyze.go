package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/contract-analyzer/internal/application/analysis"
	"github.com/bryanwahyu/contract-analyzer/internal/application/export"
	"github.com/bryanwahyu/contract-analyzer/internal/application/intake"
	"github.com/bryanwahyu/contract-analyzer/internal/domain/contract"
	"github.com/bryanwahyu/contract-analyzer/internal/render"
)

var (
	apiKeyFlag string
	outDir     string
	severities []string
	noExport   bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [contract.txt]",
	Short: "Analyze one contract and print the report",
	Long: `Reads a plain-text contract from the given file, or from stdin when the file
is omitted or "-", runs one analysis and prints the findings. The JSON and text
exports are written to --out unless --no-export is set.

The API key comes from --api-key or the ANALYZER_API_KEY environment variable.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&apiKeyFlag, "api-key", "", "analysis provider API key (default $ANALYZER_API_KEY)")
	analyzeCmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory for the exported reports")
	analyzeCmd.Flags().StringSliceVarP(&severities, "severity", "s", nil, "only print these severities (critical, warning, informational)")
	analyzeCmd.Flags().BoolVar(&noExport, "no-export", false, "do not write export files")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	key := apiKeyFlag
	if key == "" {
		key = os.Getenv("ANALYZER_API_KEY")
	}

	in, err := readContract(cmd.InOrStdin(), args, cfg.Server.MaxUploadBytes)
	if err != nil {
		return err
	}

	svc, err := buildServices(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.analysis.Analyze(ctx, analysis.AnalysisRequest{
		ContractText: in.Text,
		APIKey:       key,
		FileName:     in.FileName,
		Role:         "cli",
	})
	if err != nil {
		return err
	}

	if err := render.Write(cmd.OutOrStdout(), render.Report{
		Result:     res,
		FileName:   in.FileName,
		AnalyzedAt: svc.exporter.Clock.Now(),
		Selected:   contract.ParseSeverities(severities),
	}); err != nil {
		return err
	}

	if noExport {
		return nil
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	for _, kind := range []export.Kind{export.KindJSON, export.KindText} {
		doc, err := svc.exporter.Render(ctx, kind, "cli", res, in.FileName)
		if err != nil {
			return err
		}
		p := filepath.Join(outDir, doc.Name)
		if err := os.WriteFile(p, doc.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
		log.Info("export written", zap.String("path", p), zap.String("archive_url", doc.ArchiveURL))
	}
	return nil
}

func readContract(stdin io.Reader, args []string, limit int64) (intake.Input, error) {
	if len(args) == 0 || args[0] == "-" {
		up, err := intake.ReadUpload(stdin, "", "text/plain", limit)
		if err != nil {
			return intake.Input{}, err
		}
		return intake.Resolve("", up)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return intake.Input{}, &contract.InputError{Reason: "cannot open contract file", Err: err}
	}
	defer f.Close()

	name := filepath.Base(args[0])
	up, err := intake.ReadUpload(f, name, mime.TypeByExtension(strings.ToLower(filepath.Ext(name))), limit)
	if err != nil {
		return intake.Input{}, err
	}
	return intake.Resolve("", up)
}
