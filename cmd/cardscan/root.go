package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/cardscan/internal/command"
	"github.com/joseph-ayodele/cardscan/internal/common"
	"github.com/joseph-ayodele/cardscan/internal/contact"
	"github.com/joseph-ayodele/cardscan/internal/llm"
	"github.com/joseph-ayodele/cardscan/internal/llm/provider"
	"github.com/joseph-ayodele/cardscan/internal/ocr"
	"github.com/joseph-ayodele/cardscan/internal/output"
	"github.com/joseph-ayodele/cardscan/internal/pipeline"
	"github.com/joseph-ayodele/cardscan/internal/render"
	"github.com/joseph-ayodele/cardscan/internal/ui"
	"github.com/joseph-ayodele/cardscan/internal/vcard"
)

type scanFlags struct {
	outputDir  string
	onExists   string
	provider   string
	model      string
	jsonScan   string
	logLevel   string
	logFormat  string
	noProgress bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	var f scanFlags
	cmd := &cobra.Command{
		Use:   "cardscan <document>",
		Short: "Turn scanned business cards into vCard contacts",
		Long: `cardscan renders every page of a scanned document (PDF, PNG, JPEG or HEIC),
rotates it upright, asks a vision model for the contact fields and appends
one vCard per page to <output>/contacts.vcf.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd.Context(), cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.outputDir, "output", "o", "output", "directory receiving contacts.vcf")
	cmd.Flags().StringVar(&f.onExists, "on-exists", "prompt", "existing contacts.vcf: prompt|overwrite|append|abort")
	cmd.Flags().StringVar(&f.provider, "provider", "", "extraction service: gemini|openai (env LLM_PROVIDER)")
	cmd.Flags().StringVar(&f.model, "model", "", "model name for the selected provider")
	cmd.Flags().StringVar(&f.jsonScan, "json-scan", "", "JSON location in model replies: first|widest (env LLM_JSON_SCAN)")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug|info|warn|error (env LOG_LEVEL)")
	cmd.Flags().StringVar(&f.logFormat, "log-format", "", "text|json (env LOG_FORMAT)")
	cmd.Flags().BoolVar(&f.noProgress, "no-progress", false, "disable the progress bar and retry spinner")
	cmd.PersistentFlags().BoolVar(&f.noColor, "no-color", false, "disable colored output")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if f.noColor {
			ui.DisableColor()
		}
	}

	cmd.AddCommand(newExportCmd(), newVersionCmd())
	return cmd
}

// applyFlags overlays explicitly set flags on the environment configuration.
func applyFlags(cfg *common.Config, f scanFlags) {
	if f.provider != "" {
		cfg.LLM.Provider = f.provider
	}
	if f.model != "" {
		if cfg.LLM.Provider == common.ProviderOpenAI {
			cfg.LLM.OpenAIModel = f.model
		} else {
			cfg.LLM.GeminiModel = f.model
		}
	}
	if f.jsonScan != "" {
		cfg.LLM.JSONScan = f.jsonScan
	}
	if f.logLevel != "" {
		cfg.Log.Level = f.logLevel
	}
	if f.logFormat != "" {
		cfg.Log.Format = f.logFormat
	}
}

func runScan(ctx context.Context, cmd *cobra.Command, document string, f scanFlags) error {
	policy, err := output.ParsePolicy(f.onExists)
	if err != nil {
		return common.ConfigurationError("--on-exists", err)
	}

	cfg, err := common.LoadConfig()
	if err != nil {
		return err
	}
	applyFlags(cfg, f)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := common.NewLogger(cmd.ErrOrStderr(), cfg.Log.Level, cfg.Log.Format)
	slog.SetDefault(logger)

	gen, err := provider.New(ctx, cfg.LLM, logger)
	if err != nil {
		return err
	}

	reporter := ui.NewReporter(cmd.ErrOrStderr(), !f.noProgress)
	runner := command.NewExecRunner()

	extractor := llm.NewExtractor(gen, llm.ExtractorConfig{
		ScanMode:       llm.ParseScanMode(cfg.LLM.JSONScan),
		PromptLanguage: cfg.LLM.PromptLanguage,
	}, logger)
	retry := llm.NewRetryController(extractor, logger,
		llm.WithMaxAttempts(cfg.Retry.MaxAttempts),
		llm.WithRetryWait(cfg.Retry.Wait),
		llm.WithWaitObserver(reporter.RetryWaiting),
	)

	proc := pipeline.NewProcessor(logger,
		render.NewService(render.Config{
			Renderer:      cfg.Render.Renderer,
			DPI:           cfg.Render.DPI,
			Pdftoppm:      cfg.Render.Pdftoppm,
			HeicConverter: cfg.Render.HeicConverter,
		}, runner, logger),
		ocr.NewCorrector(ocr.NewTesseractDetector(ocr.Config{
			Tesseract:   cfg.OCR.Tesseract,
			TessdataDir: cfg.OCR.TessdataDir,
		}, runner, logger), logger),
		retry,
		contact.NewAssembler(logger),
		vcard.NewSerializer(),
		reporter,
	)

	logger.Info("cardscan.start",
		"document", document,
		"provider", gen.Name(),
		"output", f.outputDir,
		"policy", policy.String(),
	)
	sum, err := proc.Process(ctx, document, pipeline.Options{
		OutputDir: f.outputDir,
		Policy:    policy,
		Confirm:   ui.Confirm(cmd.InOrStdin(), cmd.ErrOrStderr()),
	})
	if err != nil {
		return err
	}
	ui.Success(cmd.OutOrStdout(), "%s", sum.OutputPath)
	return nil
}
