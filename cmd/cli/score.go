package cli

import (
	"context"
	"fmt"

	"github.com/FaresAlnamla/Email-Spam-Detection-System/internal/config"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/bundle"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/domain"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/ingest"
	"github.com/FaresAlnamla/Email-Spam-Detection-System/pkg/scoring"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func NewScoreCommand() *cobra.Command {
	var (
		modelPath  string
		inputPath  string
		outputPath string
		textCol    string
		chunkSize  int
		threshold  float64
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Batch-score a message file offline",
		Long: `Score a CSV, XLSX or TXT file in chunks, writing the result CSV
incrementally. The text column is auto-detected unless --text-col is set;
--threshold adds a secondary pred_thresholded column.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var extra *float64
			if cmd.Flags().Changed("threshold") {
				if threshold < 0 || threshold > 1 {
					return fmt.Errorf("--threshold must be in [0,1], got %v", threshold)
				}
				extra = &threshold
			}
			return runScore(scoreOptions{
				modelPath:      modelPath,
				inputPath:      inputPath,
				outputPath:     outputPath,
				textColumn:     textCol,
				chunkSize:      chunkSize,
				extraThreshold: extra,
			})
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "Path to the model bundle (default: MODEL_PATH)")
	cmd.Flags().StringVar(&inputPath, "input", "", "Input file path (.csv, .xlsx, .txt)")
	cmd.Flags().StringVar(&outputPath, "output", "", "Output CSV path")
	cmd.Flags().StringVar(&textCol, "text-col", "", "Name of the text column (default: auto-detect)")
	cmd.Flags().IntVar(&chunkSize, "chunksize", ingest.DefaultChunkSize, "Rows per chunk to process")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Optional probability threshold for a pred_thresholded column")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("output")

	return cmd
}

type scoreOptions struct {
	modelPath      string
	inputPath      string
	outputPath     string
	textColumn     string
	chunkSize      int
	extraThreshold *float64
}

func runScore(opts scoreOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if opts.modelPath == "" {
		opts.modelPath = cfg.ModelPath
	}

	b, err := bundle.Load(opts.modelPath)
	if err != nil {
		return err
	}

	registry := domain.NewProfileRegistry(domain.ProfileRegistryDependencies{
		SystemProfile: cfg.SystemProfile,
	})
	resolver := domain.NewThresholdResolver(domain.ThresholdResolverDependencies{
		Registry: registry,
		Override: cfg.ThresholdOverride,
	})

	engine := scoring.NewEngine(scoring.EngineDependencies{Bundle: b})
	ingestor := ingest.NewIngestor(ingest.IngestorDependencies{Engine: engine})

	if err := ingestor.ScoreFile(context.Background(), ingest.ScoreFileParams{
		InputPath:      opts.inputPath,
		OutputPath:     opts.outputPath,
		TextColumn:     opts.textColumn,
		ChunkSize:      opts.chunkSize,
		Threshold:      resolver.DefaultThreshold(),
		ExtraThreshold: opts.extraThreshold,
	}); err != nil {
		return err
	}

	log.Info().Str("output", opts.outputPath).Msg("Scoring complete")
	fmt.Printf("Done. Wrote: %s\n", opts.outputPath)

	return nil
}
