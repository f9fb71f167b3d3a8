// Package cli wires the command-line surface of imgconvert: flag
// parsing, input validation, signal handling and the final summary.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/phambaophuc/image-convert/internal/config"
	"github.com/phambaophuc/image-convert/internal/convert"
)

type options struct {
	inputFile  string
	inputDir   string
	outputPath string
	formatName string
	quality    int
	width      int
	height     int
	recursive  bool
	grayscale  bool
}

// newRootCmd builds a fresh command with its own flag state, so every
// invocation (and every test) parses from a clean slate.
func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "imgconvert",
		Short: "Convert images between common raster formats",
		Long: `imgconvert converts images between JPEG, PNG, WEBP, BMP, TIFF and GIF,
optionally resizing and desaturating them, for a single file or a whole
directory tree.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.run()
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.inputFile, "input", "i", "", "input image file")
	flags.StringVarP(&opts.inputDir, "directory", "d", "", "input directory")
	flags.StringVarP(&opts.outputPath, "output", "o", "", "output file or directory")
	flags.StringVarP(&opts.formatName, "type", "t", "", "output format (jpg, jpeg, png, webp, bmp, tiff, gif)")
	flags.IntVarP(&opts.quality, "quality", "q", 0, "image quality 1-100, JPEG and WebP only (default 90)")
	flags.IntVarP(&opts.width, "width", "w", 0, "output width")
	flags.IntVar(&opts.height, "height", 0, "output height")
	flags.BoolVarP(&opts.recursive, "recursive", "r", false, "search recursively in subdirectories")
	flags.BoolVarP(&opts.grayscale, "grayscale", "g", false, "convert to grayscale")

	cmd.MarkFlagsMutuallyExclusive("input", "directory")
	cmd.MarkFlagsOneRequired("input", "directory")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func Execute() error {
	return newRootCmd().Execute()
}

func (o *options) run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	if o.quality == 0 {
		o.quality = cfg.Defaults.Quality
	}
	if o.quality < 1 || o.quality > 100 {
		return fmt.Errorf("quality must be between 1 and 100, got %d", o.quality)
	}
	if o.width < 0 || o.height < 0 {
		return errors.New("width and height must be positive")
	}
	if o.formatName != "" {
		if _, ok := convert.ParseFormat(o.formatName); !ok {
			return fmt.Errorf("unsupported output format: %q", o.formatName)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	converter := convert.NewConverter(logger)
	start := time.Now()

	if o.inputFile != "" {
		err = o.runSingle(ctx, converter, logger, cfg)
	} else {
		err = o.runBatch(ctx, converter)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Processing time: %.2f seconds\n", time.Since(start).Seconds())
	return nil
}

func (o *options) runSingle(ctx context.Context, converter *convert.Converter, logger *zap.Logger, cfg *config.Config) error {
	info, err := os.Stat(o.inputFile)
	if err != nil || info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: the input file %s does not exist.\n", o.inputFile)
		return nil
	}
	if ctx.Err() != nil {
		fmt.Println("\nInterrupted.")
		return nil
	}

	explicit := o.formatName
	if explicit == "" && !convert.MatchesFormat(o.outputPath) {
		// Fall back to the configured default before the resolver's
		// own JPEG fallback kicks in.
		explicit = cfg.Defaults.Format
	}
	format := convert.ResolveFormat(explicit, o.outputPath)

	fmt.Printf("Converting %s -> %s (%s)\n", o.inputFile, o.outputPath, format)

	req := convert.Request{
		Source:    o.inputFile,
		Dest:      o.outputPath,
		Format:    format,
		Quality:   o.quality,
		Width:     o.width,
		Height:    o.height,
		Grayscale: o.grayscale,
	}
	if err := converter.Convert(req); err != nil {
		logger.Error("failed to convert image",
			zap.String("path", o.inputFile),
			zap.Error(err),
		)
		fmt.Fprintln(os.Stderr, "An error occurred while converting the image.")
		return nil
	}

	// The completed file stays in place; an interrupt only suppresses
	// further work.
	if ctx.Err() != nil {
		fmt.Println("\nInterrupted.")
		return nil
	}
	fmt.Printf("Image successfully converted: %s\n", o.outputPath)
	return nil
}

func (o *options) runBatch(ctx context.Context, converter *convert.Converter) error {
	info, err := os.Stat(o.inputDir)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: the input directory %s does not exist.\n", o.inputDir)
		return nil
	}
	if o.formatName == "" {
		fmt.Fprintln(os.Stderr, "Error: an output format (-t/--type) is required when converting a directory.")
		return nil
	}

	format, _ := convert.ParseFormat(o.formatName)
	batchOpts := convert.BatchOptions{
		Format:    format,
		Quality:   o.quality,
		Width:     o.width,
		Height:    o.height,
		Recursive: o.recursive,
		Grayscale: o.grayscale,
	}

	fmt.Printf("Converting %s -> %s (%s)\n", o.inputDir, o.outputPath, format)

	result, err := converter.ConvertDir(ctx, o.inputDir, o.outputPath, batchOpts)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Printf("\nInterrupted: %d/%d images converted.\n", result.Converted, result.Total)
			return nil
		}
		return err
	}

	if result.Total == 0 {
		fmt.Println("No image files found in the input directory.")
		return nil
	}
	fmt.Printf("Done: %d/%d images converted.\n", result.Converted, result.Total)
	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}

	zcfg := zap.NewProductionConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	return zcfg.Build()
}
