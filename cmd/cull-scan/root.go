package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"photo-culler/internal/database"
	"photo-culler/internal/logging"
	"photo-culler/internal/media"
)

const defaultRawTimeout = 60 * time.Second

var errThumbnailFailures = errors.New("some thumbnails could not be generated")

func newRootCmd() *cobra.Command {
	var (
		opts       scanOptions
		verbose    bool
		rawDecoder string
		rawTimeout time.Duration
		vips       bool
	)

	cmd := &cobra.Command{
		Use:   "cull-scan <directory>",
		Short: "Pre-generate thumbnails for a photo directory and report unreadable files",
		Long: `cull-scan discovers every supported image under a directory, runs the
thumbnail scheduler over it exactly as the server does, and lists the files
that could not be decoded. It exits with status 1 when any file failed.`,
		Example: `  # Check a card dump before culling
  cull-scan /photos/2026-10-18

  # Larger chunks, and write image_selections.csv when done
  cull-scan -c 16 --csv /photos/2026-10-18`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			_ = godotenv.Load()
			if verbose {
				logging.SetLevel(logging.LevelDebug)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if vips {
				if err := media.InitVips(); err != nil {
					logging.Warn("libvips unavailable: %v", err)
				}
				defer media.ShutdownVips()
			}

			raster := media.NewRasterDecoder()
			raw := media.ResolveRawDecoder(media.RawConfig{
				Binary:  valueOr(rawDecoder, os.Getenv("RAW_DECODER")),
				Timeout: rawTimeout,
			}, raster)
			loader := media.NewLoader(raw, raster)

			out := cmd.OutOrStdout()
			opts.Verbose = verbose
			report, err := scan(cmd.Context(), args[0], loader, opts, newProgressPrinter(out, os.Stdout, verbose))
			if err != nil {
				return err
			}
			printReport(out, report)

			if len(report.Failed) > 0 {
				return errThumbnailFailures
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging and per-chunk progress lines")
	cmd.Flags().IntVarP(&opts.ChunkSize, "chunk", "c", 0, "Records per scheduler tick (default 16)")
	cmd.Flags().BoolVar(&opts.WriteCSV, "csv", false, "Write image_selections.csv into the directory when done")
	cmd.Flags().StringVar(&rawDecoder, "raw-decoder", "", "dcraw binary to use for RAW files (default $RAW_DECODER or dcraw)")
	cmd.Flags().DurationVar(&rawTimeout, "raw-timeout", defaultRawTimeout, "Timeout for a single RAW decoder invocation")
	cmd.Flags().BoolVar(&vips, "vips", false, "Enable the libvips fallback decoder")

	cmd.AddCommand(newForgetCmd())

	return cmd
}

func newForgetCmd() *cobra.Command {
	var dataDir string

	cmd := &cobra.Command{
		Use:   "forget <path>...",
		Short: "Remove saved ratings from the server database",
		Long: `forget deletes the ratings the server autosaved for the given image paths.
Paths must match the form the server stored them in, usually the photo
directory joined with the file's relative path.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			dir := valueOr(dataDir, valueOr(os.Getenv("DATA_DIR"), "/data"))

			db, err := database.New(ctx, filepath.Join(dir, database.DefaultFilename))
			if err != nil {
				return fmt.Errorf("failed to open database in %s: %w", dir, err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "Warning: failed to close database: %v\n", err)
				}
			}()

			for _, path := range args {
				if err := db.DeleteRating(ctx, path); err != nil {
					return fmt.Errorf("failed to forget %s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Forgot %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "", "Directory holding ratings.db (default $DATA_DIR or /data)")

	return cmd
}

func valueOr(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
