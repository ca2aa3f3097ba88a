package main

import (
	"fmt"
	"os"
	"path"
	"time"

	"github.com/spf13/cobra"

	"github.com/quidome/img-dater/pkg/convert"
	"github.com/quidome/img-dater/pkg/filedate"
	"github.com/quidome/img-dater/pkg/plan"
	"github.com/quidome/img-dater/pkg/scan"
)

const version = "0.1.0"

type options struct {
	verbose bool
}

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:     "img-dater",
		Short:   "A CLI tool to convert images into dated JPEGs",
		Long:    "img-dater converts PNG and JPG files into JPEG files, deriving an EXIF datetime and filesystem timestamps from a date found in each file's name, while normalizing orientation, color mode, and size.",
		Version: version,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("img-dater CLI")
			cmd.Printf("Version: %s\n", version)
			cmd.Println("")
			cmd.Println("Use --help to see available commands and options")
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newConvertCmd(opts))

	return rootCmd
}

func newConvertCmd(opts *options) *cobra.Command {
	var (
		maxDimension int
		quality      int
		overwrite    bool
		maxDepth     int
	)

	convertCmd := &cobra.Command{
		Use:   "convert [source] [destination]",
		Short: "Convert images from source to destination",
		Long:  "Convert all PNG and JPG files under a source directory into dated JPEG files under a destination directory, mirroring the directory layout. Files whose names carry no recognizable date are skipped.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			dest := args[1]

			if maxDimension <= 0 {
				return fmt.Errorf("max-dimension must be positive, got %d", maxDimension)
			}
			if quality < 1 || quality > 100 {
				return fmt.Errorf("quality must be in [1,100], got %d", quality)
			}

			info, err := os.Stat(source)
			if err != nil {
				return fmt.Errorf("source directory: %w", err)
			}
			if !info.IsDir() {
				return fmt.Errorf("source path is not a directory: %s", source)
			}

			scanOpts := scan.DefaultOptions()
			scanOpts.MaxDepth = maxDepth

			sources, err := scan.Scan(os.DirFS(source), ".", scanOpts)
			if err != nil {
				return err
			}

			if len(sources) == 0 {
				cmd.Printf("no PNG or JPG files found in: %s\n", source)
				return nil
			}
			if opts.verbose {
				cmd.PrintErrf("found %d image files\n", len(sources))
			}

			takenAt := make(map[string]time.Time, len(sources))
			for _, src := range sources {
				d, ok := filedate.Infer(path.Base(src))
				if !ok {
					cmd.Printf("skipped (no date in filename): %s\n", src)
					continue
				}
				takenAt[src] = d.Time(time.Local)
			}

			operations := plan.Plan(dest, sources, takenAt)
			results := convert.Execute(source, operations, convert.Options{
				MaxDimension: maxDimension,
				Quality:      quality,
				Overwrite:    overwrite,
			})

			for _, r := range results {
				if r.Success {
					cmd.Printf("converted: %s -> %s (date: %s)\n",
						r.Operation.SourcePath, r.Operation.DestinationPath,
						r.Operation.TakenAt.Format("2006-01-02"))
					continue
				}
				cmd.PrintErrf("failed: %s: %v\n", r.Operation.SourcePath, r.Error)
			}

			converted, _ := convert.Stats(results)
			cmd.Printf("converted %d of %d images\n", converted, len(sources))

			return nil
		},
	}

	convertCmd.Flags().IntVar(&maxDimension, "max-dimension", 1024, "maximum output width/height in pixels")
	convertCmd.Flags().IntVar(&quality, "quality", 85, "JPEG quality (1-100)")
	convertCmd.Flags().BoolVar(&overwrite, "overwrite", false, "overwrite existing destination files")
	convertCmd.Flags().IntVar(&maxDepth, "max-depth", -1, "maximum recursion depth (0 = no recursion)")

	return convertCmd
}
