// seehuhn.de/go/labelstack - rasterise contour annotations into label stacks
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Command reconstruct2stack converts a Reconstruct/PyReconstruct ".jser"
// contour export into a stack of label images, one per section.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
	"seehuhn.de/go/geom/matrix"

	"seehuhn.de/go/labelstack"
)

// settings mirrors the command line flags; a YAML config file supplies
// defaults for any flag not given explicitly.
type settings struct {
	Width            int      `yaml:"width"`
	Height           int      `yaml:"height"`
	Out              string   `yaml:"out"`
	Format           string   `yaml:"format"`
	Scale            float64  `yaml:"scale"`
	Exclude          []string `yaml:"exclude"`
	Sections         []int    `yaml:"sections"`
	IncludeHidden    bool     `yaml:"include_hidden"`
	IdentityFallback bool     `yaml:"identity_fallback"`
	Workers          int      `yaml:"workers"`
}

var (
	cfg        settings
	configPath string
	verbose    bool
	showLabels bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "reconstruct2stack [flags] input.jser",
	Short: "Rasterise Reconstruct contour annotations into label images",
	Long: `reconstruct2stack converts a Reconstruct/PyReconstruct ".jser" contour
export into a stack of 16-bit label images, one per section.

Every distinct object name in the document is assigned a stable positive
label; pixel value 0 is background.  Images are written into the output
directory as "<zzzz>.png" (or .tif), zero-padded by section index.`,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}

		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: run,
}

func init() {
	flags := rootCmd.Flags()
	flags.IntVar(&cfg.Width, "width", 0, "output raster width in pixels")
	flags.IntVar(&cfg.Height, "height", 0, "output raster height in pixels")
	flags.StringVarP(&cfg.Out, "out", "o", "", "output directory for label images")
	flags.StringVar(&cfg.Format, "format", "png", "image format (png or tiff)")
	flags.Float64Var(&cfg.Scale, "scale", 1, "output scale in pixels per transformed unit")
	flags.StringSliceVar(&cfg.Exclude, "exclude", nil, "drop objects whose name contains any of these substrings")
	flags.IntSliceVar(&cfg.Sections, "sections", nil, "restrict conversion to these section indices")
	flags.BoolVar(&cfg.IncludeHidden, "include-hidden", false, "rasterise contours marked hidden")
	flags.BoolVar(&cfg.IdentityFallback, "identity-fallback", false, "use the identity transform for sections without one")
	flags.IntVar(&cfg.Workers, "workers", 0, "maximum concurrent section workers (0 = one per CPU)")
	flags.StringVar(&configPath, "config", "", "YAML file with defaults for the flags above")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.BoolVar(&showLabels, "labels", false, "print the name-to-label table after conversion")

	_ = rootCmd.MarkFlagRequired("out")
}

// loadConfig applies the YAML config file, if any, as defaults for flags
// the user did not set explicitly.
func loadConfig(cmd *cobra.Command) error {
	if configPath == "" {
		return nil
	}
	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	var fromFile settings
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return fmt.Errorf("parsing config %s: %w", configPath, err)
	}

	flags := cmd.Flags()
	if !flags.Changed("width") {
		cfg.Width = fromFile.Width
	}
	if !flags.Changed("height") {
		cfg.Height = fromFile.Height
	}
	if !flags.Changed("out") && fromFile.Out != "" {
		cfg.Out = fromFile.Out
	}
	if !flags.Changed("format") && fromFile.Format != "" {
		cfg.Format = fromFile.Format
	}
	if !flags.Changed("scale") && fromFile.Scale != 0 {
		cfg.Scale = fromFile.Scale
	}
	if !flags.Changed("exclude") {
		cfg.Exclude = fromFile.Exclude
	}
	if !flags.Changed("sections") {
		cfg.Sections = fromFile.Sections
	}
	if !flags.Changed("include-hidden") {
		cfg.IncludeHidden = fromFile.IncludeHidden
	}
	if !flags.Changed("identity-fallback") {
		cfg.IdentityFallback = fromFile.IdentityFallback
	}
	if !flags.Changed("workers") {
		cfg.Workers = fromFile.Workers
	}
	return nil
}

func run(cmd *cobra.Command, args []string) error {
	input := args[0]

	format, err := labelstack.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	opts := &labelstack.Options{
		Scale:         cfg.Scale,
		IncludeHidden: cfg.IncludeHidden,
		Exclude:       cfg.Exclude,
		Sections:      cfg.Sections,
		Workers:       cfg.Workers,
		Logger:        logger,
	}
	if cfg.IdentityFallback {
		ident := matrix.Identity
		opts.DefaultTransform = &ident
	}

	size := labelstack.Size{Width: cfg.Width, Height: cfg.Height}
	stack, reg, err := labelstack.ConvertFile(input, size, opts)
	if err != nil {
		return err
	}
	if err := labelstack.WriteStack(stack, cfg.Out, format); err != nil {
		return err
	}

	logger.Info("conversion complete",
		zap.Int("sections", stack.Len()),
		zap.Int("labels", reg.Len()),
		zap.String("out", cfg.Out))

	if showLabels {
		for _, name := range reg.Names() {
			fmt.Printf("%5d  %s (%d contours)\n", reg.Label(name), name, reg.Count(name))
		}
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
