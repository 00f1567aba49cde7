/*
Copyright © 2024-2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blacktop/bfl/pkg/inputs"
	"github.com/blacktop/bfl/pkg/registry"
)

var (
	// flags
	logger       *log.Logger
	verbose      bool
	apiToken     string
	baseURL      string
	pollTimeout  time.Duration
	aspectRatio  string
	outputFormat string
	outputFolder string
	fluxModel    string
)

// validOutputFormats lists the output formats as strings.
func validOutputFormats() []string {
	var formats []string
	for _, f := range inputs.OutputFormats() {
		formats = append(formats, string(f))
	}
	return formats
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bfl",
	Short: "Black Forest Labs FLUX image generator",
	Args:  cobra.NoArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logger.SetLevel(log.DebugLevel)
		}
		loadEnv()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// validate flags
		entry, err := registry.Resolve(fluxModel)
		if err != nil {
			return err
		}
		if !slices.Contains(validOutputFormats(), outputFormat) {
			return fmt.Errorf("invalid output format %q (must be one of: %s)", outputFormat, strings.Join(validOutputFormats(), ", "))
		}
		if _, err := inputs.ParseAspectRatio(aspectRatio); err != nil {
			return err
		}
		c, err := newClient()
		if err != nil {
			return err
		}
		// run
		p := tea.NewProgram(initialModel(cmd.Context(), c, entry, &config{
			Model:        fluxModel,
			AspectRatio:  aspectRatio,
			OutputFormat: outputFormat,
			OutputFolder: outputFolder,
		}), tea.WithAltScreen(), tea.WithMouseCellMotion())
		m, err := p.Run()
		if err != nil {
			return fmt.Errorf("error running program: %w", err)
		}
		return finish(m)
	},
}

// finish reports the outcome of a TUI session: the error that ended it, or
// where the image was saved.
func finish(final tea.Model) error {
	m, ok := final.(model)
	if !ok {
		return nil
	}
	if m.err != nil {
		return m.err
	}
	if m.saved != "" {
		logger.Info("Image saved", "path", m.saved)
	}
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error("Failed", "err", err)
		stop()
		os.Exit(1)
	}
}

func init() {
	// Override the default error level style.
	styles := log.DefaultStyles()
	styles.Levels[log.ErrorLevel] = lipgloss.NewStyle().
		SetString("ERROR!!").
		Padding(0, 1, 0, 1).
		Background(lipgloss.Color("204")).
		Foreground(lipgloss.Color("0"))
	// Add a custom style for key `err`
	styles.Keys["err"] = lipgloss.NewStyle().Foreground(lipgloss.Color("204"))
	styles.Values["err"] = lipgloss.NewStyle().Bold(true)
	logger = log.New(os.Stderr)
	logger.SetStyles(styles)

	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "Verbose output")
	rootCmd.PersistentFlags().StringVarP(&apiToken, "api-token", "t", "", "BFL API key (overrides BFL_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "API base URL (overrides BFL_BASE_URL env var)")
	rootCmd.PersistentFlags().DurationVar(&pollTimeout, "timeout", 0, "Give up waiting for a task after this long (default 5m)")

	rootCmd.Flags().StringVarP(&aspectRatio, "aspect", "a", "1:1", "Aspect ratio of the image (16:9, 4:3, 1:1, etc)")
	rootCmd.Flags().StringVarP(&outputFormat, "format", "f", "jpeg", "Output image format (jpeg or png)")
	rootCmd.Flags().StringVarP(&fluxModel, "model", "m", string(registry.FluxPro11), "Model to use ("+strings.Join(registry.Names(), ", ")+")")
	rootCmd.Flags().StringVarP(&outputFolder, "output", "o", "", "Output folder")
	rootCmd.MarkFlagDirname("output")
}
