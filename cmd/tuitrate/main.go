// Package main provides the CLI entrypoint for tuitrate.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/tuitrate/internal/chart"
	"github.com/verte-zerg/tuitrate/internal/config"
	"github.com/verte-zerg/tuitrate/internal/labels"
	"github.com/verte-zerg/tuitrate/internal/model"
	"github.com/verte-zerg/tuitrate/internal/titration"
	"github.com/verte-zerg/tuitrate/internal/tui"
)

const (
	defaultPlotHeight = 12
	maxSamples        = 100000
)

var (
	acidConc   float64
	acidVol    float64
	baseConc   float64
	samples    int
	lang       string
	labelsPath string
	plotHeight int

	plotWidth int
	plotColor bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "tuitrate",
		Short:         "Acid-base titration curve plotter",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPanelCmd,
	}
	addParamFlags(rootCmd)

	rootCmd.AddCommand(newPlotCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLabelsCmd())

	return rootCmd
}

func addParamFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&acidConc, "acid-conc", model.AcidConcentrationField.Default, "acid concentration (M)")
	cmd.Flags().Float64Var(&acidVol, "acid-vol", model.AcidVolumeField.Default, "acid volume (mL)")
	cmd.Flags().Float64Var(&baseConc, "base-conc", model.BaseConcentrationField.Default, "base concentration (M)")
	cmd.Flags().IntVar(&samples, "samples", titration.DefaultSampleCount, "points in the sweep")
	cmd.Flags().StringVar(&lang, "lang", labels.DefaultLang, "built-in label set (see: tuitrate labels)")
	cmd.Flags().StringVar(&labelsPath, "labels", "", "label file (TOML); overrides --lang")
	cmd.Flags().IntVar(&plotHeight, "height", defaultPlotHeight, "chart height in rows")
}

func runPanelCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	handle := labels.NewHandle(labels.Source{Lang: cfg.Lang, Path: cfg.LabelsPath})
	m, err := tui.NewModel(cfg, handle)
	if err != nil {
		return labelsLoadError(cfg, err)
	}
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Print the titration curve and summary",
		Args:  cobra.NoArgs,
		RunE:  runPlotCmd,
	}
	addParamFlags(cmd)
	cmd.Flags().IntVar(&plotWidth, "width", 0, "total width (default: terminal width)")
	cmd.Flags().BoolVar(&plotColor, "color", false, "force colored output")
	return cmd
}

func runPlotCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if plotWidth < 0 {
		return fmt.Errorf("--width must be >= 0")
	}
	l, err := labels.NewHandle(labels.Source{Lang: cfg.Lang, Path: cfg.LabelsPath}).Get()
	if err != nil {
		return labelsLoadError(cfg, err)
	}
	p := titration.Parameters{
		AcidConcentration: cfg.AcidConcentration,
		AcidVolume:        cfg.AcidVolume,
		BaseConcentration: cfg.BaseConcentration,
	}
	result, err := titration.Compute(p, cfg.Samples)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintln(out, l.Title); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if _, err := fmt.Fprintf(out, "%s %s  %s %s  %s %s\n\n",
		l.AcidConcentration, model.AcidConcentrationField.Format(p.AcidConcentration),
		l.AcidVolume, model.AcidVolumeField.Format(p.AcidVolume),
		l.BaseConcentration, model.BaseConcentrationField.Format(p.BaseConcentration),
	); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := chart.RenderCurve(out, result, l, plotWidth, cfg.PlotHeight, plotColor); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	if err := chart.RenderSummary(out, titration.Summarize(p, result), l); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels",
		Short: "List built-in label sets",
		Args:  cobra.NoArgs,
		RunE:  runLabelsCmd,
	}
}

func runLabelsCmd(cmd *cobra.Command, _ []string) error {
	for _, code := range labels.Langs() {
		l, err := labels.Builtin(code)
		if err != nil {
			logErrf("skipping %s: %v\n", code, err)
			continue
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%-6s %s\n", code, l.Title); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// resolveConfig merges the config file under the flags that were not set and validates the result.
func resolveConfig(cmd *cobra.Command) (model.Config, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return model.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyFloatConfig(cmd, "acid-conc", &acidConc, fileCfg.Titration.AcidConcentration)
	applyFloatConfig(cmd, "acid-vol", &acidVol, fileCfg.Titration.AcidVolume)
	applyFloatConfig(cmd, "base-conc", &baseConc, fileCfg.Titration.BaseConcentration)
	applyIntConfig(cmd, "samples", &samples, fileCfg.Titration.Samples)
	applyStringConfig(cmd, "lang", &lang, fileCfg.Display.Lang)
	applyStringConfig(cmd, "labels", &labelsPath, fileCfg.Display.Labels)
	applyIntConfig(cmd, "height", &plotHeight, fileCfg.Display.Height)

	cfg := model.Config{
		AcidConcentration: acidConc,
		AcidVolume:        acidVol,
		BaseConcentration: baseConc,
		Samples:           samples,
		Lang:              strings.TrimSpace(lang),
		LabelsPath:        config.ResolveLabelsPath(strings.TrimSpace(labelsPath)),
		PlotHeight:        plotHeight,
	}
	if err := validateConfig(cfg); err != nil {
		return model.Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg model.Config) error {
	if err := model.AcidConcentrationField.Check("acid-conc", cfg.AcidConcentration); err != nil {
		return err
	}
	if err := model.AcidVolumeField.Check("acid-vol", cfg.AcidVolume); err != nil {
		return err
	}
	if err := model.BaseConcentrationField.Check("base-conc", cfg.BaseConcentration); err != nil {
		return err
	}
	if cfg.Samples < 2 || cfg.Samples > maxSamples {
		return fmt.Errorf("--samples must be between 2 and %d", maxSamples)
	}
	if cfg.PlotHeight < 2 {
		return fmt.Errorf("--height must be >= 2")
	}
	if cfg.LabelsPath == "" && cfg.Lang == "" {
		return fmt.Errorf("--lang must not be empty")
	}
	return nil
}

func labelsLoadError(cfg model.Config, err error) error {
	var hints []string
	if cfg.LabelsPath != "" {
		hints = append(hints, fmt.Sprintf("expected label file at: %s", cfg.LabelsPath))
	}
	hints = append(hints,
		"Run: tuitrate labels",
		fmt.Sprintf("Built-in sets: %s", strings.Join(labels.Langs(), ", ")),
	)
	return fmt.Errorf("failed to load labels: %w\n%s", err, strings.Join(hints, "\n"))
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# tuitrate configuration
# Uncomment a value to enable it. CLI flags override config values.

[titration]
# acid-conc = %.2f        # Acid concentration in M (%.2f-%.2f)
# acid-vol = %.1f         # Acid volume in mL (%.0f-%.0f)
# base-conc = %.2f        # Base concentration in M (%.2f-%.2f)
# samples = %d           # Points in the sweep

[display]
# lang = %q           # Built-in label set (tuitrate labels)
# labels = "custom.toml"  # Label file; bare names resolve to %s
# height = %d             # Chart height in rows
`,
		model.AcidConcentrationField.Default, model.AcidConcentrationField.Min, model.AcidConcentrationField.Max,
		model.AcidVolumeField.Default, model.AcidVolumeField.Min, model.AcidVolumeField.Max,
		model.BaseConcentrationField.Default, model.BaseConcentrationField.Min, model.BaseConcentrationField.Max,
		titration.DefaultSampleCount,
		labels.DefaultLang,
		config.DefaultLabelsDir(),
		defaultPlotHeight,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
