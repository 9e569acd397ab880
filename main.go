package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/orayew2002/checklist-excel/config"
	"github.com/orayew2002/checklist-excel/domain"
	"github.com/orayew2002/checklist-excel/htmlform"
	"github.com/orayew2002/checklist-excel/layout"
	"github.com/orayew2002/checklist-excel/logging"
	"github.com/orayew2002/checklist-excel/processor"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	output     string
	layout     string
	logLevel   string
	sections   int
	force      bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var fl flags

	root := &cobra.Command{
		Use:           "checklist-excel",
		Short:         "Export renovation checklists to Excel workbooks",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&fl.configPath, "config", "", "path to the config file")
	root.PersistentFlags().StringVar(&fl.layout, "layout", "", "sheet layout: sections, grouped, consolidated")
	root.PersistentFlags().StringVar(&fl.logLevel, "log-level", "", "log level: debug, info, warn, error")

	exportCmd := &cobra.Command{
		Use:   "export <input.yaml|input.json|input.html>",
		Short: "Write a checklist to an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(fl, args[0])
		},
	}
	exportCmd.Flags().StringVarP(&fl.output, "output", "o", "", "path to the output Excel file")

	planCmd := &cobra.Command{
		Use:   "plan <input>",
		Short: "Print the sheets an export would create",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, fl, args[0])
		},
	}

	demoCmd := &cobra.Command{
		Use:   "demo",
		Short: "Export a generated sample checklist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(fl)
		},
	}
	demoCmd.Flags().IntVar(&fl.sections, "sections", 8, "number of generated sections")
	demoCmd.Flags().StringVarP(&fl.output, "output", "o", "", "path to the output Excel file")

	initCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write the default config file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := config.SearchPaths[0]
			if len(args) == 1 {
				path = args[0]
			}
			return runInitConfig(cmd, fl, path)
		},
	}
	initCmd.Flags().BoolVar(&fl.force, "force", false, "overwrite an existing file")

	root.AddCommand(exportCmd, planCmd, demoCmd, initCmd)
	return root
}

// setup loads the config and applies command-line overrides.
func setup(fl flags) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(fl.configPath)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}

	if fl.layout != "" {
		cfg.Layout = fl.layout
	}
	if fl.output != "" {
		cfg.Output = fl.output
	}
	if fl.logLevel != "" {
		cfg.LogLevel = fl.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("config: %w", err)
	}

	log := logging.New(cfg.LogLevel)
	if cfg.ConfigPath != "" {
		log.Debug().Str("path", cfg.ConfigPath).Msg("config loaded")
	}
	return cfg, log, nil
}

func runExport(fl flags, input string) error {
	cfg, log, err := setup(fl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	checklist, err := loadChecklist(input)
	if err != nil {
		log.Error().Err(err).Str("input", input).Msg("load checklist")
		return err
	}

	return export(cfg, log, checklist)
}

func runDemo(fl flags) error {
	cfg, log, err := setup(fl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	return export(cfg, log, domain.GenerateChecklist(fl.sections))
}

func runPlan(cmd *cobra.Command, fl flags, input string) error {
	cfg, log, err := setup(fl)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	checklist, err := loadChecklist(input)
	if err != nil {
		log.Error().Err(err).Str("input", input).Msg("load checklist")
		return err
	}

	sheets, err := buildSheets(cfg, checklist)
	if err != nil {
		log.Error().Err(err).Msg("layout")
		return err
	}

	out := cmd.OutOrStdout()
	for _, s := range sheets {
		fmt.Fprintf(out, "%-31s  %3d rows  %d data\n", s.Name, len(s.Rows), s.DataRows())
	}
	return nil
}

// runInitConfig saves the defaults, with any --layout and --log-level
// overrides, so they can be edited.
func runInitConfig(cmd *cobra.Command, fl flags, path string) error {
	if _, err := os.Stat(path); err == nil && !fl.force {
		err := fmt.Errorf("%s already exists, use --force to overwrite", path)
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	cfg := config.Default()
	if fl.layout != "" {
		cfg.Layout = fl.layout
	}
	if fl.logLevel != "" {
		cfg.LogLevel = fl.logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	if err := cfg.Save(path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	return nil
}

// export lays out the checklist and saves the workbook to cfg.Output.
func export(cfg *config.Config, log zerolog.Logger, checklist *domain.Checklist) error {
	sheets, err := buildSheets(cfg, checklist)
	if err != nil {
		log.Error().Err(err).Msg("layout")
		return err
	}

	p := processor.New(log, processor.Properties{
		Creator: cfg.Creator,
		Title:   checklist.Title,
		Created: time.Now(),
	})
	if err := p.ExportFile(sheets, cfg.Output); err != nil {
		log.Error().Err(err).Str("output", cfg.Output).Msg("export")
		return err
	}

	return nil
}

func buildSheets(cfg *config.Config, checklist *domain.Checklist) ([]layout.Sheet, error) {
	opts, err := cfg.LayoutOptions()
	if err != nil {
		return nil, err
	}

	sheets, err := layout.Build(checklist, opts)
	if err != nil {
		return nil, fmt.Errorf("layout %s: %w", opts.Mode, err)
	}
	return sheets, nil
}

// loadChecklist picks the reader by file extension.
func loadChecklist(path string) (*domain.Checklist, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return htmlform.ParseFile(path)
	case ".yaml", ".yml", ".json":
		return domain.Load(path)
	default:
		return nil, fmt.Errorf("unsupported input %s: want .yaml, .yml, .json or .html", path)
	}
}
