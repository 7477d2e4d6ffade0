// Package cli wires the hclust command tree.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/hclust/internal/config"
	"github.com/TrevorS/hclust/internal/dataset"
	"github.com/TrevorS/hclust/internal/logutil"
	"github.com/TrevorS/hclust/internal/report"
)

// Version is set at build time.
var Version = "dev"

// app is the state shared by every subcommand of one invocation.
type app struct {
	cfgFile  string
	logLevel string

	// input flags
	vars    []string
	cat     []string
	label   string
	missing string

	// output flags
	out      string
	compress bool

	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
}

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{stdout: os.Stdout})
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hclust",
		Short: "Hierarchical and two-step cluster analysis of CSV data.",
		Long: `hclust clusters the cases of a CSV file.

The hierarchical command agglomerates cases under a chosen proximity measure
and linkage and reports the agglomeration schedule, dendrogram, icicle plot
and cluster memberships. The twostep command pre-clusters large files into a
CF tree first and picks the number of clusters automatically.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is ./.hclust.yaml or $HOME/.hclust.yaml)")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newHierarchicalCmd(a))
	rootCmd.AddCommand(newProximityCmd(a))
	rootCmd.AddCommand(newTwoStepCmd(a))
	rootCmd.AddCommand(newVersionCmd(a))
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) init() error {
	cfg, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}
	logger, err := logutil.New(cfg.Log)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logger
	if cfg.ConfigFile != "" {
		logger.Debug("using config file", zap.String("path", cfg.ConfigFile))
	}
	return nil
}

// addInputFlags registers the flags that select cases and variables.
func (a *app) addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&a.vars, "vars", nil, "continuous variable columns (default: all other columns)")
	cmd.Flags().StringSliceVar(&a.cat, "cat", nil, "categorical variable columns")
	cmd.Flags().StringVar(&a.label, "label", "", "column holding case labels")
	cmd.Flags().StringVar(&a.missing, "missing", "", "missing-value policy: listwise or pairwise")
}

// addOutputFlags registers the report destination flags.
func (a *app) addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&a.out, "out", "o", "", "write the report to this file instead of stdout")
	cmd.Flags().BoolVar(&a.compress, "compress", false, "zstd-compress the report (implied by a .zst output path)")
}

// load reads the CSV at path under the configured missing-value policy.
func (a *app) load(path string) (*dataset.Table, error) {
	missing := a.cfg.Input.Missing
	if a.missing != "" {
		missing = a.missing
	}
	var delim rune
	for _, r := range a.cfg.Input.Delimiter {
		delim = r
	}
	tbl, err := dataset.ReadFile(path, dataset.Options{
		Vars:      a.vars,
		Cat:       a.cat,
		Label:     a.label,
		Missing:   missing,
		Delimiter: delim,
	})
	if err != nil {
		return nil, err
	}
	a.logger.Info("loaded dataset",
		zap.String("path", path),
		zap.Int("cases", tbl.Dataset.Len()),
		zap.Int("continuous", tbl.Dataset.NumContinuous()),
		zap.Int("categorical", tbl.Dataset.NumCategorical()),
		zap.Int("dropped", tbl.Dropped),
	)
	return tbl, nil
}

// emit writes rep to --out or stdout.
func (a *app) emit(rep *report.Report) error {
	for _, w := range rep.Warnings {
		a.logger.Warn(w, zap.String("run_id", rep.RunID))
	}
	for _, n := range rep.Notes {
		a.logger.Debug(n, zap.String("run_id", rep.RunID))
	}
	indent := a.cfg.Output.Indent
	compress := a.compress || a.cfg.Output.Compress
	if a.out == "" {
		return report.Write(a.stdout, rep, compress, indent)
	}
	if err := report.WriteFile(a.out, rep, compress, indent); err != nil {
		return err
	}
	a.logger.Info("wrote report",
		zap.String("run_id", rep.RunID),
		zap.String("path", a.out),
		zap.Bool("compressed", report.Compressed(a.out, compress)),
	)
	return nil
}
