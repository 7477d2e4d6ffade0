// Package config loads the settings of the hclust command from a YAML file,
// a .env file and HCLUST_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/TrevorS/hclust"
	"github.com/TrevorS/hclust/internal/logutil"
)

// Config holds all command configuration.
type Config struct {
	Log          logutil.LogConfig `mapstructure:"log"`
	Input        Input             `mapstructure:"input"`
	Hierarchical Hierarchical      `mapstructure:"hierarchical"`
	TwoStep      TwoStep           `mapstructure:"twostep"`
	Output       Output            `mapstructure:"output"`

	// ConfigFile is the file the settings were read from, if any.
	ConfigFile string `mapstructure:"-"`
}

// Input controls how CSV input is turned into cases.
type Input struct {
	// Missing is "listwise" (drop incomplete rows) or "pairwise" (keep
	// them and exclude missing values pair by pair).
	Missing   string `mapstructure:"missing"`
	Delimiter string `mapstructure:"delimiter"`
}

// Hierarchical holds the settings of the hierarchical subcommand.
type Hierarchical struct {
	Linkage     string  `mapstructure:"linkage"`
	Measure     string  `mapstructure:"measure"`
	P           float64 `mapstructure:"p"`
	R           float64 `mapstructure:"r"`
	Present     float64 `mapstructure:"present"`
	Absent      float64 `mapstructure:"absent"`
	Standardize bool    `mapstructure:"standardize"`
	Workers     int     `mapstructure:"workers"`
	MinClusters int     `mapstructure:"min_clusters"`
	MaxClusters int     `mapstructure:"max_clusters"`
	Display     Display `mapstructure:"display"`
}

// Display selects the cluster counts of the icicle plot. Stop 0 means the
// number of cases.
type Display struct {
	Mode  string `mapstructure:"mode"`
	Start int    `mapstructure:"start"`
	Stop  int    `mapstructure:"stop"`
	Step  int    `mapstructure:"step"`
	K     int    `mapstructure:"k"`
}

// TwoStep holds the settings of the twostep subcommand.
type TwoStep struct {
	Distance       string  `mapstructure:"distance"`
	Standardize    bool    `mapstructure:"standardize"`
	MaxBranch      int     `mapstructure:"max_branch"`
	MaxDepth       int     `mapstructure:"max_depth"`
	Threshold      float64 `mapstructure:"threshold"`
	NoiseHandling  bool    `mapstructure:"noise_handling"`
	NoiseThreshold float64 `mapstructure:"noise_threshold"`
	NumClusters    int     `mapstructure:"num_clusters"`
	MaxClusters    int     `mapstructure:"max_clusters"`
	UseBIC         bool    `mapstructure:"use_bic"`
	Seed           int64   `mapstructure:"seed"`
}

// Output controls report writing.
type Output struct {
	Compress bool `mapstructure:"compress"`
	Indent   bool `mapstructure:"indent"`
}

// Load reads configuration from configFile, or from .hclust.yaml in the
// working or home directory when configFile is empty. A missing default
// file is not an error. Environment variables override file values:
// hierarchical.linkage is HCLUST_HIERARCHICAL_LINKAGE.
func Load(configFile string) (*Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME")
		v.SetConfigName(".hclust")
		v.SetConfigType("yaml")
	}

	setDefaults(v)

	v.SetEnvPrefix("HCLUST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	hc := hclust.DefaultConfig()
	ts := hclust.DefaultTwoStepConfig()

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.filename", "")
	v.SetDefault("log.max_size", 64)
	v.SetDefault("log.max_days", 7)
	v.SetDefault("log.max_backups", 3)

	v.SetDefault("input.missing", "listwise")
	v.SetDefault("input.delimiter", ",")

	v.SetDefault("hierarchical.linkage", string(hc.Linkage))
	v.SetDefault("hierarchical.measure", string(hc.Measure.Measure))
	v.SetDefault("hierarchical.p", hc.Measure.P)
	v.SetDefault("hierarchical.r", hc.Measure.R)
	v.SetDefault("hierarchical.present", hc.Measure.Present)
	v.SetDefault("hierarchical.absent", hc.Measure.Absent)
	v.SetDefault("hierarchical.standardize", hc.Standardize)
	v.SetDefault("hierarchical.workers", 0)
	v.SetDefault("hierarchical.min_clusters", 0)
	v.SetDefault("hierarchical.max_clusters", 0)
	v.SetDefault("hierarchical.display.mode", hc.Window.Mode.String())
	v.SetDefault("hierarchical.display.start", 1)
	v.SetDefault("hierarchical.display.stop", 0)
	v.SetDefault("hierarchical.display.step", 1)
	v.SetDefault("hierarchical.display.k", 1)

	v.SetDefault("twostep.distance", string(ts.Tree.Distance))
	v.SetDefault("twostep.standardize", ts.Standardize)
	v.SetDefault("twostep.max_branch", ts.Tree.MaxBranch)
	v.SetDefault("twostep.max_depth", ts.Tree.MaxDepth)
	v.SetDefault("twostep.threshold", ts.Tree.Threshold)
	v.SetDefault("twostep.noise_handling", ts.Tree.NoiseHandling)
	v.SetDefault("twostep.noise_threshold", ts.Tree.NoiseThreshold)
	v.SetDefault("twostep.num_clusters", ts.NumClusters)
	v.SetDefault("twostep.max_clusters", ts.MaxClusters)
	v.SetDefault("twostep.use_bic", ts.UseBIC)
	v.SetDefault("twostep.seed", 0)

	v.SetDefault("output.compress", false)
	v.SetDefault("output.indent", true)
}

// Validate checks the settings that the clustering library does not check
// itself.
func (c *Config) Validate() error {
	switch c.Input.Missing {
	case "listwise", "pairwise":
	default:
		return fmt.Errorf("input.missing must be listwise or pairwise, got %q", c.Input.Missing)
	}
	if len([]rune(c.Input.Delimiter)) != 1 {
		return fmt.Errorf("input.delimiter must be a single character, got %q", c.Input.Delimiter)
	}
	if _, err := hclust.ParseDisplayMode(c.Hierarchical.Display.Mode); err != nil {
		return fmt.Errorf("hierarchical.display.mode: %w", err)
	}
	return nil
}

// Library converts the hierarchical settings into a library Config.
func (h Hierarchical) Library() hclust.Config {
	cfg := hclust.DefaultConfig()
	cfg.Linkage = hclust.Linkage(h.Linkage)
	cfg.Measure = hclust.MeasureConfig{
		Measure: hclust.Measure(h.Measure),
		P:       h.P,
		R:       h.R,
		Present: h.Present,
		Absent:  h.Absent,
	}
	cfg.Standardize = h.Standardize
	cfg.Workers = h.Workers
	cfg.MinClusters = h.MinClusters
	cfg.MaxClusters = h.MaxClusters
	cfg.Window = h.Display.Window()
	return cfg
}

// Window converts the display settings into a library DisplayWindow. An
// unknown mode falls back to showing every cluster count; Validate rejects
// it first.
func (d Display) Window() hclust.DisplayWindow {
	mode, err := hclust.ParseDisplayMode(d.Mode)
	if err != nil {
		mode = hclust.DisplayAll
	}
	return hclust.DisplayWindow{Mode: mode, Start: d.Start, Stop: d.Stop, Step: d.Step, K: d.K}
}

// Library converts the two-step settings into a library TwoStepConfig.
func (t TwoStep) Library() hclust.TwoStepConfig {
	cfg := hclust.DefaultTwoStepConfig()
	cfg.Standardize = t.Standardize
	cfg.Tree = hclust.CFTreeConfig{
		MaxBranch:      t.MaxBranch,
		MaxDepth:       t.MaxDepth,
		Threshold:      t.Threshold,
		Distance:       hclust.CFDistance(t.Distance),
		NoiseHandling:  t.NoiseHandling,
		NoiseThreshold: t.NoiseThreshold,
		Seed:           t.Seed,
	}
	cfg.NumClusters = t.NumClusters
	cfg.MaxClusters = t.MaxClusters
	cfg.UseBIC = t.UseBIC
	return cfg
}
