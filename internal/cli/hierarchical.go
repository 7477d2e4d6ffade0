package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/hclust"
	"github.com/TrevorS/hclust/internal/report"
)

type hierarchicalFlags struct {
	linkage     string
	measure     string
	p, r        float64
	standardize bool
	minClusters int
	maxClusters int
	display     string
	start, stop int
	step, k     int
}

func newHierarchicalCmd(a *app) *cobra.Command {
	f := &hierarchicalFlags{}
	cmd := &cobra.Command{
		Use:   "hierarchical <data.csv>",
		Short: "Agglomerative hierarchical clustering of cases",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.apply(cmd, a.cfg.Hierarchical.Library())
			if err != nil {
				return err
			}
			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}

			res, err := hclust.Cluster(tbl.Dataset, cfg)
			if err != nil {
				return err
			}
			a.logger.Info("agglomeration finished",
				zap.String("linkage", string(cfg.Linkage)),
				zap.String("measure", string(cfg.Measure.Measure)),
				zap.Int("stages", len(res.Schedule.Stages)),
			)
			for _, err := range []error{res.DendrogramErr, res.IcicleErr, res.MembershipErr} {
				if err != nil {
					a.logger.Error("output failed", zap.Error(err))
				}
			}

			rep := report.New("hierarchical", tbl.Dataset)
			rep.SetHierarchical(res)
			return a.emit(rep)
		},
	}

	cmd.Flags().StringVar(&f.linkage, "linkage", "", "linkage: single, complete, average, average_within, centroid, median, ward")
	cmd.Flags().StringVar(&f.measure, "measure", "", "proximity measure (see the proximity command)")
	cmd.Flags().Float64Var(&f.p, "p", 2, "exponent for minkowski and power measures")
	cmd.Flags().Float64Var(&f.r, "r", 2, "root for the power measure")
	cmd.Flags().BoolVar(&f.standardize, "standardize", false, "z-score variables before measuring proximity")
	cmd.Flags().IntVar(&f.minClusters, "min-clusters", 0, "smallest cluster count to report memberships for")
	cmd.Flags().IntVar(&f.maxClusters, "max-clusters", 0, "largest cluster count to report memberships for")
	cmd.Flags().StringVar(&f.display, "display", "all", "icicle cluster counts: all, range or single")
	cmd.Flags().IntVar(&f.start, "start", 1, "first cluster count of a range display")
	cmd.Flags().IntVar(&f.stop, "stop", 0, "last cluster count of a range display (default: number of cases)")
	cmd.Flags().IntVar(&f.step, "step", 1, "step of a range display")
	cmd.Flags().IntVar(&f.k, "k", 1, "cluster count of a single display")
	a.addInputFlags(cmd)
	a.addOutputFlags(cmd)
	return cmd
}

// apply overlays the flags the user set on cfg.
func (f *hierarchicalFlags) apply(cmd *cobra.Command, cfg hclust.Config) (hclust.Config, error) {
	flags := cmd.Flags()
	if flags.Changed("linkage") {
		cfg.Linkage = hclust.Linkage(f.linkage)
	}
	if flags.Changed("measure") {
		cfg.Measure.Measure = hclust.Measure(f.measure)
	}
	if flags.Changed("p") {
		cfg.Measure.P = f.p
	}
	if flags.Changed("r") {
		cfg.Measure.R = f.r
	}
	if flags.Changed("standardize") {
		cfg.Standardize = f.standardize
	}
	if flags.Changed("min-clusters") {
		cfg.MinClusters = f.minClusters
	}
	if flags.Changed("max-clusters") {
		cfg.MaxClusters = f.maxClusters
	}

	if flags.Changed("display") {
		mode, err := hclust.ParseDisplayMode(f.display)
		if err != nil {
			return cfg, fmt.Errorf("--display: %w", err)
		}
		cfg.Window.Mode = mode
	}
	if flags.Changed("start") {
		cfg.Window.Start = f.start
	}
	if flags.Changed("stop") {
		cfg.Window.Stop = f.stop
	}
	if flags.Changed("step") {
		cfg.Window.Step = f.step
	}
	if flags.Changed("k") {
		cfg.Window.K = f.k
	}
	return cfg, nil
}
