package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/hclust"
	"github.com/TrevorS/hclust/internal/report"
)

func newTwoStepCmd(a *app) *cobra.Command {
	var (
		distance    string
		numClusters int
		maxClusters int
		noise       bool
		seed        int64
	)
	cmd := &cobra.Command{
		Use:   "twostep <data.csv>",
		Short: "Two-step clustering: CF-tree pre-clustering then hierarchical merging",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg.TwoStep.Library()
			flags := cmd.Flags()
			if flags.Changed("distance") {
				cfg.Tree.Distance = hclust.CFDistance(distance)
			}
			if flags.Changed("clusters") {
				cfg.NumClusters = numClusters
			}
			if flags.Changed("max-clusters") {
				cfg.MaxClusters = maxClusters
			}
			if flags.Changed("noise") {
				cfg.Tree.NoiseHandling = noise
			}
			if flags.Changed("seed") {
				cfg.Tree.Seed = seed
			}

			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}
			res, err := hclust.TwoStep(tbl.Dataset, cfg)
			if err != nil {
				return err
			}
			a.logger.Info("two-step finished",
				zap.Int("sub_clusters", len(res.SubClusters)),
				zap.Int("k", res.K),
				zap.Float64("threshold", res.Threshold),
			)

			rep := report.New("twostep", tbl.Dataset)
			rep.SetTwoStep(res)
			return a.emit(rep)
		},
	}
	cmd.Flags().StringVar(&distance, "distance", "", "CF distance: loglikelihood or euclidean")
	cmd.Flags().IntVar(&numClusters, "clusters", 0, "fixed number of clusters (0 selects automatically)")
	cmd.Flags().IntVar(&maxClusters, "max-clusters", 15, "upper bound for automatic selection")
	cmd.Flags().BoolVar(&noise, "noise", false, "dissolve small sub-clusters into their neighbours")
	cmd.Flags().Int64Var(&seed, "seed", 0, "seed of the case insertion order")
	a.addInputFlags(cmd)
	a.addOutputFlags(cmd)
	return cmd
}
