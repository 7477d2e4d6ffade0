package cli

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorS/hclust"
	"github.com/TrevorS/hclust/internal/report"
)

func newProximityCmd(a *app) *cobra.Command {
	var (
		measure     string
		p, r        float64
		standardize bool
		list        bool
	)
	cmd := &cobra.Command{
		Use:   "proximity [data.csv]",
		Short: "Case-by-case proximity matrix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				for _, m := range hclust.Measures() {
					kind := "dissimilarity"
					if hclust.IsSimilarity(m) {
						kind = "similarity"
					}
					cmd.Printf("%-12s %s\n", m, kind)
				}
				return nil
			}
			if len(args) != 1 {
				return cmd.Usage()
			}

			cfg := a.cfg.Hierarchical.Library()
			flags := cmd.Flags()
			if flags.Changed("measure") {
				cfg.Measure.Measure = hclust.Measure(measure)
			}
			if flags.Changed("p") {
				cfg.Measure.P = p
			}
			if flags.Changed("r") {
				cfg.Measure.R = r
			}
			if flags.Changed("standardize") {
				cfg.Standardize = standardize
			}

			tbl, err := a.load(args[0])
			if err != nil {
				return err
			}
			m, diag, err := hclust.Proximity(tbl.Dataset, cfg)
			if err != nil {
				return err
			}
			a.logger.Info("proximity computed", zap.String("measure", string(cfg.Measure.Measure)))

			rep := report.New("proximity", tbl.Dataset)
			rep.SetProximity(cfg.Measure.Measure, m)
			rep.AddDiagnostics(diag)
			return a.emit(rep)
		},
	}
	cmd.Flags().StringVar(&measure, "measure", "", "proximity measure")
	cmd.Flags().Float64Var(&p, "p", 2, "exponent for minkowski and power measures")
	cmd.Flags().Float64Var(&r, "r", 2, "root for the power measure")
	cmd.Flags().BoolVar(&standardize, "standardize", false, "z-score variables first")
	cmd.Flags().BoolVar(&list, "list", false, "list the available measures and exit")
	a.addInputFlags(cmd)
	a.addOutputFlags(cmd)
	return cmd
}
