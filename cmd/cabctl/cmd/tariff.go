package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"cabbie/pkg/utils"
)

var tariffCmd = &cobra.Command{
	Use:   "tariff",
	Short: "Print the active tariff",
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTariff()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "SERVICE\tMINIMUM\tWAIT/MIN\tPAX\tTIERS")
		for _, name := range t.ServiceNames() {
			s := t.Services[name]
			tiers := ""
			for i, tier := range s.Tiers {
				if i > 0 {
					tiers += ", "
				}
				limit := "rest"
				if tier.UpToMiles > 0 {
					limit = fmt.Sprintf("<=%gmi", tier.UpToMiles)
				}
				tiers += fmt.Sprintf("%s %s", limit, utils.FormatMoney(tier.PerMile, t.Currency))
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", name,
				utils.FormatMoney(s.MinimumFare, t.Currency),
				utils.FormatMoney(s.WaitPerMinute, t.Currency),
				s.MaxPassengers, tiers)
		}
		return w.Flush()
	},
}
