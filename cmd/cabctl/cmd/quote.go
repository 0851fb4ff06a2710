package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cabbie/internal/services"
	"cabbie/pkg/utils"
)

var (
	quoteService    string
	quoteMiles      float64
	quoteWait       int
	quotePassengers int
	quoteLuggage    int
	quoteFrom       string
	quoteTo         string
)

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a journey from a distance or from two addresses",
	Example: `  cabctl quote --service standard --miles 12.5 --wait 10
  cabctl quote --service mpv --from "King's Cross, London" --to "Heathrow T5"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := loadTariff()
		if err != nil {
			return err
		}
		fares, err := services.NewFareCalculator(t)
		if err != nil {
			return err
		}

		miles := quoteMiles
		if quoteFrom != "" || quoteTo != "" {
			route, err := lookupRoute(cmd, quoteFrom, quoteTo)
			if err != nil {
				return err
			}
			miles = route.Miles()
			fmt.Fprintf(cmd.OutOrStdout(), "route: %.2f miles, about %d min\n", miles, route.Minutes())
		}

		fare, err := fares.Calculate(services.FareInput{
			ServiceType:   quoteService,
			DistanceMiles: miles,
			WaitMinutes:   quoteWait,
			Passengers:    quotePassengers,
			Luggage:       quoteLuggage,
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "service:   %s\n", fare.ServiceType)
		fmt.Fprintf(out, "distance:  %.2f mi at %s/mi = %s\n", fare.DistanceMiles,
			utils.FormatMoney(fare.PerMileRate, t.Currency), utils.FormatMoney(fare.DistanceCharge, t.Currency))
		if fare.MinimumApplied {
			fmt.Fprintf(out, "minimum:   %s applied\n", utils.FormatMoney(fare.MinimumFare, t.Currency))
		}
		if fare.WaitMinutes > 0 {
			fmt.Fprintf(out, "waiting:   %d min = %s\n", fare.WaitMinutes, utils.FormatMoney(fare.WaitCharge, t.Currency))
		}
		fmt.Fprintf(out, "total:     %s\n", utils.FormatMoney(fare.Total, t.Currency))
		return nil
	},
}

func lookupRoute(cmd *cobra.Command, from, to string) (services.RouteInfo, error) {
	if from == "" || to == "" {
		return services.RouteInfo{}, fmt.Errorf("--from and --to must be given together")
	}
	client, err := services.NewGoogleMapsClient(os.Getenv("GOOGLE_MAPS_API_KEY"))
	if err != nil {
		return services.RouteInfo{}, err
	}
	log := newLogger()
	defer log.Sync()

	places := services.NewPlacesService(client, services.NewInMemoryPairCache(), "", 0, log)
	return places.Route(cmd.Context(), from, to)
}

func init() {
	quoteCmd.Flags().StringVarP(&quoteService, "service", "s", "standard", "Service type")
	quoteCmd.Flags().Float64VarP(&quoteMiles, "miles", "m", 0, "Distance in miles")
	quoteCmd.Flags().IntVarP(&quoteWait, "wait", "w", 0, "Waiting minutes")
	quoteCmd.Flags().IntVarP(&quotePassengers, "passengers", "p", 1, "Passengers")
	quoteCmd.Flags().IntVar(&quoteLuggage, "luggage", 0, "Luggage items")
	quoteCmd.Flags().StringVar(&quoteFrom, "from", "", "Pickup address")
	quoteCmd.Flags().StringVar(&quoteTo, "to", "", "Dropoff address")
}
