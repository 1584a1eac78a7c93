package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weather-lookup/internal/models"
	"github.com/vzahanych/weather-lookup/internal/present"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "search <city>",
		Short:   "Show current weather and the forecast for a city",
		Example: "  weather search New York\n  weather search --units imperial Paris",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), present.NewTerminal(cmd.OutOrStdout()), appOptions{needAPIKey: true})
			if err != nil {
				return err
			}
			defer a.Close()

			return reported(a.session.Search(cmd.Context(), strings.Join(args, " ")))
		},
	}
}

func hereCmd() *cobra.Command {
	var lat, lon float64

	cmd := &cobra.Command{
		Use:   "here",
		Short: "Show the weather at your current location",
		Long: `Shows the weather at your current location, as reported by the configured
geolocation provider. Pass --lat and --lon to use a known position instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), present.NewTerminal(cmd.OutOrStdout()), appOptions{needAPIKey: true})
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("lat") || cmd.Flags().Changed("lon") {
				return reported(a.session.SearchCoords(cmd.Context(), models.Coordinates{Lat: lat, Lon: lon}))
			}
			return reported(a.session.SearchHere(cmd.Context()))
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "latitude in degrees")
	cmd.Flags().Float64Var(&lon, "lon", 0, "longitude in degrees")
	cmd.MarkFlagsRequiredTogether("lat", "lon")

	return cmd
}
