package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/usecase/report"

	"github.com/spf13/cobra"
)

func newReportCommand() *cobra.Command {
	var (
		start     string
		end       string
		locations bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print devices that used at least the threshold over a date range",
		Long: "Sum daily cellular usage for every device in the directory between --start and --end " +
			"(inclusive) and print the devices at or above the configured threshold, largest first.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if locations && !a.Reports.LocationsAvailable() {
				return fmt.Errorf("--locations needs INVENTORY_API_LOOKUP_URL and INVENTORY_API_CLIENT_ID")
			}

			result, err := a.Reports.Run(cmd.Context(), &report.RunRequest{
				StartDate:        start,
				EndDate:          end,
				IncludeLocations: locations,
				RequestedBy:      "usagectl",
			})
			if err != nil {
				return describeFailure(err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderReport(result))
			return nil
		},
	}

	today := time.Now().Format(time.DateOnly)
	cmd.Flags().StringVar(&start, "start", today, "first day of the range (YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", today, "last day of the range (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&locations, "locations", false, "resolve each device's location through the inventory API")

	return cmd
}

// describeFailure keeps the error chain intact so the exit code can still be
// derived from it.
func describeFailure(err error) error {
	var statusErr *usage.UpstreamStatusError

	switch {
	case errors.Is(err, usage.ErrTokenUnavailable):
		fmt.Fprintln(os.Stderr, "Could not obtain an access token. Check the client credentials and the diagnostic log.")
	case errors.As(err, &statusErr):
		fmt.Fprintf(os.Stderr, "The %s API answered with status %d.\n", statusErr.Service, statusErr.StatusCode)
	}
	return err
}
