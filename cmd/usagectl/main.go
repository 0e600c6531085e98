package main

import (
	"errors"
	"fmt"
	"os"

	"cellular-usage-report/internal/app"
	"cellular-usage-report/internal/config"
	"cellular-usage-report/internal/domain/usage"
	"cellular-usage-report/internal/logger"

	"github.com/spf13/cobra"
)

const (
	exitOK = iota
	exitFailure
	exitTokenFailure
	exitUpstreamFailure
)

func main() {
	root := &cobra.Command{
		Use:           "usagectl",
		Short:         "Cellular router usage reports from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var verbose bool
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline progress to stderr")
	root.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		if !verbose {
			return nil
		}
		return logger.Init("development")
	}

	root.AddCommand(newReportCommand())
	root.AddCommand(newDevicesCommand())

	err := root.Execute()
	logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	var (
		statusErr    *usage.UpstreamStatusError
		transportErr *usage.TransportError
	)

	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, usage.ErrTokenUnavailable):
		return exitTokenFailure
	case errors.As(err, &statusErr), errors.As(err, &transportErr), errors.Is(err, usage.ErrMalformedResponse):
		return exitUpstreamFailure
	default:
		return exitFailure
	}
}

func loadApp() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg)
}
