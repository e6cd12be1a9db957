// Package cli implements vestctl, the operator command line for vesting
// batches and streams.
package cli

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/zoobzio/clockz"

	"github.com/mmynk/vesting/pkg/api"
)

// DefaultServer is the address vestctl talks to when --server is not set.
const DefaultServer = "http://localhost:8080"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Server  string

	// Clock supplies "now" for offline commands. Nil means the real clock.
	Clock clockz.Clock

	// HTTPClient is used for server commands. Nil means http.DefaultClient.
	HTTPClient *http.Client
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for vestctl.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts so callers
// can inject a clock or an HTTP client.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vestctl",
		Short: "vestctl - token vesting streams",
		Long:  "Validate vesting batches, preview linear schedules, and manage streams on a vesting server.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Server, "server", DefaultServer, "vesting server base URL")

	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewCreateCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewClaimCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewScheduleCommand(opts))
	cmd.AddCommand(NewDurationCommand(opts))

	return cmd
}

func (o *RootOptions) clock() clockz.Clock {
	if o.Clock == nil {
		return clockz.RealClock
	}
	return o.Clock
}

func (o *RootOptions) client() api.VestingServiceClient {
	httpClient := o.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return api.NewVestingServiceClient(httpClient, o.Server)
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
