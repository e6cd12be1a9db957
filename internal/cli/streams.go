package cli

import (
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/vesting/pkg/api"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Recipient string
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List streams and their progress",
		Long: `List streams with vested and claimable amounts at the server's clock.

Example:
  vestctl list --recipient 0x52908400098527886e0f7030069857d2e4169ee7`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			resp, err := opts.client().ListStreams(cmd.Context(),
				connect.NewRequest(&api.ListStreamsRequest{Recipient: opts.Recipient}))
			if err != nil {
				return rpcError(formatter, "list", err)
			}
			return formatter.Success(streamList(*resp.Msg))
		},
	}

	cmd.Flags().StringVar(&opts.Recipient, "recipient", "", "only streams for this address")

	return cmd
}

type streamList api.ListStreamsResponse

func (l streamList) String() string {
	if len(l.Streams) == 0 {
		return "no streams"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d stream(s) at %s", len(l.Streams), formatUnix(l.ObservedAt))
	for _, s := range l.Streams {
		fmt.Fprintf(&b, "\n\n%s\n  recipient  %s\n  total      %s\n  vested     %s (%s)\n  claimed    %s\n  claimable  %s\n  ends       %s",
			s.StreamID, s.Recipient, s.TotalAmount, s.VestedAmount, percent(s.VestedFraction),
			s.ClaimedAmount, s.ClaimableAmount, formatUnix(s.VestingEnd))
	}
	return b.String()
}

// ClaimOptions holds flags for the claim command.
type ClaimOptions struct {
	*RootOptions
	Amount string
}

// NewClaimCommand creates the claim command.
func NewClaimCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ClaimOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "claim <stream-id>",
		Short: "Claim vested tokens from a stream",
		Long: `Claim an amount, in the token's smallest unit, from a stream.

The server checks the amount against what is claimable at its clock.
Exits 1 if the claim is refused.

Example:
  vestctl claim 0b7c6b1e-5d3a-4f0e-9a58-2d7f0c1e9b44 --amount 500000000000000000000`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			resp, err := opts.client().Claim(cmd.Context(),
				connect.NewRequest(&api.ClaimRequest{StreamID: args[0], Amount: opts.Amount}))
			if err != nil {
				return rpcError(formatter, "claim", err)
			}
			return formatter.Success(claimReceipt(*resp.Msg))
		},
	}

	cmd.Flags().StringVar(&opts.Amount, "amount", "", "amount to claim, in smallest units")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

type claimReceipt api.ClaimResponse

func (r claimReceipt) String() string {
	return fmt.Sprintf("✓ claimed %s from %s\n  claimed total  %s\n  claimable now  %s",
		r.AmountClaimed, r.StreamID, r.ClaimedTotal, r.ClaimableAmount)
}

// SummaryOptions holds flags for the summary command.
type SummaryOptions struct {
	*RootOptions
	Recipient string
}

// NewSummaryCommand creates the summary command.
func NewSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SummaryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "summary",
		Short:         "Show per-recipient and overall totals",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(opts.RootOptions, cmd)
			resp, err := opts.client().GetSummary(cmd.Context(),
				connect.NewRequest(&api.GetSummaryRequest{Recipient: opts.Recipient}))
			if err != nil {
				return rpcError(formatter, "summary", err)
			}
			return formatter.Success(summaryView(*resp.Msg))
		},
	}

	cmd.Flags().StringVar(&opts.Recipient, "recipient", "", "only this address")

	return cmd
}

type summaryView api.GetSummaryResponse

func (v summaryView) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-44s %8s %12s %12s %12s %12s", "RECIPIENT", "STREAMS", "TOTAL", "VESTED", "LOCKED", "CLAIMABLE")
	for _, bal := range v.Recipients {
		writeBalance(&b, bal.Recipient, bal)
	}
	writeBalance(&b, "overall", v.Overall)
	return b.String()
}

func writeBalance(b *strings.Builder, label string, bal api.Balance) {
	fmt.Fprintf(b, "\n%-44s %8d %12s %12s %12s %12s", label, bal.Streams, bal.Total, bal.Vested, bal.Locked, bal.Claimable)
}
