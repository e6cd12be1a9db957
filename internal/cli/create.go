package cli

import (
	"context"
	"fmt"
	"strings"

	"connectrpc.com/connect"
	"github.com/spf13/cobra"

	"github.com/mmynk/vesting/pkg/api"
)

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <file.csv>",
		Short: "Submit a batch sheet to the server",
		Long: `Submit every row of a batch sheet to the server in one batch.

Accepted rows become streams that start at the server's clock. Rejected
rows are listed; the command still succeeds if at least one row was
accepted.

Example:
  vestctl create grants.csv --server http://vesting.internal:8080`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd.Context(), rootOpts, args[0], cmd)
		},
	}
	return cmd
}

type createReport struct {
	Streams  []*api.Stream     `json:"streams"`
	Rejected []api.RejectedRow `json:"rejected,omitempty"`
}

func (r createReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "✓ %d stream(s) created", len(r.Streams))
	for _, s := range r.Streams {
		fmt.Fprintf(&b, "\n  %s  %s  %s", s.StreamID, s.Recipient, s.TotalAmount)
	}
	if len(r.Rejected) > 0 {
		fmt.Fprintf(&b, "\n✗ %d row(s) rejected", len(r.Rejected))
		for _, rej := range r.Rejected {
			fmt.Fprintf(&b, "\n  line %d  %s: %s", rej.Line, rej.Kind, rej.Message)
		}
	}
	return b.String()
}

func runCreate(ctx context.Context, opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)
	if ctx == nil {
		ctx = context.Background()
	}

	rows, err := readSheet(formatter, path)
	if err != nil {
		return err
	}

	req := &api.CreateBatchRequest{Rows: make([]api.Row, len(rows))}
	for i, row := range rows {
		req.Rows[i] = api.Row{
			WalletAddress: row.WalletAddress,
			Amount:        row.Amount,
			Duration:      row.Duration,
			Cliff:         row.Cliff,
		}
	}

	formatter.VerboseLog("submitting %d row(s) to %s", len(rows), opts.Server)
	resp, err := opts.client().CreateBatch(ctx, connect.NewRequest(req))
	if err != nil {
		return rpcError(formatter, "batch", err)
	}

	// Server line numbers count data rows; map them back to sheet lines.
	rejected := resp.Msg.Rejected
	for i := range rejected {
		if n := rejected[i].Line; n >= 1 && n <= len(rows) {
			rejected[i].Line = rows[n-1].Line
		}
	}

	return formatter.Success(createReport{Streams: resp.Msg.Streams, Rejected: rejected})
}
