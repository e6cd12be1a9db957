package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmynk/vesting/internal/batch"
	"github.com/mmynk/vesting/internal/ingest"
	"github.com/mmynk/vesting/internal/models"
)

// ValidateOptions holds flags for the validate command.
type ValidateOptions struct {
	*RootOptions
	Decimals int32
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "validate <file.csv>",
		Short: "Check a batch sheet without creating streams",
		Long: `Check every row of a batch sheet against the stream rules.

The sheet needs a header row with wallet_address, amount and duration
columns; cliff is optional. Exits 1 if any row is rejected.

Example:
  vestctl validate grants.csv --decimals 6`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(opts, args[0], cmd)
		},
	}

	cmd.Flags().Int32Var(&opts.Decimals, "decimals", batch.DefaultDecimals, "token decimal places")

	return cmd
}

// acceptedRow is one row that would become a stream.
type acceptedRow struct {
	StreamID        string `json:"stream_id"`
	Recipient       string `json:"recipient"`
	TotalAmount     string `json:"total_amount"`
	DurationSeconds int64  `json:"duration_seconds"`
	CliffSeconds    int64  `json:"cliff_seconds"`
}

type rejectedRow struct {
	Line    int    `json:"line"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type validateReport struct {
	File     string        `json:"file"`
	Accepted []acceptedRow `json:"accepted"`
	Rejected []rejectedRow `json:"rejected"`
}

func (r validateReport) String() string {
	var b strings.Builder
	if len(r.Rejected) == 0 {
		fmt.Fprintf(&b, "✓ %d row(s) valid in %s", len(r.Accepted), r.File)
		return b.String()
	}

	fmt.Fprintf(&b, "✗ %d of %d row(s) rejected in %s\n\n", len(r.Rejected), len(r.Accepted)+len(r.Rejected), r.File)
	for _, rej := range r.Rejected {
		fmt.Fprintf(&b, "line %d\n  %s: %s\n\n", rej.Line, rej.Kind, rej.Message)
	}
	fmt.Fprintf(&b, "%d row(s) valid", len(r.Accepted))
	return b.String()
}

func runValidate(opts *ValidateOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	if opts.Decimals < 0 || opts.Decimals > 36 {
		return NewExitError(ExitCommandError, fmt.Sprintf("--decimals %d out of range 0..36", opts.Decimals))
	}

	rows, err := readSheet(formatter, path)
	if err != nil {
		return err
	}

	validator := batch.NewValidator(batch.WithDecimals(opts.Decimals))
	result, batchErr := validator.ValidateBatch(rows)

	report := validateReport{
		File:     path,
		Accepted: make([]acceptedRow, len(result.Accepted)),
		Rejected: make([]rejectedRow, len(result.Rejected)),
	}
	for i, def := range result.Accepted {
		report.Accepted[i] = acceptedRow{
			StreamID:        def.ID,
			Recipient:       def.Recipient,
			TotalAmount:     def.TotalAmount.String(),
			DurationSeconds: def.DurationSeconds,
			CliffSeconds:    def.CliffSeconds,
		}
		formatter.VerboseLog("accepted %s %s over %ds", def.Recipient, batch.FormatAmount(def.TotalAmount, opts.Decimals), def.DurationSeconds)
	}
	for i, rej := range result.Rejected {
		report.Rejected[i] = rejectedRow{Line: rej.Row.Line, Kind: string(rej.Kind()), Message: rej.Err.Error()}
	}

	// A batch with no accepted row fails as a whole, even with no rows at all.
	if errors.Is(batchErr, models.ErrEmptyBatch) {
		var details interface{}
		if formatter.Format == "json" {
			details = report
		} else if len(report.Rejected) > 0 {
			fmt.Fprintln(formatter.Writer, report)
		}
		if err := formatter.Error(string(models.KindEmptyBatch), batchErr.Error(), details); err != nil {
			return err
		}
		return WrapExitError(ExitFailure, "no row accepted", batchErr)
	}

	if len(report.Rejected) == 0 {
		return formatter.Success(report)
	}

	if formatter.Format == "json" {
		if err := formatter.Error(string(report.Rejected[0].Kind), report.Rejected[0].Message, report); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(formatter.Writer, report)
	}
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d rejected row(s)", len(report.Rejected)))
}

// readSheet loads a CSV batch sheet; any failure is a command error.
func readSheet(formatter *OutputFormatter, path string) ([]models.RawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		_ = formatter.Error("NOT_FOUND", fmt.Sprintf("sheet not found: %s", path), nil)
		return nil, WrapExitError(ExitCommandError, "failed to open sheet", err)
	}
	defer f.Close()

	rows, err := ingest.ReadCSV(f)
	if err != nil {
		_ = formatter.Error("BAD_SHEET", err.Error(), nil)
		return nil, WrapExitError(ExitCommandError, "failed to read sheet", err)
	}
	formatter.VerboseLog("read %d row(s) from %s", len(rows), path)
	return rows, nil
}
