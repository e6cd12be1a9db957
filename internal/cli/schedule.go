package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/vesting/internal/batch"
	"github.com/mmynk/vesting/internal/calculator"
	"github.com/mmynk/vesting/internal/models"
)

// previewRecipient stands in for a real address when previewing a schedule.
const previewRecipient = "0x0000000000000000000000000000000000000000"

// ScheduleOptions holds flags for the schedule command.
type ScheduleOptions struct {
	*RootOptions
	Amount   string
	Duration string
	Cliff    string
	Claimed  string
	Start    string
	At       string
	Decimals int32
}

// NewScheduleCommand creates the schedule command.
func NewScheduleCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ScheduleOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Preview a stream's schedule at an instant",
		Long: `Evaluate a hypothetical stream without a server.

Amounts are whole tokens scaled by --decimals. Instants are RFC 3339 and
default to now.

Example:
  vestctl schedule --amount 1000 --duration 1yr --cliff 3mon --start 2026-01-01T00:00:00Z --at 2026-07-01T00:00:00Z`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchedule(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Amount, "amount", "", "total amount in whole tokens")
	cmd.Flags().StringVar(&opts.Duration, "duration", "", "vesting duration, e.g. 6mon")
	cmd.Flags().StringVar(&opts.Cliff, "cliff", "", "cliff, e.g. 30d (default none)")
	cmd.Flags().StringVar(&opts.Claimed, "claimed", "0", "already claimed, in whole tokens")
	cmd.Flags().StringVar(&opts.Start, "start", "", "stream start (RFC 3339, default now)")
	cmd.Flags().StringVar(&opts.At, "at", "", "observation instant (RFC 3339, default now)")
	cmd.Flags().Int32Var(&opts.Decimals, "decimals", batch.DefaultDecimals, "token decimal places")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("duration")

	return cmd
}

type scheduleView struct {
	TotalAmount     string  `json:"total_amount"`
	Start           string  `json:"start"`
	At              string  `json:"at"`
	CliffEnd        string  `json:"cliff_end"`
	VestingEnd      string  `json:"vesting_end"`
	VestedFraction  float64 `json:"vested_fraction"`
	VestedAmount    string  `json:"vested_amount"`
	ClaimableAmount string  `json:"claimable_amount"`
}

func (v scheduleView) String() string {
	return fmt.Sprintf("vested     %s of %s (%s)\nclaimable  %s\ncliff ends %s\nfully vested %s",
		v.VestedAmount, v.TotalAmount, percent(v.VestedFraction), v.ClaimableAmount, v.CliffEnd, v.VestingEnd)
}

func runSchedule(opts *ScheduleOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	now := opts.clock().Now()

	start, err := parseInstant("--start", opts.Start, now)
	if err != nil {
		return err
	}
	at, err := parseInstant("--at", opts.At, now)
	if err != nil {
		return err
	}

	validator := batch.NewValidator(batch.WithDecimals(opts.Decimals))
	def, err := validator.ValidateRow(models.RawRow{
		WalletAddress: previewRecipient,
		Amount:        opts.Amount,
		Duration:      opts.Duration,
		Cliff:         opts.Cliff,
	})
	if err != nil {
		if outErr := formatter.Error(string(models.KindOf(err)), err.Error(), nil); outErr != nil {
			return outErr
		}
		return WrapExitError(ExitFailure, "invalid stream", err)
	}

	stream := models.NewStream(def, start)
	if opts.Claimed != "" && opts.Claimed != "0" {
		claimed, err := batch.ParseAmount(opts.Claimed, opts.Decimals)
		if err != nil {
			return WrapExitError(ExitCommandError, "invalid --claimed", err)
		}
		if claimed.Cmp(stream.TotalAmount) > 0 {
			return NewExitError(ExitCommandError, "--claimed exceeds --amount")
		}
		stream.ClaimedAmount = claimed
	}

	sched := calculator.Evaluate(stream, at)
	formatter.VerboseLog("elapsed %ds of %ds", calculator.ElapsedSeconds(start, at), stream.DurationSeconds)

	return formatter.Success(scheduleView{
		TotalAmount:     batch.FormatAmount(stream.TotalAmount, opts.Decimals),
		Start:           start.UTC().Format(time.RFC3339),
		At:              at.UTC().Format(time.RFC3339),
		CliffEnd:        calculator.CliffEnd(stream).UTC().Format(time.RFC3339),
		VestingEnd:      calculator.VestingEnd(stream).UTC().Format(time.RFC3339),
		VestedFraction:  sched.VestedFraction,
		VestedAmount:    batch.FormatAmount(sched.VestedAmount, opts.Decimals),
		ClaimableAmount: batch.FormatAmount(sched.ClaimableAmount, opts.Decimals),
	})
}

func parseInstant(flag, value string, fallback time.Time) (time.Time, error) {
	if value == "" {
		return fallback, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, WrapExitError(ExitCommandError, "invalid "+flag, err)
	}
	return t, nil
}

// NewDurationCommand creates the duration command.
func NewDurationCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "duration <spec>",
		Short: "Convert a duration spec to seconds",
		Long: `Convert a duration spec to seconds.

Units: min (60s), d (86400s), mon (30 days), yr (365 days).

Example:
  vestctl duration 6mon`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)
			seconds, err := calculator.ParseDuration(args[0])
			if err != nil {
				if outErr := formatter.Error(string(models.KindOf(err)), err.Error(), nil); outErr != nil {
					return outErr
				}
				return WrapExitError(ExitFailure, "invalid duration", err)
			}
			return formatter.Success(durationView{Spec: args[0], Seconds: seconds})
		},
	}
	return cmd
}

type durationView struct {
	Spec    string `json:"spec"`
	Seconds int64  `json:"seconds"`
}

func (v durationView) String() string {
	return fmt.Sprintf("%s = %s seconds", v.Spec, grouped(v.Seconds))
}
