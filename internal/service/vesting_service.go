package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/zoobzio/clockz"

	"github.com/mmynk/vesting/internal/batch"
	"github.com/mmynk/vesting/internal/calculator"
	"github.com/mmynk/vesting/internal/claims"
	"github.com/mmynk/vesting/internal/ledger"
	"github.com/mmynk/vesting/internal/metrics"
	"github.com/mmynk/vesting/internal/models"
	"github.com/mmynk/vesting/pkg/api"
)

// Ensure VestingService implements the Connect handler interface
var _ api.VestingServiceHandler = (*VestingService)(nil)

// VestingService implements the Connect VestingService.
// It is the only place that reads a clock: every evaluation uses the
// service clock's current instant as the observation time.
type VestingService struct {
	ledger    *ledger.Ledger
	claims    *claims.Processor
	validator *batch.Validator
	clock     clockz.Clock
	metrics   *metrics.Metrics
}

// Option configures a VestingService.
type Option func(*VestingService)

// WithClock sets the clock that supplies observation instants.
func WithClock(clock clockz.Clock) Option {
	return func(s *VestingService) {
		s.clock = clock
	}
}

// WithValidator replaces the default row validator.
func WithValidator(v *batch.Validator) Option {
	return func(s *VestingService) {
		s.validator = v
	}
}

// WithMetrics records batch and claim outcomes in m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *VestingService) {
		s.metrics = m
	}
}

// NewVestingService creates a new VestingService backed by the given ledger.
func NewVestingService(l *ledger.Ledger, opts ...Option) *VestingService {
	s := &VestingService{
		ledger:    l,
		claims:    claims.NewProcessor(l),
		validator: batch.NewValidator(),
		clock:     clockz.RealClock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateStream validates a single row and commits it as a stream.
func (s *VestingService) CreateStream(ctx context.Context, req *connect.Request[api.CreateStreamRequest]) (*connect.Response[api.CreateStreamResponse], error) {
	row := toRawRow(req.Msg.Row, 1)
	result, err := s.validator.ValidateBatch([]models.RawRow{row})
	if err != nil {
		s.recordRejections(result.Rejected)
		s.recordBatch("empty")
		if len(result.Rejected) == 1 {
			err = result.Rejected[0].Err
		}
		slog.Error("CreateStream validation failed", "error", err)
		return nil, connect.NewError(connectCode(err), err)
	}

	now := s.clock.Now()
	stream, err := s.ledger.Create(ctx, result.Accepted[0], now)
	if err != nil {
		s.recordBatch("error")
		slog.Error("CreateStream failed", "error", err)
		return nil, connect.NewError(connectCode(err), err)
	}
	s.recordBatch("ok")
	s.recordCreated(1)

	slog.Info("Stream created", "stream_id", stream.ID, "recipient", stream.Recipient)
	return connect.NewResponse(&api.CreateStreamResponse{Stream: toAPIStream(stream, now)}), nil
}

// CreateBatch validates every row, commits the accepted ones in input order,
// and reports the rejected ones.
func (s *VestingService) CreateBatch(ctx context.Context, req *connect.Request[api.CreateBatchRequest]) (*connect.Response[api.CreateBatchResponse], error) {
	rows := make([]models.RawRow, len(req.Msg.Rows))
	for i, row := range req.Msg.Rows {
		rows[i] = toRawRow(row, i+1)
	}

	result, err := s.validator.ValidateBatch(rows)
	s.recordRejections(result.Rejected)
	if err != nil {
		s.recordBatch("empty")
		slog.Error("CreateBatch validation failed", "rows", len(rows), "error", err)
		return nil, connect.NewError(connectCode(err),
			fmt.Errorf("%w: %s", err, describeRejections(result.Rejected)))
	}

	now := s.clock.Now()
	streams, err := s.ledger.CreateBatch(ctx, result.Accepted, now)
	s.recordCreated(len(streams))
	if err != nil {
		s.recordBatch("error")
		slog.Error("CreateBatch failed", "committed", len(streams), "error", err)
		return nil, connect.NewError(connectCode(err), err)
	}
	s.recordBatch("ok")

	resp := &api.CreateBatchResponse{Streams: make([]*api.Stream, len(streams))}
	for i, stream := range streams {
		resp.Streams[i] = toAPIStream(stream, now)
	}
	for _, rej := range result.Rejected {
		resp.Rejected = append(resp.Rejected, toAPIRejection(rej))
	}

	slog.Info("Batch committed", "accepted", len(resp.Streams), "rejected", len(resp.Rejected))
	return connect.NewResponse(resp), nil
}

// GetStream returns one stream and its schedule at the current instant.
func (s *VestingService) GetStream(ctx context.Context, req *connect.Request[api.GetStreamRequest]) (*connect.Response[api.GetStreamResponse], error) {
	if req.Msg.StreamID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("stream_id required"))
	}

	stream, err := s.ledger.Get(ctx, req.Msg.StreamID)
	if err != nil {
		slog.Error("GetStream failed", "stream_id", req.Msg.StreamID, "error", err)
		return nil, connect.NewError(connectCode(err), err)
	}

	now := s.clock.Now()
	return connect.NewResponse(&api.GetStreamResponse{
		Stream:     toAPIStream(stream, now),
		ObservedAt: now.Unix(),
	}), nil
}

// ListStreams returns every stream, or one recipient's streams, with their
// schedules at the current instant.
func (s *VestingService) ListStreams(ctx context.Context, req *connect.Request[api.ListStreamsRequest]) (*connect.Response[api.ListStreamsResponse], error) {
	streams, err := s.ledger.List(ctx, models.StreamFilter{Recipient: req.Msg.Recipient})
	if err != nil {
		slog.Error("ListStreams failed", "recipient", req.Msg.Recipient, "error", err)
		return nil, connect.NewError(connectCode(err), err)
	}

	now := s.clock.Now()
	resp := &api.ListStreamsResponse{
		Streams:    make([]*api.Stream, len(streams)),
		ObservedAt: now.Unix(),
	}
	for i, stream := range streams {
		resp.Streams[i] = toAPIStream(stream, now)
	}
	return connect.NewResponse(resp), nil
}

// Claim releases an amount from a stream at the current instant.
func (s *VestingService) Claim(ctx context.Context, req *connect.Request[api.ClaimRequest]) (*connect.Response[api.ClaimResponse], error) {
	amount, ok := new(big.Int).SetString(req.Msg.Amount, 10)
	if !ok {
		err := fmt.Errorf("%w: %q", models.ErrInvalidClaimAmount, req.Msg.Amount)
		s.recordClaim(err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	now := s.clock.Now()
	result, err := s.claims.Claim(ctx, models.ClaimRequest{
		StreamID:   req.Msg.StreamID,
		Amount:     amount,
		ObservedAt: now,
	})
	s.recordClaim(err)
	if err != nil {
		slog.Error("Claim failed", "stream_id", req.Msg.StreamID, "amount", req.Msg.Amount, "error", err)
		return nil, connect.NewError(connectCode(err), err)
	}

	resp := &api.ClaimResponse{
		StreamID:        result.StreamID,
		AmountClaimed:   result.AmountClaimed.String(),
		ClaimedTotal:    result.ClaimedTotal.String(),
		ClaimableAmount: result.ClaimableAmount.String(),
		ObservedAt:      now.Unix(),
	}

	slog.Info("Claim applied", "stream_id", result.StreamID, "amount", resp.AmountClaimed, "claimed_total", resp.ClaimedTotal)
	return connect.NewResponse(resp), nil
}

// GetSummary aggregates streams per recipient at the current instant.
func (s *VestingService) GetSummary(ctx context.Context, req *connect.Request[api.GetSummaryRequest]) (*connect.Response[api.GetSummaryResponse], error) {
	streams, err := s.ledger.List(ctx, models.StreamFilter{Recipient: req.Msg.Recipient})
	if err != nil {
		slog.Error("GetSummary failed", "error", err)
		return nil, connect.NewError(connectCode(err), err)
	}

	now := s.clock.Now()
	summary := calculator.Summarize(streams, now)

	resp := &api.GetSummaryResponse{
		Recipients: make([]api.Balance, len(summary.Recipients)),
		Overall:    toAPIBalance(summary.Overall),
		ObservedAt: now.Unix(),
	}
	for i, bal := range summary.Recipients {
		resp.Recipients[i] = toAPIBalance(bal)
	}
	return connect.NewResponse(resp), nil
}

// connectCode maps the vesting error taxonomy onto Connect codes.
func connectCode(err error) connect.Code {
	switch models.KindOf(err) {
	case models.KindInvalidDurationFormat, models.KindInvalidAddress, models.KindInvalidAmount,
		models.KindInvalidDuration, models.KindInvalidCliff, models.KindCliffExceedsDuration,
		models.KindEmptyBatch, models.KindInvalidClaimAmount:
		return connect.CodeInvalidArgument
	case models.KindStreamNotFound:
		return connect.CodeNotFound
	case models.KindDuplicateStreamID:
		return connect.CodeAlreadyExists
	case models.KindExceedsClaimable, models.KindInsufficientVested:
		return connect.CodeFailedPrecondition
	}
	switch {
	case errors.Is(err, context.Canceled):
		return connect.CodeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return connect.CodeDeadlineExceeded
	}
	return connect.CodeInternal
}

func toRawRow(row api.Row, line int) models.RawRow {
	return models.RawRow{
		Line:          line,
		WalletAddress: row.WalletAddress,
		Amount:        row.Amount,
		Duration:      row.Duration,
		Cliff:         row.Cliff,
	}
}

func toAPIStream(stream *models.Stream, now time.Time) *api.Stream {
	sched := calculator.Evaluate(stream, now)
	return &api.Stream{
		StreamID:        stream.ID,
		Recipient:       stream.Recipient,
		TotalAmount:     stream.TotalAmount.String(),
		ClaimedAmount:   stream.ClaimedAmount.String(),
		StartTime:       stream.StartTime.Unix(),
		DurationSeconds: stream.DurationSeconds,
		CliffSeconds:    stream.CliffSeconds,
		CliffEnd:        calculator.CliffEnd(stream).Unix(),
		VestingEnd:      calculator.VestingEnd(stream).Unix(),
		VestedFraction:  sched.VestedFraction,
		VestedAmount:    sched.VestedAmount.String(),
		ClaimableAmount: sched.ClaimableAmount.String(),
	}
}

func toAPIRejection(rej batch.Rejection) api.RejectedRow {
	return api.RejectedRow{
		Line: rej.Row.Line,
		Row: api.Row{
			WalletAddress: rej.Row.WalletAddress,
			Amount:        rej.Row.Amount,
			Duration:      rej.Row.Duration,
			Cliff:         rej.Row.Cliff,
		},
		Kind:    string(rej.Kind()),
		Message: rej.Err.Error(),
	}
}

func toAPIBalance(bal calculator.RecipientBalance) api.Balance {
	return api.Balance{
		Recipient: bal.Recipient,
		Streams:   bal.Streams,
		Total:     bal.Total.String(),
		Vested:    bal.Vested.String(),
		Locked:    bal.Locked().String(),
		Claimed:   bal.Claimed.String(),
		Claimable: bal.Claimable.String(),
	}
}

// describeRejections renders rejections as "row 1: INVALID_AMOUNT (...); row 2: ...".
func describeRejections(rejected []batch.Rejection) string {
	if len(rejected) == 0 {
		return "no rows"
	}
	parts := make([]string, len(rejected))
	for i, rej := range rejected {
		parts[i] = fmt.Sprintf("row %d: %s (%v)", rej.Row.Line, rej.Kind(), rej.Err)
	}
	return strings.Join(parts, "; ")
}

func (s *VestingService) recordBatch(result string) {
	if s.metrics != nil {
		s.metrics.BatchesTotal.WithLabelValues(result).Inc()
	}
}

func (s *VestingService) recordCreated(n int) {
	if s.metrics != nil && n > 0 {
		s.metrics.StreamsCreatedTotal.Add(float64(n))
	}
}

func (s *VestingService) recordRejections(rejected []batch.Rejection) {
	if s.metrics == nil {
		return
	}
	for _, rej := range rejected {
		s.metrics.RowsRejectedTotal.WithLabelValues(string(rej.Kind())).Inc()
	}
}

func (s *VestingService) recordClaim(err error) {
	if s.metrics == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = string(models.KindOf(err))
	}
	s.metrics.ClaimsTotal.WithLabelValues(result).Inc()
}
