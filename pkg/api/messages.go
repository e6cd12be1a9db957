// Package api defines the wire messages and Connect bindings of the vesting
// service. Amounts travel as base-10 strings in the token's smallest unit
// because JSON numbers can't hold them. Instants are Unix seconds.
package api

// Row is one untyped stream row as entered in a form or a sheet.
type Row struct {
	WalletAddress string `json:"wallet_address"`
	Amount        string `json:"amount"`
	Duration      string `json:"duration"`
	Cliff         string `json:"cliff,omitempty"`
}

// Stream is a stream together with its schedule at ObservedAt.
type Stream struct {
	StreamID        string  `json:"stream_id"`
	Recipient       string  `json:"recipient"`
	TotalAmount     string  `json:"total_amount"`
	ClaimedAmount   string  `json:"claimed_amount"`
	StartTime       int64   `json:"start_time"`
	DurationSeconds int64   `json:"duration_seconds"`
	CliffSeconds    int64   `json:"cliff_seconds"`
	CliffEnd        int64   `json:"cliff_end"`
	VestingEnd      int64   `json:"vesting_end"`
	VestedFraction  float64 `json:"vested_fraction"`
	VestedAmount    string  `json:"vested_amount"`
	ClaimableAmount string  `json:"claimable_amount"`
}

// RejectedRow reports why a row was not accepted.
type RejectedRow struct {
	Line    int    `json:"line"`
	Row     Row    `json:"row"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type CreateStreamRequest struct {
	Row Row `json:"row"`
}

type CreateStreamResponse struct {
	Stream *Stream `json:"stream"`
}

type CreateBatchRequest struct {
	Rows []Row `json:"rows"`
}

// CreateBatchResponse lists the committed streams in input order and every
// rejected row.
type CreateBatchResponse struct {
	Streams  []*Stream     `json:"streams"`
	Rejected []RejectedRow `json:"rejected,omitempty"`
}

type GetStreamRequest struct {
	StreamID string `json:"stream_id"`
}

type GetStreamResponse struct {
	Stream     *Stream `json:"stream"`
	ObservedAt int64   `json:"observed_at"`
}

// ListStreamsRequest lists every stream, or one recipient's streams.
type ListStreamsRequest struct {
	Recipient string `json:"recipient,omitempty"`
}

type ListStreamsResponse struct {
	Streams    []*Stream `json:"streams"`
	ObservedAt int64     `json:"observed_at"`
}

type ClaimRequest struct {
	StreamID string `json:"stream_id"`
	Amount   string `json:"amount"`
}

type ClaimResponse struct {
	StreamID        string `json:"stream_id"`
	AmountClaimed   string `json:"amount_claimed"`
	ClaimedTotal    string `json:"claimed_total"`
	ClaimableAmount string `json:"claimable_amount"`
	ObservedAt      int64  `json:"observed_at"`
}

type GetSummaryRequest struct {
	Recipient string `json:"recipient,omitempty"`
}

// Balance aggregates streams for one recipient (or all of them).
type Balance struct {
	Recipient string `json:"recipient,omitempty"`
	Streams   int    `json:"streams"`
	Total     string `json:"total"`
	Vested    string `json:"vested"`
	Locked    string `json:"locked"`
	Claimed   string `json:"claimed"`
	Claimable string `json:"claimable"`
}

type GetSummaryResponse struct {
	Recipients []Balance `json:"recipients"`
	Overall    Balance   `json:"overall"`
	ObservedAt int64     `json:"observed_at"`
}
