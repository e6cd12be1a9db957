package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

// ServiceName is the fully-qualified name of the vesting service.
const ServiceName = "vesting.v1.VestingService"

// Procedure paths, one per RPC.
const (
	CreateStreamProcedure = "/" + ServiceName + "/CreateStream"
	CreateBatchProcedure  = "/" + ServiceName + "/CreateBatch"
	GetStreamProcedure    = "/" + ServiceName + "/GetStream"
	ListStreamsProcedure  = "/" + ServiceName + "/ListStreams"
	ClaimProcedure        = "/" + ServiceName + "/Claim"
	GetSummaryProcedure   = "/" + ServiceName + "/GetSummary"
)

// VestingServiceHandler is implemented by the server.
type VestingServiceHandler interface {
	CreateStream(context.Context, *connect.Request[CreateStreamRequest]) (*connect.Response[CreateStreamResponse], error)
	CreateBatch(context.Context, *connect.Request[CreateBatchRequest]) (*connect.Response[CreateBatchResponse], error)
	GetStream(context.Context, *connect.Request[GetStreamRequest]) (*connect.Response[GetStreamResponse], error)
	ListStreams(context.Context, *connect.Request[ListStreamsRequest]) (*connect.Response[ListStreamsResponse], error)
	Claim(context.Context, *connect.Request[ClaimRequest]) (*connect.Response[ClaimResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
}

// NewVestingServiceHandler builds an HTTP handler for svc and returns the path
// to mount it on.
func NewVestingServiceHandler(svc VestingServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)

	createStream := connect.NewUnaryHandler(CreateStreamProcedure, svc.CreateStream, opts...)
	createBatch := connect.NewUnaryHandler(CreateBatchProcedure, svc.CreateBatch, opts...)
	getStream := connect.NewUnaryHandler(GetStreamProcedure, svc.GetStream, opts...)
	listStreams := connect.NewUnaryHandler(ListStreamsProcedure, svc.ListStreams, opts...)
	claim := connect.NewUnaryHandler(ClaimProcedure, svc.Claim, opts...)
	getSummary := connect.NewUnaryHandler(GetSummaryProcedure, svc.GetSummary, opts...)

	return "/" + ServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case CreateStreamProcedure:
			createStream.ServeHTTP(w, r)
		case CreateBatchProcedure:
			createBatch.ServeHTTP(w, r)
		case GetStreamProcedure:
			getStream.ServeHTTP(w, r)
		case ListStreamsProcedure:
			listStreams.ServeHTTP(w, r)
		case ClaimProcedure:
			claim.ServeHTTP(w, r)
		case GetSummaryProcedure:
			getSummary.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// VestingServiceClient calls a remote vesting service.
type VestingServiceClient interface {
	CreateStream(context.Context, *connect.Request[CreateStreamRequest]) (*connect.Response[CreateStreamResponse], error)
	CreateBatch(context.Context, *connect.Request[CreateBatchRequest]) (*connect.Response[CreateBatchResponse], error)
	GetStream(context.Context, *connect.Request[GetStreamRequest]) (*connect.Response[GetStreamResponse], error)
	ListStreams(context.Context, *connect.Request[ListStreamsRequest]) (*connect.Response[ListStreamsResponse], error)
	Claim(context.Context, *connect.Request[ClaimRequest]) (*connect.Response[ClaimResponse], error)
	GetSummary(context.Context, *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error)
}

// NewVestingServiceClient creates a client for the service at baseURL
// (e.g. "http://localhost:8080").
func NewVestingServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) VestingServiceClient {
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &vestingServiceClient{
		createStream: connect.NewClient[CreateStreamRequest, CreateStreamResponse](httpClient, baseURL+CreateStreamProcedure, opts...),
		createBatch:  connect.NewClient[CreateBatchRequest, CreateBatchResponse](httpClient, baseURL+CreateBatchProcedure, opts...),
		getStream:    connect.NewClient[GetStreamRequest, GetStreamResponse](httpClient, baseURL+GetStreamProcedure, opts...),
		listStreams:  connect.NewClient[ListStreamsRequest, ListStreamsResponse](httpClient, baseURL+ListStreamsProcedure, opts...),
		claim:        connect.NewClient[ClaimRequest, ClaimResponse](httpClient, baseURL+ClaimProcedure, opts...),
		getSummary:   connect.NewClient[GetSummaryRequest, GetSummaryResponse](httpClient, baseURL+GetSummaryProcedure, opts...),
	}
}

type vestingServiceClient struct {
	createStream *connect.Client[CreateStreamRequest, CreateStreamResponse]
	createBatch  *connect.Client[CreateBatchRequest, CreateBatchResponse]
	getStream    *connect.Client[GetStreamRequest, GetStreamResponse]
	listStreams  *connect.Client[ListStreamsRequest, ListStreamsResponse]
	claim        *connect.Client[ClaimRequest, ClaimResponse]
	getSummary   *connect.Client[GetSummaryRequest, GetSummaryResponse]
}

func (c *vestingServiceClient) CreateStream(ctx context.Context, req *connect.Request[CreateStreamRequest]) (*connect.Response[CreateStreamResponse], error) {
	return c.createStream.CallUnary(ctx, req)
}

func (c *vestingServiceClient) CreateBatch(ctx context.Context, req *connect.Request[CreateBatchRequest]) (*connect.Response[CreateBatchResponse], error) {
	return c.createBatch.CallUnary(ctx, req)
}

func (c *vestingServiceClient) GetStream(ctx context.Context, req *connect.Request[GetStreamRequest]) (*connect.Response[GetStreamResponse], error) {
	return c.getStream.CallUnary(ctx, req)
}

func (c *vestingServiceClient) ListStreams(ctx context.Context, req *connect.Request[ListStreamsRequest]) (*connect.Response[ListStreamsResponse], error) {
	return c.listStreams.CallUnary(ctx, req)
}

func (c *vestingServiceClient) Claim(ctx context.Context, req *connect.Request[ClaimRequest]) (*connect.Response[ClaimResponse], error) {
	return c.claim.CallUnary(ctx, req)
}

func (c *vestingServiceClient) GetSummary(ctx context.Context, req *connect.Request[GetSummaryRequest]) (*connect.Response[GetSummaryResponse], error) {
	return c.getSummary.CallUnary(ctx, req)
}
