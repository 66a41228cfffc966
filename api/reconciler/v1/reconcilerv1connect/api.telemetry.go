package reconcilerv1connect

import (
	"context"
	"encoding/json"

	v1 "churchledger-backend/api/reconciler/v1"

	connect "connectrpc.com/connect"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type TracerLike interface {
	Start(ctx context.Context, spanName string, opts ...trace.SpanStartOption) (context.Context, trace.Span)
}

var (
	ReconcilerServiceTracer TracerLike = otel.Tracer("churchledger.reconciler.v1.ReconcilerService")
)

type InstrumentedReconcilerServiceClient struct {
	inner           ReconcilerServiceClient
	WithInputOutput bool
}

func NewInstrumentedReconcilerServiceClient(inner ReconcilerServiceClient) InstrumentedReconcilerServiceClient {
	return InstrumentedReconcilerServiceClient{inner: inner}
}

func recordMessage(span trace.Span, key string, msg any) {
	serialized, err := json.Marshal(msg)
	if err != nil {
		span.SetAttributes(attribute.String(key, "ERROR: FAILED TO SERIALIZE"))
		span.RecordError(err)
		return
	}
	span.SetAttributes(attribute.String(key, string(serialized)))
}

func instrumented[Req, Res any](
	ctx context.Context,
	name string,
	withInputOutput bool,
	req *connect.Request[Req],
	call func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error),
) (*connect.Response[Res], error) {
	ctx, span := ReconcilerServiceTracer.Start(ctx, name)
	defer span.End()

	if span.IsRecording() && withInputOutput {
		recordMessage(span, "input", req.Msg)
	}

	res, err := call(ctx, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	if span.IsRecording() && withInputOutput {
		recordMessage(span, "output", res.Msg)
	}

	return res, nil
}

func (c InstrumentedReconcilerServiceClient) Reconcile(ctx context.Context, req *connect.Request[v1.ReconcileRequest]) (*connect.Response[v1.ReconcileResponse], error) {
	return instrumented(ctx, "Reconcile", c.WithInputOutput, req, c.inner.Reconcile)
}

func (c InstrumentedReconcilerServiceClient) Confirm(ctx context.Context, req *connect.Request[v1.ConfirmRequest]) (*connect.Response[v1.ConfirmResponse], error) {
	return instrumented(ctx, "Confirm", c.WithInputOutput, req, c.inner.Confirm)
}

func (c InstrumentedReconcilerServiceClient) Forget(ctx context.Context, req *connect.Request[v1.ForgetRequest]) (*connect.Response[v1.ForgetResponse], error) {
	return instrumented(ctx, "Forget", c.WithInputOutput, req, c.inner.Forget)
}

func (c InstrumentedReconcilerServiceClient) ListAliases(ctx context.Context, req *connect.Request[v1.ListAliasesRequest]) (*connect.Response[v1.ListAliasesResponse], error) {
	return instrumented(ctx, "ListAliases", c.WithInputOutput, req, c.inner.ListAliases)
}

func (c InstrumentedReconcilerServiceClient) PutRoster(ctx context.Context, req *connect.Request[v1.PutRosterRequest]) (*connect.Response[v1.PutRosterResponse], error) {
	return instrumented(ctx, "PutRoster", c.WithInputOutput, req, c.inner.PutRoster)
}

func (c InstrumentedReconcilerServiceClient) GetRoster(ctx context.Context, req *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error) {
	return instrumented(ctx, "GetRoster", c.WithInputOutput, req, c.inner.GetRoster)
}

func (c InstrumentedReconcilerServiceClient) ListRosters(ctx context.Context, req *connect.Request[v1.ListRostersRequest]) (*connect.Response[v1.ListRostersResponse], error) {
	return instrumented(ctx, "ListRosters", c.WithInputOutput, req, c.inner.ListRosters)
}

func (c InstrumentedReconcilerServiceClient) Search(ctx context.Context, req *connect.Request[v1.SearchRequest]) (*connect.Response[v1.SearchResponse], error) {
	return instrumented(ctx, "Search", c.WithInputOutput, req, c.inner.Search)
}
