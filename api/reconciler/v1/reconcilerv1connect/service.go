package reconcilerv1connect

import (
	"context"
	"net/http"
	"strings"

	v1 "churchledger-backend/api/reconciler/v1"

	connect "connectrpc.com/connect"
)

const ReconcilerServiceName = "churchledger.reconciler.v1.ReconcilerService"

const (
	ReconcilerServiceReconcileProcedure   = "/churchledger.reconciler.v1.ReconcilerService/Reconcile"
	ReconcilerServiceConfirmProcedure     = "/churchledger.reconciler.v1.ReconcilerService/Confirm"
	ReconcilerServiceForgetProcedure      = "/churchledger.reconciler.v1.ReconcilerService/Forget"
	ReconcilerServiceListAliasesProcedure = "/churchledger.reconciler.v1.ReconcilerService/ListAliases"
	ReconcilerServicePutRosterProcedure   = "/churchledger.reconciler.v1.ReconcilerService/PutRoster"
	ReconcilerServiceGetRosterProcedure   = "/churchledger.reconciler.v1.ReconcilerService/GetRoster"
	ReconcilerServiceListRostersProcedure = "/churchledger.reconciler.v1.ReconcilerService/ListRosters"
	ReconcilerServiceSearchProcedure      = "/churchledger.reconciler.v1.ReconcilerService/Search"
)

// ReconcilerServiceClient is implemented by both the service itself and
// the network client, so either can sit behind the instrumented wrapper.
type ReconcilerServiceClient interface {
	Reconcile(context.Context, *connect.Request[v1.ReconcileRequest]) (*connect.Response[v1.ReconcileResponse], error)
	Confirm(context.Context, *connect.Request[v1.ConfirmRequest]) (*connect.Response[v1.ConfirmResponse], error)
	Forget(context.Context, *connect.Request[v1.ForgetRequest]) (*connect.Response[v1.ForgetResponse], error)
	ListAliases(context.Context, *connect.Request[v1.ListAliasesRequest]) (*connect.Response[v1.ListAliasesResponse], error)
	PutRoster(context.Context, *connect.Request[v1.PutRosterRequest]) (*connect.Response[v1.PutRosterResponse], error)
	GetRoster(context.Context, *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error)
	ListRosters(context.Context, *connect.Request[v1.ListRostersRequest]) (*connect.Response[v1.ListRostersResponse], error)
	Search(context.Context, *connect.Request[v1.SearchRequest]) (*connect.Response[v1.SearchResponse], error)
}

type reconcilerServiceClient struct {
	reconcile   *connect.Client[v1.ReconcileRequest, v1.ReconcileResponse]
	confirm     *connect.Client[v1.ConfirmRequest, v1.ConfirmResponse]
	forget      *connect.Client[v1.ForgetRequest, v1.ForgetResponse]
	listAliases *connect.Client[v1.ListAliasesRequest, v1.ListAliasesResponse]
	putRoster   *connect.Client[v1.PutRosterRequest, v1.PutRosterResponse]
	getRoster   *connect.Client[v1.GetRosterRequest, v1.GetRosterResponse]
	listRosters *connect.Client[v1.ListRostersRequest, v1.ListRostersResponse]
	search      *connect.Client[v1.SearchRequest, v1.SearchResponse]
}

// NewReconcilerServiceClient talks to a reconciler at baseURL, for example
// http://localhost:8222.
func NewReconcilerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ReconcilerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(jsonCodec{})}, opts...)
	return &reconcilerServiceClient{
		reconcile:   connect.NewClient[v1.ReconcileRequest, v1.ReconcileResponse](httpClient, baseURL+ReconcilerServiceReconcileProcedure, opts...),
		confirm:     connect.NewClient[v1.ConfirmRequest, v1.ConfirmResponse](httpClient, baseURL+ReconcilerServiceConfirmProcedure, opts...),
		forget:      connect.NewClient[v1.ForgetRequest, v1.ForgetResponse](httpClient, baseURL+ReconcilerServiceForgetProcedure, opts...),
		listAliases: connect.NewClient[v1.ListAliasesRequest, v1.ListAliasesResponse](httpClient, baseURL+ReconcilerServiceListAliasesProcedure, opts...),
		putRoster:   connect.NewClient[v1.PutRosterRequest, v1.PutRosterResponse](httpClient, baseURL+ReconcilerServicePutRosterProcedure, opts...),
		getRoster:   connect.NewClient[v1.GetRosterRequest, v1.GetRosterResponse](httpClient, baseURL+ReconcilerServiceGetRosterProcedure, opts...),
		listRosters: connect.NewClient[v1.ListRostersRequest, v1.ListRostersResponse](httpClient, baseURL+ReconcilerServiceListRostersProcedure, opts...),
		search:      connect.NewClient[v1.SearchRequest, v1.SearchResponse](httpClient, baseURL+ReconcilerServiceSearchProcedure, opts...),
	}
}

func (c *reconcilerServiceClient) Reconcile(ctx context.Context, req *connect.Request[v1.ReconcileRequest]) (*connect.Response[v1.ReconcileResponse], error) {
	return c.reconcile.CallUnary(ctx, req)
}

func (c *reconcilerServiceClient) Confirm(ctx context.Context, req *connect.Request[v1.ConfirmRequest]) (*connect.Response[v1.ConfirmResponse], error) {
	return c.confirm.CallUnary(ctx, req)
}

func (c *reconcilerServiceClient) Forget(ctx context.Context, req *connect.Request[v1.ForgetRequest]) (*connect.Response[v1.ForgetResponse], error) {
	return c.forget.CallUnary(ctx, req)
}

func (c *reconcilerServiceClient) ListAliases(ctx context.Context, req *connect.Request[v1.ListAliasesRequest]) (*connect.Response[v1.ListAliasesResponse], error) {
	return c.listAliases.CallUnary(ctx, req)
}

func (c *reconcilerServiceClient) PutRoster(ctx context.Context, req *connect.Request[v1.PutRosterRequest]) (*connect.Response[v1.PutRosterResponse], error) {
	return c.putRoster.CallUnary(ctx, req)
}

func (c *reconcilerServiceClient) GetRoster(ctx context.Context, req *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error) {
	return c.getRoster.CallUnary(ctx, req)
}

func (c *reconcilerServiceClient) ListRosters(ctx context.Context, req *connect.Request[v1.ListRostersRequest]) (*connect.Response[v1.ListRostersResponse], error) {
	return c.listRosters.CallUnary(ctx, req)
}

func (c *reconcilerServiceClient) Search(ctx context.Context, req *connect.Request[v1.SearchRequest]) (*connect.Response[v1.SearchResponse], error) {
	return c.search.CallUnary(ctx, req)
}

// NewReconcilerServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewReconcilerServiceHandler(svc ReconcilerServiceClient, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)

	mux := http.NewServeMux()
	mux.Handle(ReconcilerServiceReconcileProcedure, connect.NewUnaryHandler(ReconcilerServiceReconcileProcedure, svc.Reconcile, opts...))
	mux.Handle(ReconcilerServiceConfirmProcedure, connect.NewUnaryHandler(ReconcilerServiceConfirmProcedure, svc.Confirm, opts...))
	mux.Handle(ReconcilerServiceForgetProcedure, connect.NewUnaryHandler(ReconcilerServiceForgetProcedure, svc.Forget, opts...))
	mux.Handle(ReconcilerServiceListAliasesProcedure, connect.NewUnaryHandler(ReconcilerServiceListAliasesProcedure, svc.ListAliases, opts...))
	mux.Handle(ReconcilerServicePutRosterProcedure, connect.NewUnaryHandler(ReconcilerServicePutRosterProcedure, svc.PutRoster, opts...))
	mux.Handle(ReconcilerServiceGetRosterProcedure, connect.NewUnaryHandler(ReconcilerServiceGetRosterProcedure, svc.GetRoster, opts...))
	mux.Handle(ReconcilerServiceListRostersProcedure, connect.NewUnaryHandler(ReconcilerServiceListRostersProcedure, svc.ListRosters, opts...))
	mux.Handle(ReconcilerServiceSearchProcedure, connect.NewUnaryHandler(ReconcilerServiceSearchProcedure, svc.Search, opts...))
	return "/" + ReconcilerServiceName + "/", mux
}
