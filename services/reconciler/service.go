package reconciler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	v1 "churchledger-backend/api/reconciler/v1"
	"churchledger-backend/api/reconciler/v1/reconcilerv1connect"
	"churchledger-backend/lib/rosterstore"
	"churchledger-backend/lib/telemetry"
	"churchledger-backend/lib/timezone"
	"churchledger-backend/services/reconcile"

	"connectrpc.com/connect"
	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = telemetry.Tracer("churchledger.services.reconciler")
	meter  = telemetry.Meter("churchledger.services.reconciler")
)

const defaultSearchLimit = 5

type Config struct {
	ReviewThreshold float64 `json:"review_threshold"`
	AcceptThreshold float64 `json:"accept_threshold"`
	// "ghanaian" or "generic"
	Culture     string `json:"culture"`
	Parallelism int    `json:"parallelism"`
}

func DefaultConfig() Config {
	return Config{
		ReviewThreshold: reconcile.DefaultReviewThreshold,
		AcceptThreshold: reconcile.DefaultAcceptThreshold,
		Culture:         "ghanaian",
	}
}

// ParseCulture resolves a culture name from configuration.
func ParseCulture(name string) (reconcile.Normalizer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "generic":
		return nil, nil
	case "ghanaian":
		return reconcile.Ghanaian{}, nil
	default:
		return nil, fmt.Errorf("unknown culture %q", name)
	}
}

type Service struct {
	store   rosterstore.Store
	config  Config
	culture reconcile.Normalizer
	results metric.Int64Counter
}

func NewService(database *sql.DB, config Config) (reconcilerv1connect.ReconcilerServiceClient, error) {
	culture, err := ParseCulture(config.Culture)
	if err != nil {
		return nil, err
	}
	results, err := meter.Int64Counter(
		"reconcile.results",
		metric.WithDescription("extracted names reconciled, by outcome"),
	)
	if err != nil {
		return nil, err
	}
	return reconcilerv1connect.NewInstrumentedReconcilerServiceClient(
		Service{
			store:   rosterstore.NewStore(database),
			config:  config,
			culture: culture,
			results: results,
		},
	), nil
}

func (s Service) options(snap rosterstore.Snapshot) reconcile.Options {
	return reconcile.Options{
		Aliases:         snap.Aliases,
		Positions:       snap.Positions,
		Culture:         s.culture,
		AcceptThreshold: s.config.AcceptThreshold,
		Parallelism:     s.config.Parallelism,
	}
}

func requireRoster(roster string) error {
	if strings.TrimSpace(roster) == "" {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("roster is required"))
	}
	return nil
}

// storeError maps store failures onto rpc codes.
func storeError(err error) error {
	switch {
	case errors.Is(err, rosterstore.ErrRosterNotFound), errors.Is(err, rosterstore.ErrMemberNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return err
	}
}

func (s Service) snapshot(ctx context.Context, roster string) (rosterstore.Snapshot, error) {
	ctx, span := tracer.Start(ctx, "snapshot")
	defer span.End()

	snap, err := s.store.Snapshot(ctx, roster)
	if err != nil {
		span.RecordError(err)
		return rosterstore.Snapshot{}, storeError(err)
	}
	span.SetAttributes(
		attribute.Int("members", len(snap.Members)),
		attribute.Int("aliases", len(snap.Aliases)),
	)
	return snap, nil
}

// danglingAliases reports aliases that point at members no longer on the
// roster, Reconcile ignores them.
func danglingAliases(ctx context.Context, roster string, snap rosterstore.Snapshot) {
	ids := make(map[string]struct{}, len(snap.Members))
	for _, m := range snap.Members {
		ids[strings.ToLower(m.ID)] = struct{}{}
	}
	for name, id := range snap.Aliases {
		if _, ok := ids[strings.ToLower(id)]; !ok {
			slog.DebugContext(ctx, "alias points at a missing member", "roster", roster, "alias", name, "member", id)
		}
	}
}

func serviceWeek() string {
	start, stop := timezone.GetCurrentWeek(timezone.Now())
	return fmt.Sprintf("%s/%s", start.Format("2006-01-02"), stop.Format("2006-01-02"))
}

func (s Service) Reconcile(ctx context.Context, req *connect.Request[v1.ReconcileRequest]) (*connect.Response[v1.ReconcileResponse], error) {
	err := requireRoster(req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	runID, err := random.String(12)
	if err != nil {
		return nil, err
	}

	ctx, span := tracer.Start(ctx, "reconcile")
	defer span.End()
	span.SetAttributes(
		attribute.String("run_id", runID),
		attribute.String("roster", req.Msg.Roster),
		attribute.Int("names", len(req.Msg.Names)),
	)

	snap, err := s.snapshot(ctx, req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	danglingAliases(ctx, req.Msg.Roster, snap)

	results := reconcile.Reconcile(req.Msg.Names, snap.Members, s.options(snap))

	err = reconcile.CheckUnique(results)
	if err != nil {
		span.RecordError(err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	threshold := req.Msg.ReviewThreshold
	if threshold <= 0 {
		threshold = s.config.ReviewThreshold
	}
	gate := reconcile.NewGate(threshold)
	summary := gate.Summarize(results)
	s.record(ctx, gate, results)

	slog.InfoContext(
		ctx, "reconciled names",
		"run_id", runID,
		"roster", req.Msg.Roster,
		"total", summary.Total,
		"matched", summary.Matched,
		"from_alias", summary.FromAlias,
		"unmatched", summary.Unmatched,
		"needs_review", summary.NeedsReview,
	)

	return &connect.Response[v1.ReconcileResponse]{
		Msg: &v1.ReconcileResponse{
			RunID:       runID,
			ServiceWeek: serviceWeek(),
			Results:     results,
			Summary:     summary,
			NeedsReview: gate.Review(results),
		},
	}, nil
}

func outcome(gate reconcile.Gate, r reconcile.MatchResult) string {
	switch {
	case r.MatchedMember == nil:
		return "unmatched"
	case r.IsFromAlias:
		return "alias"
	case gate.NeedsReview(r):
		return "review"
	default:
		return "matched"
	}
}

func (s Service) record(ctx context.Context, gate reconcile.Gate, results []reconcile.MatchResult) {
	for _, r := range results {
		s.results.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(gate, r))))
	}
}

func (s Service) Confirm(ctx context.Context, req *connect.Request[v1.ConfirmRequest]) (*connect.Response[v1.ConfirmResponse], error) {
	err := requireRoster(req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Msg.ExtractedName) == "" || strings.TrimSpace(req.Msg.MemberID) == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("extracted_name and member_id are required"))
	}

	err = s.store.Learn(ctx, req.Msg.Roster, req.Msg.ExtractedName, req.Msg.MemberID, req.Msg.Position)
	if err != nil {
		return nil, storeError(err)
	}
	return &connect.Response[v1.ConfirmResponse]{Msg: &v1.ConfirmResponse{}}, nil
}

func (s Service) Forget(ctx context.Context, req *connect.Request[v1.ForgetRequest]) (*connect.Response[v1.ForgetResponse], error) {
	err := requireRoster(req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	existed, err := s.store.Forget(ctx, req.Msg.Roster, req.Msg.ExtractedName)
	if err != nil {
		return nil, err
	}
	return &connect.Response[v1.ForgetResponse]{
		Msg: &v1.ForgetResponse{Existed: existed},
	}, nil
}

func (s Service) ListAliases(ctx context.Context, req *connect.Request[v1.ListAliasesRequest]) (*connect.Response[v1.ListAliasesResponse], error) {
	err := requireRoster(req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	aliases, err := s.store.ListAliases(ctx, req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	out := make([]v1.Alias, len(aliases))
	for i, a := range aliases {
		out[i] = v1.Alias{
			NoisyName: a.NoisyName,
			MemberID:  a.MemberID,
			LastSeen:  a.LastSeen,
		}
	}
	return &connect.Response[v1.ListAliasesResponse]{
		Msg: &v1.ListAliasesResponse{Aliases: out},
	}, nil
}

func (s Service) PutRoster(ctx context.Context, req *connect.Request[v1.PutRosterRequest]) (*connect.Response[v1.PutRosterResponse], error) {
	err := requireRoster(req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	err = s.store.PutRoster(ctx, req.Msg.Roster, req.Msg.Members)
	if err != nil {
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}
	return &connect.Response[v1.PutRosterResponse]{
		Msg: &v1.PutRosterResponse{MemberCount: len(req.Msg.Members)},
	}, nil
}

func (s Service) GetRoster(ctx context.Context, req *connect.Request[v1.GetRosterRequest]) (*connect.Response[v1.GetRosterResponse], error) {
	err := requireRoster(req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	members, err := s.store.Roster(ctx, req.Msg.Roster)
	if err != nil {
		return nil, storeError(err)
	}
	return &connect.Response[v1.GetRosterResponse]{
		Msg: &v1.GetRosterResponse{Members: members},
	}, nil
}

func (s Service) ListRosters(ctx context.Context, req *connect.Request[v1.ListRostersRequest]) (*connect.Response[v1.ListRostersResponse], error) {
	rosters, err := s.store.Rosters(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]v1.RosterInfo, len(rosters))
	for i, r := range rosters {
		out[i] = v1.RosterInfo{
			Name:        r.Name,
			UpdatedAt:   r.UpdatedAt,
			MemberCount: r.MemberCount,
		}
	}
	return &connect.Response[v1.ListRostersResponse]{
		Msg: &v1.ListRostersResponse{Rosters: out},
	}, nil
}

func (s Service) Search(ctx context.Context, req *connect.Request[v1.SearchRequest]) (*connect.Response[v1.SearchResponse], error) {
	err := requireRoster(req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshot(ctx, req.Msg.Roster)
	if err != nil {
		return nil, err
	}
	limit := req.Msg.Limit
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	candidates := reconcile.Search(req.Msg.Query, snap.Members, s.options(snap), limit)
	return &connect.Response[v1.SearchResponse]{
		Msg: &v1.SearchResponse{Candidates: candidates},
	}, nil
}
