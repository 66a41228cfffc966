package reconciler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	v1 "churchledger-backend/api/reconciler/v1"
	"churchledger-backend/api/reconciler/v1/reconcilerv1connect"
	"churchledger-backend/lib/rosterstore/db"
	"churchledger-backend/lib/serviceutil"
	"churchledger-backend/lib/testutil"
	"churchledger-backend/services/reconcile"

	"connectrpc.com/connect"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
)

const testToken = "test-token"

var testMembers = []reconcile.Member{
	{ID: "TAC001", Surname: "Mensah", FirstName: "Kofi", OtherNames: "Agyeman"},
	{ID: "TAC002", Surname: "Owusu", FirstName: "Ama"},
	{ID: "TAC003", Surname: "Asante", FirstName: "Kwame", OtherNames: "Nkrumah"},
}

func setup(t *testing.T) (reconcilerv1connect.ReconcilerServiceClient, string, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "reconciler",
		DbSchema: db.Schema,
	})

	service, err := NewService(res.DB, DefaultConfig())
	require.NoError(t, err)

	mux := http.NewServeMux()
	mux.Handle(reconcilerv1connect.NewReconcilerServiceHandler(
		service,
		connect.WithInterceptors(serviceutil.VerifyAccessTokenInterceptor(testToken)),
	))
	server := httptest.NewServer(mux)

	client := reconcilerv1connect.NewReconcilerServiceClient(
		server.Client(),
		server.URL,
		connect.WithInterceptors(serviceutil.ProvideAccessTokenInterceptor(testToken)),
	)
	return client, server.URL, func() {
		server.Close()
		cleanup()
	}
}

func putTestRoster(t *testing.T, client reconcilerv1connect.ReconcilerServiceClient, roster string) {
	res, err := client.PutRoster(context.Background(), connect.NewRequest(&v1.PutRosterRequest{
		Roster:  roster,
		Members: testMembers,
	}))
	require.NoError(t, err)
	require.Equal(t, len(testMembers), res.Msg.MemberCount)
}

func matchedID(r reconcile.MatchResult) string {
	if r.MatchedMember == nil {
		return ""
	}
	return r.MatchedMember.ID
}

func TestAccessToken(t *testing.T) {
	_, baseURL, cleanup := setup(t)
	defer cleanup()

	anonymous := reconcilerv1connect.NewReconcilerServiceClient(http.DefaultClient, baseURL)
	_, err := anonymous.ListRosters(context.Background(), connect.NewRequest(&v1.ListRostersRequest{}))
	require.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
}

func TestRosterLifecycle(t *testing.T) {
	client, _, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := client.GetRoster(ctx, connect.NewRequest(&v1.GetRosterRequest{Roster: "accra"}))
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	putTestRoster(t, client, "accra")

	got, err := client.GetRoster(ctx, connect.NewRequest(&v1.GetRosterRequest{Roster: "accra"}))
	require.NoError(t, err)
	diff := cmp.Diff(testMembers, got.Msg.Members, cmpopts.EquateEmpty())
	if diff != "" {
		t.Fatal(diff)
	}

	rosters, err := client.ListRosters(ctx, connect.NewRequest(&v1.ListRostersRequest{}))
	require.NoError(t, err)
	require.Len(t, rosters.Msg.Rosters, 1)
	require.Equal(t, "accra", rosters.Msg.Rosters[0].Name)
	require.Equal(t, 3, rosters.Msg.Rosters[0].MemberCount)

	_, err = client.PutRoster(ctx, connect.NewRequest(&v1.PutRosterRequest{
		Roster:  "accra",
		Members: []reconcile.Member{{ID: "X"}, {ID: "x"}},
	}))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestReconcile(t *testing.T) {
	client, _, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()

	_, err := client.Reconcile(ctx, connect.NewRequest(&v1.ReconcileRequest{}))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	_, err = client.Reconcile(ctx, connect.NewRequest(&v1.ReconcileRequest{Roster: "nowhere"}))
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	putTestRoster(t, client, "accra")

	res, err := client.Reconcile(ctx, connect.NewRequest(&v1.ReconcileRequest{
		Roster: "accra",
		Names: []reconcile.ExtractedName{
			{Name: "Mensah Kofi Agyeman", Position: 1},
			{Name: "Owusu Ama", Position: 2},
			{Name: "Elizabeth Windsor", Position: 3},
		},
	}))
	require.NoError(t, err)
	require.Len(t, res.Msg.RunID, 12)
	require.NotEmpty(t, res.Msg.ServiceWeek)

	results := res.Msg.Results
	require.Len(t, results, 3)
	require.Equal(t, "TAC001", matchedID(results[0]))
	require.Equal(t, "TAC002", matchedID(results[1]))
	require.Equal(t, "", matchedID(results[2]))
	require.Equal(t, "Elizabeth Windsor", results[2].ExtractedName)

	require.Equal(t, reconcile.Summary{
		Total:       3,
		Matched:     2,
		Unmatched:   1,
		NeedsReview: 1,
	}, res.Msg.Summary)
	require.Equal(t, []int{2}, res.Msg.NeedsReview)

	// a threshold above every score sends everything to review
	res, err = client.Reconcile(ctx, connect.NewRequest(&v1.ReconcileRequest{
		Roster:          "accra",
		Names:           []reconcile.ExtractedName{{Name: "Owusu Ama", Position: 1}},
		ReviewThreshold: 0.99,
	}))
	require.NoError(t, err)
	require.Equal(t, []int{0}, res.Msg.NeedsReview)
}

func TestConfirmAndForget(t *testing.T) {
	client, _, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()
	putTestRoster(t, client, "kumasi")

	_, err := client.Confirm(ctx, connect.NewRequest(&v1.ConfirmRequest{
		Roster:        "kumasi",
		ExtractedName: "Menssh K0fi",
		MemberID:      "TAC404",
	}))
	require.Equal(t, connect.CodeNotFound, connect.CodeOf(err))

	_, err = client.Confirm(ctx, connect.NewRequest(&v1.ConfirmRequest{Roster: "kumasi"}))
	require.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

	_, err = client.Confirm(ctx, connect.NewRequest(&v1.ConfirmRequest{
		Roster:        "kumasi",
		ExtractedName: "Menssh K0fi",
		MemberID:      "TAC001",
		Position:      1,
	}))
	require.NoError(t, err)

	res, err := client.Reconcile(ctx, connect.NewRequest(&v1.ReconcileRequest{
		Roster: "kumasi",
		Names:  []reconcile.ExtractedName{{Name: "menssh  k0fi", Position: 1}},
	}))
	require.NoError(t, err)
	result := res.Msg.Results[0]
	require.Equal(t, "TAC001", matchedID(result))
	require.True(t, result.IsFromAlias)
	require.Equal(t, reconcile.AliasConfidence, result.Confidence)
	require.Equal(t, 1, res.Msg.Summary.FromAlias)

	aliases, err := client.ListAliases(ctx, connect.NewRequest(&v1.ListAliasesRequest{Roster: "kumasi"}))
	require.NoError(t, err)
	require.Len(t, aliases.Msg.Aliases, 1)
	require.Equal(t, "menssh k0fi", aliases.Msg.Aliases[0].NoisyName)
	require.Equal(t, "TAC001", aliases.Msg.Aliases[0].MemberID)

	forgot, err := client.Forget(ctx, connect.NewRequest(&v1.ForgetRequest{
		Roster:        "kumasi",
		ExtractedName: "Menssh K0fi",
	}))
	require.NoError(t, err)
	require.True(t, forgot.Msg.Existed)

	forgot, err = client.Forget(ctx, connect.NewRequest(&v1.ForgetRequest{
		Roster:        "kumasi",
		ExtractedName: "Menssh K0fi",
	}))
	require.NoError(t, err)
	require.False(t, forgot.Msg.Existed)
}

func TestSearch(t *testing.T) {
	client, _, cleanup := setup(t)
	defer cleanup()
	ctx := context.Background()
	putTestRoster(t, client, "tema")

	res, err := client.Search(ctx, connect.NewRequest(&v1.SearchRequest{
		Roster: "tema",
		Query:  "Asante Kwame",
		Limit:  2,
	}))
	require.NoError(t, err)
	require.Len(t, res.Msg.Candidates, 2)
	require.Equal(t, "TAC003", res.Msg.Candidates[0].Member.ID)
	require.GreaterOrEqual(t, res.Msg.Candidates[0].Score, res.Msg.Candidates[1].Score)

	res, err = client.Search(ctx, connect.NewRequest(&v1.SearchRequest{Roster: "tema", Query: "Owusu"}))
	require.NoError(t, err)
	require.Len(t, res.Msg.Candidates, 3)
	require.Equal(t, "TAC002", res.Msg.Candidates[0].Member.ID)
}

func TestParseCulture(t *testing.T) {
	culture, err := ParseCulture("Ghanaian")
	require.NoError(t, err)
	require.Equal(t, reconcile.Ghanaian{}, culture)

	culture, err = ParseCulture("")
	require.NoError(t, err)
	require.Nil(t, culture)

	_, err = ParseCulture("klingon")
	require.Error(t, err)
}
