// Package reconcilerv1 holds the messages exchanged with the reconciler
// service. They are encoded as JSON on the wire.
package reconcilerv1

import (
	"time"

	"churchledger-backend/services/reconcile"
)

type ReconcileRequest struct {
	Roster string                    `json:"roster"`
	Names  []reconcile.ExtractedName `json:"names"`
	// zero uses the server's configured threshold
	ReviewThreshold float64 `json:"review_threshold,omitempty"`
}

type ReconcileResponse struct {
	RunID       string                  `json:"run_id"`
	ServiceWeek string                  `json:"service_week"`
	Results     []reconcile.MatchResult `json:"results"`
	Summary     reconcile.Summary       `json:"summary"`
	// indices into Results that a person should look at
	NeedsReview []int `json:"needs_review"`
}

type ConfirmRequest struct {
	Roster        string `json:"roster"`
	ExtractedName string `json:"extracted_name"`
	MemberID      string `json:"member_id"`
	Position      int    `json:"position,omitempty"`
}

type ConfirmResponse struct{}

type ForgetRequest struct {
	Roster        string `json:"roster"`
	ExtractedName string `json:"extracted_name"`
}

type ForgetResponse struct {
	Existed bool `json:"existed"`
}

type ListAliasesRequest struct {
	Roster string `json:"roster"`
}

type Alias struct {
	NoisyName string    `json:"noisy_name"`
	MemberID  string    `json:"member_id"`
	LastSeen  time.Time `json:"last_seen"`
}

type ListAliasesResponse struct {
	Aliases []Alias `json:"aliases"`
}

type PutRosterRequest struct {
	Roster  string             `json:"roster"`
	Members []reconcile.Member `json:"members"`
}

type PutRosterResponse struct {
	MemberCount int `json:"member_count"`
}

type GetRosterRequest struct {
	Roster string `json:"roster"`
}

type GetRosterResponse struct {
	Members []reconcile.Member `json:"members"`
}

type ListRostersRequest struct{}

type RosterInfo struct {
	Name        string    `json:"name"`
	UpdatedAt   time.Time `json:"updated_at"`
	MemberCount int       `json:"member_count"`
}

type ListRostersResponse struct {
	Rosters []RosterInfo `json:"rosters"`
}

type SearchRequest struct {
	Roster string `json:"roster"`
	Query  string `json:"query"`
	Limit  int    `json:"limit,omitempty"`
}

type SearchResponse struct {
	Candidates []reconcile.ScoredCandidate `json:"candidates"`
}
