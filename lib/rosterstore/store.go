package rosterstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"churchledger-backend/lib/rosterstore/db"
	"churchledger-backend/lib/timezone"
	"churchledger-backend/services/reconcile"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

var (
	ErrRosterNotFound = errors.New("roster not found")
	ErrMemberNotFound = errors.New("member not found in roster")
)

// Store keeps rosters together with the aliases and positions people have
// confirmed for them.
type Store struct {
	db  *sql.DB
	qry *db.Queries
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:  database,
		qry: db.New(database),
	}
}

type RosterInfo struct {
	Name        string
	UpdatedAt   time.Time
	MemberCount int
}

type Alias struct {
	NoisyName string
	MemberID  string
	LastSeen  time.Time
}

// Snapshot is everything a reconciliation run needs from the store.
type Snapshot struct {
	Members   []reconcile.Member
	Aliases   reconcile.AliasMap
	Positions reconcile.PositionMap
}

func validateMembers(members []reconcile.Member) error {
	seen := make(map[string]struct{}, len(members))
	for i, m := range members {
		id := strings.TrimSpace(m.ID)
		if id == "" {
			return fmt.Errorf("member %d has no id", i)
		}
		key := strings.ToLower(id)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate member id %q", id)
		}
		seen[key] = struct{}{}
	}
	return nil
}

// PutRoster replaces the members of a roster, aliases and positions learned
// for it are kept.
func (s Store) PutRoster(ctx context.Context, name string, members []reconcile.Member) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("put roster: empty roster name")
	}
	err := validateMembers(members)
	if err != nil {
		return fmt.Errorf("put roster: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.UpsertRoster(ctx, db.UpsertRosterParams{
		Name:      name,
		UpdatedAt: timezone.Now().Unix(),
	})
	if err != nil {
		return err
	}
	err = txqry.DeleteMembers(ctx, name)
	if err != nil {
		return err
	}

	for i, m := range members {
		attributes := []byte("{}")
		if len(m.Attributes) > 0 {
			attributes, err = json.Marshal(m.Attributes)
			if err != nil {
				return err
			}
		}
		err = txqry.CreateMember(ctx, db.Member{
			Roster:        name,
			ID:            strings.TrimSpace(m.ID),
			Ordinal:       int64(i),
			Surname:       m.Surname,
			FirstName:     m.FirstName,
			OtherNames:    m.OtherNames,
			KnownPosition: int64(m.KnownPosition),
			Attributes:    string(attributes),
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (s Store) Roster(ctx context.Context, name string) ([]reconcile.Member, error) {
	_, err := s.qry.GetRoster(ctx, name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRosterNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.qry.GetMembers(ctx, name)
	if err != nil {
		return nil, err
	}

	members := make([]reconcile.Member, len(rows))
	for i, r := range rows {
		var attributes map[string]string
		if r.Attributes != "" && r.Attributes != "{}" {
			err = json.Unmarshal([]byte(r.Attributes), &attributes)
			if err != nil {
				slog.WarnContext(ctx, "failed to decode member attributes", "roster", name, "member", r.ID, "err", err)
			}
		}
		members[i] = reconcile.Member{
			ID:            r.ID,
			Surname:       r.Surname,
			FirstName:     r.FirstName,
			OtherNames:    r.OtherNames,
			KnownPosition: int(r.KnownPosition),
			Attributes:    attributes,
		}
	}
	return members, nil
}

func (s Store) Rosters(ctx context.Context) ([]RosterInfo, error) {
	rows, err := s.qry.GetRosters(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RosterInfo, len(rows))
	for i, r := range rows {
		out[i] = RosterInfo{
			Name:        r.Name,
			UpdatedAt:   time.Unix(r.UpdatedAt, 0).In(timezone.Location),
			MemberCount: int(r.MemberCount),
		}
	}
	return out, nil
}

// DeleteRoster removes the roster and everything learned about it.
func (s Store) DeleteRoster(ctx context.Context, name string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for _, del := range []func(context.Context, string) error{
		txqry.DeleteMembers,
		txqry.DeleteRosterAliases,
		txqry.DeleteRosterPositions,
		txqry.DeleteRoster,
	} {
		err = del(ctx, name)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Learn remembers that noisyName refers to memberID. position is the row
// the name was confirmed on, zero when unknown.
func (s Store) Learn(ctx context.Context, roster, noisyName, memberID string, position int) error {
	key := reconcile.NormalizeAlias(noisyName)
	if key == "" {
		return fmt.Errorf("learn alias: empty name")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	exists, err := txqry.HasMember(ctx, db.HasMemberParams{Roster: roster, ID: memberID})
	if err != nil {
		return err
	}
	if !exists {
		return ErrMemberNotFound
	}

	now := timezone.Now().Unix()
	err = txqry.UpsertAlias(ctx, db.Alias{
		Roster:    roster,
		NoisyName: key,
		MemberID:  memberID,
		LastSeen:  now,
	})
	if err != nil {
		return err
	}

	if position > 0 {
		err = txqry.UpsertMemberPosition(ctx, db.MemberPosition{
			Roster:   roster,
			MemberID: memberID,
			Position: int64(position),
			LastSeen: now,
		})
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// Forget drops a learned alias, it reports whether one existed.
func (s Store) Forget(ctx context.Context, roster, noisyName string) (bool, error) {
	affected, err := s.qry.DeleteAlias(ctx, db.DeleteAliasParams{
		Roster:    roster,
		NoisyName: reconcile.NormalizeAlias(noisyName),
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (s Store) ListAliases(ctx context.Context, roster string) ([]Alias, error) {
	rows, err := s.qry.GetAliases(ctx, roster)
	if err != nil {
		return nil, err
	}
	out := make([]Alias, len(rows))
	for i, r := range rows {
		out[i] = Alias{
			NoisyName: r.NoisyName,
			MemberID:  r.MemberID,
			LastSeen:  time.Unix(r.LastSeen, 0).In(timezone.Location),
		}
	}
	return out, nil
}

func (s Store) Aliases(ctx context.Context, roster string) (reconcile.AliasMap, error) {
	rows, err := s.qry.GetAliases(ctx, roster)
	if err != nil {
		return nil, err
	}
	out := make(reconcile.AliasMap, len(rows))
	for _, r := range rows {
		out[r.NoisyName] = r.MemberID
	}
	return out, nil
}

// PruneAliases forgets every alias of the roster not confirmed since before.
func (s Store) PruneAliases(ctx context.Context, roster string, before time.Time) error {
	return s.qry.DeleteAliasesBefore(ctx, db.DeleteAliasesBeforeParams{
		Roster:   roster,
		LastSeen: before.Unix(),
	})
}

func (s Store) Positions(ctx context.Context, roster string) (reconcile.PositionMap, error) {
	rows, err := s.qry.GetMemberPositions(ctx, roster)
	if err != nil {
		return nil, err
	}
	out := make(reconcile.PositionMap, len(rows))
	for _, r := range rows {
		out[strings.ToLower(r.MemberID)] = int(r.Position)
	}
	return out, nil
}

func (s Store) Snapshot(ctx context.Context, roster string) (Snapshot, error) {
	members, err := s.Roster(ctx, roster)
	if err != nil {
		return Snapshot{}, err
	}
	aliases, err := s.Aliases(ctx, roster)
	if err != nil {
		return Snapshot{}, err
	}
	positions, err := s.Positions(ctx, roster)
	if err != nil {
		return Snapshot{}, err
	}
	return Snapshot{
		Members:   members,
		Aliases:   aliases,
		Positions: positions,
	}, nil
}
