package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const upsertRoster = `
insert into roster (name, updated_at) values (?, ?)
on conflict (name) do update set updated_at = excluded.updated_at
`

type UpsertRosterParams struct {
	Name      string
	UpdatedAt int64
}

func (q *Queries) UpsertRoster(ctx context.Context, arg UpsertRosterParams) error {
	_, err := q.db.ExecContext(ctx, upsertRoster, arg.Name, arg.UpdatedAt)
	return err
}

const getRoster = `select name, updated_at from roster where name = ?`

func (q *Queries) GetRoster(ctx context.Context, name string) (Roster, error) {
	row := q.db.QueryRowContext(ctx, getRoster, name)
	var r Roster
	err := row.Scan(&r.Name, &r.UpdatedAt)
	return r, err
}

const getRosters = `
select roster.name, roster.updated_at, count(member.id)
from roster
left join member on member.roster = roster.name
group by roster.name
order by roster.name
`

type GetRostersRow struct {
	Name        string
	UpdatedAt   int64
	MemberCount int64
}

func (q *Queries) GetRosters(ctx context.Context) ([]GetRostersRow, error) {
	rows, err := q.db.QueryContext(ctx, getRosters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []GetRostersRow
	for rows.Next() {
		var i GetRostersRow
		if err := rows.Scan(&i.Name, &i.UpdatedAt, &i.MemberCount); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteRoster = `delete from roster where name = ?`

func (q *Queries) DeleteRoster(ctx context.Context, name string) error {
	_, err := q.db.ExecContext(ctx, deleteRoster, name)
	return err
}

const deleteMembers = `delete from member where roster = ?`

func (q *Queries) DeleteMembers(ctx context.Context, roster string) error {
	_, err := q.db.ExecContext(ctx, deleteMembers, roster)
	return err
}

const createMember = `
insert into member (
    roster, id, ordinal, surname, first_name, other_names, known_position, attributes
) values (?, ?, ?, ?, ?, ?, ?, ?)
`

func (q *Queries) CreateMember(ctx context.Context, arg Member) error {
	_, err := q.db.ExecContext(
		ctx, createMember,
		arg.Roster,
		arg.ID,
		arg.Ordinal,
		arg.Surname,
		arg.FirstName,
		arg.OtherNames,
		arg.KnownPosition,
		arg.Attributes,
	)
	return err
}

const getMembers = `
select roster, id, ordinal, surname, first_name, other_names, known_position, attributes
from member where roster = ?
order by ordinal
`

func (q *Queries) GetMembers(ctx context.Context, roster string) ([]Member, error) {
	rows, err := q.db.QueryContext(ctx, getMembers, roster)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Member
	for rows.Next() {
		var i Member
		if err := rows.Scan(
			&i.Roster,
			&i.ID,
			&i.Ordinal,
			&i.Surname,
			&i.FirstName,
			&i.OtherNames,
			&i.KnownPosition,
			&i.Attributes,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const hasMember = `select count(*) from member where roster = ? and lower(id) = lower(?)`

type HasMemberParams struct {
	Roster string
	ID     string
}

func (q *Queries) HasMember(ctx context.Context, arg HasMemberParams) (bool, error) {
	row := q.db.QueryRowContext(ctx, hasMember, arg.Roster, arg.ID)
	var count int64
	err := row.Scan(&count)
	return count > 0, err
}

const upsertAlias = `
insert into alias (roster, noisy_name, member_id, last_seen) values (?, ?, ?, ?)
on conflict (roster, noisy_name) do update set
    member_id = excluded.member_id,
    last_seen = excluded.last_seen
`

func (q *Queries) UpsertAlias(ctx context.Context, arg Alias) error {
	_, err := q.db.ExecContext(ctx, upsertAlias, arg.Roster, arg.NoisyName, arg.MemberID, arg.LastSeen)
	return err
}

const getAliases = `
select roster, noisy_name, member_id, last_seen
from alias where roster = ?
order by noisy_name
`

func (q *Queries) GetAliases(ctx context.Context, roster string) ([]Alias, error) {
	rows, err := q.db.QueryContext(ctx, getAliases, roster)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Alias
	for rows.Next() {
		var i Alias
		if err := rows.Scan(&i.Roster, &i.NoisyName, &i.MemberID, &i.LastSeen); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteAlias = `delete from alias where roster = ? and noisy_name = ?`

type DeleteAliasParams struct {
	Roster    string
	NoisyName string
}

func (q *Queries) DeleteAlias(ctx context.Context, arg DeleteAliasParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAlias, arg.Roster, arg.NoisyName)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const deleteAliasesBefore = `delete from alias where roster = ? and last_seen < ?`

type DeleteAliasesBeforeParams struct {
	Roster   string
	LastSeen int64
}

func (q *Queries) DeleteAliasesBefore(ctx context.Context, arg DeleteAliasesBeforeParams) error {
	_, err := q.db.ExecContext(ctx, deleteAliasesBefore, arg.Roster, arg.LastSeen)
	return err
}

const deleteRosterAliases = `delete from alias where roster = ?`

func (q *Queries) DeleteRosterAliases(ctx context.Context, roster string) error {
	_, err := q.db.ExecContext(ctx, deleteRosterAliases, roster)
	return err
}

const upsertMemberPosition = `
insert into member_position (roster, member_id, position, last_seen) values (?, ?, ?, ?)
on conflict (roster, member_id) do update set
    position = excluded.position,
    last_seen = excluded.last_seen
`

func (q *Queries) UpsertMemberPosition(ctx context.Context, arg MemberPosition) error {
	_, err := q.db.ExecContext(ctx, upsertMemberPosition, arg.Roster, arg.MemberID, arg.Position, arg.LastSeen)
	return err
}

const getMemberPositions = `
select roster, member_id, position, last_seen
from member_position where roster = ?
order by member_id
`

func (q *Queries) GetMemberPositions(ctx context.Context, roster string) ([]MemberPosition, error) {
	rows, err := q.db.QueryContext(ctx, getMemberPositions, roster)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []MemberPosition
	for rows.Next() {
		var i MemberPosition
		if err := rows.Scan(&i.Roster, &i.MemberID, &i.Position, &i.LastSeen); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const deleteRosterPositions = `delete from member_position where roster = ?`

func (q *Queries) DeleteRosterPositions(ctx context.Context, roster string) error {
	_, err := q.db.ExecContext(ctx, deleteRosterPositions, roster)
	return err
}
