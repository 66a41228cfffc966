package db

type Roster struct {
	Name      string
	UpdatedAt int64
}

type Member struct {
	Roster        string
	ID            string
	Ordinal       int64
	Surname       string
	FirstName     string
	OtherNames    string
	KnownPosition int64
	Attributes    string
}

type Alias struct {
	Roster    string
	NoisyName string
	MemberID  string
	LastSeen  int64
}

type MemberPosition struct {
	Roster   string
	MemberID string
	Position int64
	LastSeen int64
}
