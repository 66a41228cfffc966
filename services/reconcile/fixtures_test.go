package reconcile

var testRoster = []Member{
	{ID: "TAC001", Surname: "Mensah", FirstName: "Kofi", OtherNames: "Agyeman"},
	{ID: "TAC002", Surname: "Owusu", FirstName: "Ama"},
	{ID: "TAC003", Surname: "Asante", FirstName: "Kwame", OtherNames: "Nkrumah"},
}

func ghanaian() Options {
	return Options{Culture: Ghanaian{}}
}

func matchedID(r MatchResult) string {
	if r.MatchedMember == nil {
		return ""
	}
	return r.MatchedMember.ID
}
