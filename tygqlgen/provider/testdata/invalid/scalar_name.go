package invalid

//gql:object Date
type Calendar struct {
	//gql:field
	Year int
}

//gql:query
func Today() Calendar {
	return Calendar{}
}
