package invalid

//gql:query reset
func ResetQuery() bool {
	return false
}

//gql:mutation reset
func ResetMutation() bool {
	return false
}
