package invalid

//gql:query scalar=Int
func Flag() bool {
	return false
}
