package invalid

//gql:query
func Sum(values ...int) int {
	return 0
}
