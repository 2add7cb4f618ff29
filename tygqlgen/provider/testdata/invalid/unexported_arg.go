package invalid

type status string

//gql:query
func Count(s status) int {
	return 0
}
