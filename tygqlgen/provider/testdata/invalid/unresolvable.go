package invalid

//gql:query
func Counts() map[string]int {
	return nil
}
