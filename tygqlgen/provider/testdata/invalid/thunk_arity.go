package invalid

//gql:query
func Pair() func() (string, int) {
	return nil
}
