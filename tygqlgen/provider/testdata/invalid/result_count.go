package invalid

//gql:query
func Both() (string, int) {
	return "", 0
}
