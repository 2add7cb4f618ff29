package invalid

//gql:query scalar=String
func Code() int {
	return 0
}
