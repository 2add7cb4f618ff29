package invalid

//gql:query "bad name"
func BadName() string {
	return ""
}
