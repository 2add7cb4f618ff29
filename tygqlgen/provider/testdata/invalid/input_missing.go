package invalid

//gql:input
type Draft struct {
	//gql:field
	Title string

	Body string
}

//gql:mutation
func Publish(draft Draft) bool {
	return false
}
