package invalid

//gql:object Query
type Viewer struct {
	//gql:field
	Name string
}

//gql:query
func Me() Viewer {
	return Viewer{}
}
