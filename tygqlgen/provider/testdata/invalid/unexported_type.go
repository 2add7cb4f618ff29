package invalid

//gql:object
type hidden struct {
	//gql:field
	Value string
}

//gql:query
func Hidden() hidden {
	return hidden{}
}
