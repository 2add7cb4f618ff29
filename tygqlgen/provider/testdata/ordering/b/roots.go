package ordering

//gql:object
type Unused struct {
	//gql:field
	Value string
}

//gql:object
type Country struct {
	//gql:field
	Code string
}

//gql:query
func Cities() []City {
	return nil
}

//gql:object
type City struct {
	//gql:field
	Name string

	//gql:field
	Country Country
}
