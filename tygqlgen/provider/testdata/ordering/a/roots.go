package ordering

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

//gql:object
type Country struct {
	//gql:field
	Code string
}

//gql:object
type Unused struct {
	//gql:field
	Value string
}
