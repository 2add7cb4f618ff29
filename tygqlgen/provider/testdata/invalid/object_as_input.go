package invalid

//gql:object
type Profile struct {
	//gql:field
	Name string
}

//gql:mutation
func SaveProfile(p Profile) bool {
	return false
}
