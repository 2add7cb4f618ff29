package invalid

//gql:query locations
func AllLocations() []string {
	return nil
}

//gql:query locations
func NearbyLocations() []string {
	return nil
}
