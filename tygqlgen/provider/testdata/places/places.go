// Package places is an annotated API used by provider tests.
package places

import "context"

// Locations lists every known location.
//
//gql:query
func Locations() []Location {
	return nil
}

//gql:query location
func Find(ctx context.Context, id string) (*Location, error) {
	return nil, nil
}

//gql:query
func Search(filter Filter) Page[Location] {
	return Page[Location]{}
}

//gql:query
func Nickname() func() *string {
	return nil
}

//gql:query
func Motto() *func() string {
	return nil
}

//gql:query
//gql:arg id scalar=ID
func Count(id int) int {
	return 0
}

// Rename changes the name of a location.
//
//gql:mutation
func Rename(id string, radius *float64) (bool, error) {
	return false, nil
}

//gql:mutation
//gql:arg at scalar=Date
func Touch(ctx context.Context, id string, at int64) (*Location, error) {
	return nil, nil
}
