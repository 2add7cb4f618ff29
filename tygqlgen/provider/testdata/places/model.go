package places

import (
	"context"
	"time"
)

// Location is a named place.
//
//gql:object
type Location struct {
	//gql:field
	ID string

	// Name is the display name.
	//
	//gql:field
	Name string

	//gql:field lat
	Latitude float64

	//gql:field
	Population *int

	//gql:field
	Tags []string

	//gql:field
	Founded time.Time

	//gql:field scalar=Date
	Updated int64

	//gql:field
	Children []*Location

	Notes  string
	secret string
}

// Parent returns the enclosing location.
//
//gql:field
func (l Location) Parent(ctx context.Context) (*Location, error) {
	return nil, nil
}

//gql:field
//gql:arg depth scalar=Int
func (l *Location) Neighbors(depth float64) func() []Location {
	return func() []Location { return nil }
}

//gql:field
func (l Location) Region() *func() *Region {
	return nil
}

// Describe has no directive and is not part of the schema.
func (l Location) Describe() string {
	return l.Name + l.secret
}

// Region groups locations.
//
//gql:object
type Region struct {
	//gql:field
	Locations []Location

	//gql:field
	Capital *Location
}

// Page is one page of results.
//
//gql:object
type Page[T any] struct {
	//gql:field
	Items []T

	//gql:field
	Total int
}

// Filter narrows a search.
//
//gql:input LocationFilter
type Filter struct {
	//gql:field
	Prefix string

	//gql:field
	Limit *int

	//gql:field since scalar=Date
	Since *string

	//gql:field
	Within []Bounds
}

//gql:input
type Bounds struct {
	//gql:field
	North float64

	//gql:field
	South float64
}
