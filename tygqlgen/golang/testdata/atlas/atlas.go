// Package atlas is an annotated API whose generated schema is compiled and
// executed by the emitter tests.
package atlas

import (
	"context"
	"strings"
	"time"

	"github.com/broady/tygql"
)

// Country is a sovereign state.
//
//gql:object
type Country struct {
	// Nick carries the json name of the schema field below.
	Nick string `json:"name"`

	//gql:field
	Name string

	//gql:field capital
	CapitalCity string

	//gql:field
	Cities []City

	//gql:field
	Population func() int
}

// City returns the city called name.
//
//gql:field
func (c Country) City(ctx context.Context, name string) (*City, error) {
	for i := range c.Cities {
		if c.Cities[i].Name == name {
			return &c.Cities[i], nil
		}
	}
	return nil, tygql.Errorf(tygql.CodeNotFound, "no city %s in %s", name, c.Name)
}

//gql:object
type City struct {
	name string

	//gql:field
	Name string

	//gql:field
	Founded time.Time
}

//gql:field
func (c City) Greeting(greeting string, excited *bool) string {
	s := greeting + ", " + c.Name
	if excited != nil && *excited {
		s += "!"
	}
	return s
}

// Slug is derived from the unexported name.
//
//gql:field
func (c City) Slug() string {
	return c.name
}

// Filter selects countries.
//
//gql:input CountryFilter
type Filter struct {
	//gql:field
	Prefix string

	//gql:field
	Limit *int
}

var countries = []Country{
	{
		Nick:        "nor",
		Name:        "Norway",
		CapitalCity: "Oslo",
		Cities: []City{
			{name: "oslo", Name: "Oslo", Founded: time.Date(1040, 1, 1, 0, 0, 0, 0, time.UTC)},
			{name: "bergen", Name: "Bergen", Founded: time.Date(1070, 1, 1, 0, 0, 0, 0, time.UTC)},
		},
		Population: func() int { return 5_500_000 },
	},
	{
		Nick:        "nz",
		Name:        "New Zealand",
		CapitalCity: "Wellington",
		Cities: []City{
			{name: "wellington", Name: "Wellington", Founded: time.Date(1840, 1, 22, 0, 0, 0, 0, time.UTC)},
		},
		Population: func() int { return 5_100_000 },
	},
	{
		Nick:        "pe",
		Name:        "Peru",
		CapitalCity: "Lima",
		Population:  func() int { return 34_000_000 },
	},
}

// Countries lists the countries whose name starts with the filter prefix.
//
//gql:query
func Countries(filter Filter) []Country {
	var out []Country
	for _, c := range countries {
		if filter.Limit != nil && len(out) >= *filter.Limit {
			break
		}
		if strings.HasPrefix(c.Name, filter.Prefix) {
			out = append(out, c)
		}
	}
	return out
}

//gql:mutation
func Shout(text string) string {
	return strings.ToUpper(text)
}
