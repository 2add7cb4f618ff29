package invalid

//gql:object Thing
type Widget struct {
	//gql:field
	Name string
}

//gql:object Thing
type Gadget struct {
	//gql:field
	Name string
}

//gql:query
func Widgets() []Widget {
	return nil
}

//gql:query
func Gadgets() []Gadget {
	return nil
}
