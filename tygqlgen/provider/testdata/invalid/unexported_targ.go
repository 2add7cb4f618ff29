package invalid

type secret struct{}

//gql:object
type Box[T any] struct {
	//gql:field
	Size int
}

//gql:query
func Open() Box[secret] {
	return Box[secret]{}
}
