package invalid

//gql:input
type Query struct {
	//gql:field
	Text string
}

func (q Query) Normalize() string {
	return q.Text
}

//gql:query
func Lookup(q Query) string {
	return ""
}
