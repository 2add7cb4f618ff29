package invalid

//gql:input
type Options struct {
	//gql:field
	Verbose bool
}

func NewOptions() Options {
	return Options{}
}

//gql:query
func Configure(opts Options) bool {
	return false
}
