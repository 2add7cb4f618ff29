package invalid

type Plain struct {
	Value string
}

//gql:query
func GetPlain() Plain {
	return Plain{}
}
