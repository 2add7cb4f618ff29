package invalid

type Service struct{}

//gql:query
func (Service) status() string {
	return ""
}
