package invalid

//gql:object
type Account struct {
	//gql:field
	balance int
}

//gql:query
func CurrentAccount() Account {
	return Account{balance: 1}
}
