package invalid

//gql:query
var Version = "1"
