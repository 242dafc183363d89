package pgtask

// A Query describes what to run: plain SQL text, a named prepared
// statement, or a database function call. Construct with Text,
// Prepared or FuncCall.
type Query interface {
	queryNode()
}

// Text is a plain SQL query. Values are interpolated by the Formatter
// unless NativeFormatting routes them to the driver.
func Text(sql string) Query {
	return textQuery{sql: sql}
}

// Prepared names a server-side prepared statement. Prepared statements
// always use driver-native parameter substitution.
func Prepared(name, text string) Query {
	return preparedQuery{name: name, text: text}
}

// FuncCall selects from a database function by name.
func FuncCall(name string) Query {
	return funcQuery{name: name}
}

type textQuery struct {
	sql string
}

type preparedQuery struct {
	name string
	text string
}

type funcQuery struct {
	name string
}

func (textQuery) queryNode()     {}
func (preparedQuery) queryNode() {}
func (funcQuery) queryNode()     {}
