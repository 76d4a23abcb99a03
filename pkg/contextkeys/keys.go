package contextkeys

type contextKey string

const (
	// OperatorIDKey - под этим ключом в контексте запроса лежит ID оператора.
	OperatorIDKey contextKey = "operatorID"
)
