package genie

// Column describes one result-set column by name and SQL type.
type Column struct {
	Name     string `json:"name"`
	TypeName string `json:"type_name"`
}

// QueryResultPayload is the tagged answer to one question. Exactly one of the
// three fields is set; a zero value means "no data".
type QueryResultPayload struct {
	Tabular *TabularResult
	Message *MessageResult
	Error   *ErrorResult
}

// TabularResult is a positional result set: Rows[i][j] belongs to Columns[j].
type TabularResult struct {
	Columns          []Column
	Rows             [][]any
	QueryDescription string
}

// MessageResult is a plain-text answer.
type MessageResult struct {
	Text string
}

// ErrorResult reports a query-service failure to the user.
type ErrorResult struct {
	Description string
}

// Genie REST wire types below. Field names follow the Databricks API.

type genieMessage struct {
	ID             string            `json:"id"`
	ConversationID string            `json:"conversation_id"`
	Status         string            `json:"status"`
	Content        string            `json:"content"`
	Attachments    []genieAttachment `json:"attachments"`
}

type genieAttachment struct {
	Text  *genieText  `json:"text,omitempty"`
	Query *genieQuery `json:"query,omitempty"`
}

type genieText struct {
	Content string `json:"content"`
}

type genieQuery struct {
	Query       string `json:"query"`
	Description string `json:"description"`
	StatementID string `json:"statement_id"`
}

type startConversationResponse struct {
	ConversationID string       `json:"conversation_id"`
	Message        genieMessage `json:"message"`
}

type queryResultResponse struct {
	StatementResponse *statementResponse `json:"statement_response"`
}

type statementResponse struct {
	StatementID string             `json:"statement_id"`
	Manifest    *statementManifest `json:"manifest"`
	Result      *statementData     `json:"result"`
}

type statementManifest struct {
	Schema statementSchema `json:"schema"`
}

type statementSchema struct {
	Columns []Column `json:"columns"`
}

type statementData struct {
	DataArray [][]any `json:"data_array"`
}

// Message statuses the poll loop acts on.
const (
	statusCompleted = "COMPLETED"
	statusFailed    = "FAILED"
	statusCancelled = "CANCELLED"
)
