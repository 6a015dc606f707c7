package structuredqa

// QueryRequest is the payload accepted by the lambda and HTTP handlers.
type QueryRequest struct {
	Question string `json:"question"`
}

// Response is the structured answer to a question.
type Response struct {
	Answer    string `json:"answer"`
	Reasoning string `json:"reasoning,omitempty"`
}
