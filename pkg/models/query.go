package models

// QueryRequest carries one encrypted query against a named usecase. The
// query bytes are ciphertext; the controller never inspects them.
type QueryRequest struct {
	Usecase string `json:"usecase"`
	Query   []byte `json:"query"`
}

// QueryResponse carries the encrypted reply produced by the usecase.
type QueryResponse struct {
	Reply []byte `json:"reply"`
}
