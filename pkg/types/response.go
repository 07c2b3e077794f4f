package types

type SuccessEnvelope struct {
	Data any `json:"data"`
}

// Page wraps list payloads with the cursor for the next page. NextCursor is
// empty when the listing is exhausted.
type Page struct {
	Items      any    `json:"items"`
	NextCursor string `json:"next_cursor,omitempty"`
}

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}
