package models

// ErrorResponse is the structured error envelope for failed requests.
// Fields carries per-field validation messages keyed by field name, in the
// shape clients render next to form inputs.
type ErrorResponse struct {
	Error  string            `json:"error,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

// FieldError builds an ErrorResponse for a single invalid field.
func FieldError(field, message string) ErrorResponse {
	return ErrorResponse{Fields: map[string]string{field: message}}
}
