package dto

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Fields  any    `json:"fields,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	DB        string `json:"db"`
	Mongo     string `json:"mongo"`
	Cache     string `json:"cache,omitempty"`
}
