package dto

import "encoding/json"

// OperationRequest drives the manual database operation panel.
type OperationRequest struct {
	Operation string          `json:"operation" validate:"required,oneof=select insert update delete"`
	Data      json.RawMessage `json:"data,omitempty" swaggertype:"object"`
}

type OperationResponse struct {
	Operation string           `json:"operation"`
	Table     string           `json:"table"`
	Records   []map[string]any `json:"records"`
	Message   string           `json:"message"`
}

type RecordListResponse struct {
	Table   string `json:"table"`
	Count   int    `json:"count"`
	Records []any  `json:"records"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}
