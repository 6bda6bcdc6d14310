package dto

import "time"

type SendMessageRequest struct {
	Message string `json:"message" validate:"required"`
}

type ChatReplyResponse struct {
	Reply     string `json:"reply"`
	Document  string `json:"document"`
	Operation string `json:"operation,omitempty"`
	Source    string `json:"source,omitempty"`
	Table     string `json:"table,omitempty"`
	Records   int    `json:"records"`
	ErrorKind string `json:"error_kind,omitempty"`
}

type SetDocumentRequest struct {
	Document string `json:"document"`
}

type MessageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type UploadResponse struct {
	FileID          string    `json:"file_id"`
	FileName        string    `json:"filename"`
	FileType        string    `json:"file_type"`
	UploadTimestamp time.Time `json:"upload_timestamp"`
	Content         any       `json:"content"`
	Document        string    `json:"document"`
}

type SessionResponse struct {
	Messages []MessageResponse `json:"messages"`
	Document string            `json:"document"`
	Upload   *UploadResponse   `json:"upload,omitempty"`
}
