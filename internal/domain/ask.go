package domain

// FileAttachment carries an uploaded document alongside a query. Content is
// base64, optionally as a data URI.
type FileAttachment struct {
	Content  string `json:"content" validate:"required"`
	MimeType string `json:"mime_type" validate:"required"`
}

// AskRequest is the body of POST /ask.
type AskRequest struct {
	Query     string          `json:"query" validate:"required,min=1,max=2000"`
	SessionID string          `json:"session_id,omitempty"`
	Metadata  map[string]any  `json:"metadata,omitempty"`
	File      *FileAttachment `json:"file,omitempty" validate:"omitempty"`
}
