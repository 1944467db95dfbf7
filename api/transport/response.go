package transport

import (
	"encoding/json"

	"github.com/taskflow/backend/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string      `json:"status"`
	Code   string      `json:"code,omitempty"`
	Data   interface{} `json:"data,omitempty"`
	Error  interface{} `json:"error,omitempty"`
	Meta   interface{} `json:"meta,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code string, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// SyncResponse is the flat shape sync clients consume. On success it carries
// the fresh canonical snapshot the client must adopt verbatim.
type SyncResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	// The list keys must be present even when empty: clients only adopt the
	// canonical state when both arrive as arrays.
	Projects []domain.Project `json:"projects"`
	Tasks    []domain.Task    `json:"tasks"`
}

type LoginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Token   string      `json:"token,omitempty"`
	User    interface{} `json:"user,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type RegisterResponse struct {
	Success bool      `json:"success"`
	Message string    `json:"message,omitempty"`
	TeamID  domain.ID `json:"team_id,omitempty"`
}

type UploadResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	URL     string `json:"url,omitempty"`
	Name    string `json:"name,omitempty"`
}
