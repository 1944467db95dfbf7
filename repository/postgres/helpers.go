package postgres

import (
	"encoding/json"
	"time"

	"github.com/taskflow/backend/domain"
)

// marshalJSON serializes sub-records for storage. Marshaling structured Go
// types cannot produce a corrupt blob, which is the write-time guard the read
// path's leniency relies on.
func marshalJSON(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return []byte("[]")
	}
	return b
}

// unmarshalComments parses a stored comment blob. Corrupt or empty blobs yield
// an empty slice, never an error.
func unmarshalComments(data []byte) []domain.Comment {
	if len(data) == 0 {
		return []domain.Comment{}
	}
	var comments []domain.Comment
	if err := json.Unmarshal(data, &comments); err != nil || comments == nil {
		return []domain.Comment{}
	}
	return comments
}

// unmarshalAttachments parses a stored file blob with the same leniency.
func unmarshalAttachments(data []byte) []domain.Attachment {
	if len(data) == 0 {
		return []domain.Attachment{}
	}
	var files []domain.Attachment
	if err := json.Unmarshal(data, &files); err != nil || files == nil {
		return []domain.Attachment{}
	}
	return files
}

// dueValue converts the canonical YYYY-MM-DD string into a DATE parameter.
// Values that fail to parse are stored as NULL rather than failing the write.
func dueValue(due *string) interface{} {
	if due == nil || *due == "" {
		return nil
	}
	parsed, err := time.Parse("2006-01-02", *due)
	if err != nil {
		return nil
	}
	return parsed
}

// dueString renders a scanned DATE back to the canonical calendar-date form.
func dueString(due *time.Time) *string {
	if due == nil {
		return nil
	}
	s := due.Format("2006-01-02")
	return &s
}
