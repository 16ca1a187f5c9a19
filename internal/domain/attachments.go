package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// Attachment links a page to a stored blob. Immutable once created.
type Attachment struct {
	FileId          FileId    `json:"file_id"`
	FileName        string    `json:"file_name"`
	MimeType        string    `json:"mime_type"`
	LastModifiedUtc time.Time `json:"last_modified_utc"`
}

// Attachments is the ordered attachment list owned by a page. It is stored
// as JSON in a TEXT column next to the page row, so the list travels with
// the page the same way the blob payloads travel with their ids.
type Attachments []Attachment

// Value implements driver.Valuer to bind the list to a TEXT column.
func (a Attachments) Value() (driver.Value, error) {
	if a == nil {
		a = Attachments{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal attachments: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner to read the JSON column back into the list.
func (a *Attachments) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*a = Attachments{}
		return nil
	case string:
		if v == "" {
			*a = Attachments{}
			return nil
		}
		return json.Unmarshal([]byte(v), a)
	case []byte:
		if len(v) == 0 {
			*a = Attachments{}
			return nil
		}
		return json.Unmarshal(v, a)
	default:
		return fmt.Errorf("attachments column has unsupported type %T", src)
	}
}

// PendingUpload is a validated attachment upload that has not been handed to
// the blob store yet. Image dimensions are populated by the validation layer
// when the payload is a decodable image.
type PendingUpload struct {
	FileName    string
	MimeType    string
	SizeBytes   int64
	ImageWidth  *int
	ImageHeight *int
	Data        io.Reader
}
