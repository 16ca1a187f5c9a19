package domain

import (
	"strings"
	"time"
)

type (
	PageId = int64
	FileId = string
)

// Page is a named, versionless wiki document with zero or more attachments.
type Page struct {
	Id              PageId
	Name            string
	Content         string
	LastModifiedUtc time.Time
	Attachments     Attachments
}

// HasAttachment reports whether the page references fileId, ignoring case.
func (p *Page) HasAttachment(fileId FileId) bool {
	for _, a := range p.Attachments {
		if strings.EqualFold(a.FileId, fileId) {
			return true
		}
	}
	return false
}

// PageSaveData carries the input of a page save. A nil Id requests an
// insert; an Id that matches no existing record also inserts (stale ids are
// treated as new pages rather than failing the save).
type PageSaveData struct {
	Id      *PageId
	Name    string
	Content string
	Upload  *PendingUpload
}
