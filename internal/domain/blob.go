package domain

import "time"

// BlobInfo describes a stored blob without its payload. The payload is
// materialized by a separate read keyed on FileId.
type BlobInfo struct {
	FileId      FileId
	FileName    string
	MimeType    string
	SizeBytes   int64
	UploadedUtc time.Time
}

// Attachment converts blob metadata into the value record a page carries.
func (b *BlobInfo) Attachment() Attachment {
	return Attachment{
		FileId:          b.FileId,
		FileName:        b.FileName,
		MimeType:        b.MimeType,
		LastModifiedUtc: b.UploadedUtc,
	}
}
