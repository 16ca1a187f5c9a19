package sqlite

import (
	"database/sql"
	"errors"
	"io"
	"time"

	"github.com/KareemHegazy123/WikiApp/internal/domain"
	internal_errors "github.com/KareemHegazy123/WikiApp/internal/errors"

	"github.com/google/uuid"
)

// SaveBlob reads the payload fully into memory and stores it under a fresh
// generated id. The returned metadata carries that id for the attachment
// record.
func (s *Storage) SaveBlob(fileName, mimeType string, data io.Reader) (*domain.BlobInfo, error) {
	payload, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	info := &domain.BlobInfo{
		FileId:      uuid.NewString(),
		FileName:    fileName,
		MimeType:    mimeType,
		SizeBytes:   int64(len(payload)),
		UploadedUtc: time.Now().UTC(),
	}
	_, err = db.Exec(`
	INSERT INTO blobs(file_id, file_name, mime_type, size_bytes, uploaded, data)
	VALUES(?, ?, ?, ?, ?, ?)`,
		info.FileId, info.FileName, info.MimeType, info.SizeBytes, info.UploadedUtc, payload)
	if err != nil {
		return nil, err
	}
	return info, nil
}

// BlobInfo returns stored metadata without touching the payload.
func (s *Storage) BlobInfo(fileId domain.FileId) (*domain.BlobInfo, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var info domain.BlobInfo
	err = db.QueryRow(`
	SELECT file_id, file_name, mime_type, size_bytes, uploaded
	FROM blobs
	WHERE file_id = ?`, fileId).Scan(&info.FileId, &info.FileName, &info.MimeType, &info.SizeBytes, &info.UploadedUtc)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("blob", fileId)
		}
		return nil, err
	}
	return &info, nil
}

// BlobData materializes the full payload in memory; no streaming.
func (s *Storage) BlobData(fileId domain.FileId) ([]byte, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var payload []byte
	err = db.QueryRow(`SELECT data FROM blobs WHERE file_id = ?`, fileId).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("blob", fileId)
		}
		return nil, err
	}
	return payload, nil
}

// DeleteBlob reports whether a blob was actually removed; a missing id is
// not an error.
func (s *Storage) DeleteBlob(fileId domain.FileId) (bool, error) {
	db, err := s.open()
	if err != nil {
		return false, err
	}
	defer db.Close()

	res, err := db.Exec(`DELETE FROM blobs WHERE file_id = ?`, fileId)
	if err != nil {
		return false, err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// AllBlobInfos lists metadata for every stored blob. Feeds the orphan
// sweeper, which needs ids and upload times but never payloads.
func (s *Storage) AllBlobInfos() ([]domain.BlobInfo, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
	SELECT file_id, file_name, mime_type, size_bytes, uploaded
	FROM blobs`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var infos []domain.BlobInfo
	for rows.Next() {
		var info domain.BlobInfo
		if err := rows.Scan(&info.FileId, &info.FileName, &info.MimeType, &info.SizeBytes, &info.UploadedUtc); err != nil {
			return nil, err
		}
		infos = append(infos, info)
	}
	return infos, rows.Err()
}
