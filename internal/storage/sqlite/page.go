package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/KareemHegazy123/WikiApp/internal/domain"
	internal_errors "github.com/KareemHegazy123/WikiApp/internal/errors"
)

// AllPages returns every page in no particular order; callers sort.
func (s *Storage) AllPages() ([]domain.Page, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.Query(`
	SELECT id, name, content, last_modified, attachments
	FROM pages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pages []domain.Page
	for rows.Next() {
		var p domain.Page
		if err := rows.Scan(&p.Id, &p.Name, &p.Content, &p.LastModifiedUtc, &p.Attachments); err != nil {
			return nil, err
		}
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// PageByName finds a page by exact name match, ignoring case. The name
// column collates NOCASE, so plain equality does the case folding.
func (s *Storage) PageByName(name string) (*domain.Page, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var p domain.Page
	err = db.QueryRow(`
	SELECT id, name, content, last_modified, attachments
	FROM pages
	WHERE name = ?
	LIMIT 1`, name).Scan(&p.Id, &p.Name, &p.Content, &p.LastModifiedUtc, &p.Attachments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("page", name)
		}
		return nil, err
	}
	return &p, nil
}

func (s *Storage) PageById(id domain.PageId) (*domain.Page, error) {
	db, err := s.open()
	if err != nil {
		return nil, err
	}
	defer db.Close()

	var p domain.Page
	err = db.QueryRow(`
	SELECT id, name, content, last_modified, attachments
	FROM pages
	WHERE id = ?`, id).Scan(&p.Id, &p.Name, &p.Content, &p.LastModifiedUtc, &p.Attachments)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, internal_errors.NotFound("page", id)
		}
		return nil, err
	}
	return &p, nil
}

// InsertPage stores a new page, assigning its id and last-modified stamp.
// Whatever LastModifiedUtc the caller put on the struct is overwritten.
func (s *Storage) InsertPage(page *domain.Page) (domain.PageId, error) {
	db, err := s.open()
	if err != nil {
		return 0, err
	}
	defer db.Close()

	ts := time.Now().UTC()
	res, err := db.Exec(`
	INSERT INTO pages(name, content, last_modified, attachments)
	VALUES(?, ?, ?, ?)`,
		page.Name, page.Content, ts, page.Attachments)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, &internal_errors.ConflictError{Name: page.Name, Err: err}
		}
		return 0, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	page.Id = id
	page.LastModifiedUtc = ts
	return id, nil
}

// UpdatePage rewrites name, content and attachments of an existing page
// and advances its last-modified stamp.
func (s *Storage) UpdatePage(page *domain.Page) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	ts := time.Now().UTC()
	res, err := db.Exec(`
	UPDATE pages SET
		name = ?,
		content = ?,
		last_modified = ?,
		attachments = ?
	WHERE id = ?`,
		page.Name, page.Content, ts, page.Attachments, page.Id)
	if err != nil {
		if isUniqueViolation(err) {
			return &internal_errors.ConflictError{Name: page.Name, Err: err}
		}
		return err
	}

	updated, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if updated == 0 {
		return internal_errors.NotFound("page", page.Id)
	}
	page.LastModifiedUtc = ts
	return nil
}

// DeletePage removes the page record only; blob cleanup happens a layer up.
func (s *Storage) DeletePage(id domain.PageId) error {
	db, err := s.open()
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.Exec(`DELETE FROM pages WHERE id = ?`, id)
	if err != nil {
		return err
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return internal_errors.NotFound("page", id)
	}
	return nil
}
