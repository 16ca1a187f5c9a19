package service

import (
	"errors"
	"io"
	"sort"
	"strings"

	"github.com/KareemHegazy123/WikiApp/internal/domain"
	internal_errors "github.com/KareemHegazy123/WikiApp/internal/errors"
	"github.com/KareemHegazy123/WikiApp/internal/logger"

	"github.com/microcosm-cc/bluemonday"
)

// to mock service in tests
type PageService interface {
	ListAllPages() ([]domain.Page, error)
	GetPage(name string) (*domain.Page, error)
	SavePage(data domain.PageSaveData) (*domain.Page, error)
	DeletePage(id domain.PageId) error
	DeleteAttachment(pageId domain.PageId, fileId domain.FileId) (*domain.Page, error)
	GetFile(fileId domain.FileId) (*domain.BlobInfo, []byte, error)
}

type PageStorage interface {
	AllPages() ([]domain.Page, error)
	PageByName(name string) (*domain.Page, error)
	PageById(id domain.PageId) (*domain.Page, error)
	InsertPage(page *domain.Page) (domain.PageId, error)
	UpdatePage(page *domain.Page) error
	DeletePage(id domain.PageId) error
}

type BlobStorage interface {
	SaveBlob(fileName, mimeType string, data io.Reader) (*domain.BlobInfo, error)
	BlobInfo(fileId domain.FileId) (*domain.BlobInfo, error)
	BlobData(fileId domain.FileId) ([]byte, error)
	DeleteBlob(fileId domain.FileId) (bool, error)
}

// ListingCache holds the full page listing under a single key.
type ListingCache interface {
	Get(key string) ([]domain.Page, bool)
	Set(key string, pages []domain.Page)
	Remove(key string)
}

const listingCacheKey = "pages"

// maxNameLength bounds stored page names; they double as URL segments.
const maxNameLength = 200

// Pages orchestrates the page table, the blob store and the listing cache
// behind the public read/write/delete contract. Every failure leaves this
// layer as an error value; nothing panics past it.
type Pages struct {
	storage      PageStorage
	blobs        BlobStorage
	cache        ListingCache
	homePageName string

	namePolicy    *bluemonday.Policy
	contentPolicy *bluemonday.Policy
}

func NewPages(storage PageStorage, blobs BlobStorage, cache ListingCache, homePageName string) PageService {
	return &Pages{
		storage:       storage,
		blobs:         blobs,
		cache:         cache,
		homePageName:  homePageName,
		namePolicy:    bluemonday.StrictPolicy(),
		contentPolicy: bluemonday.UGCPolicy(),
	}
}

// ListAllPages serves the listing from cache when fresh, otherwise reads the
// full collection, sorts it by name and caches the snapshot.
func (p *Pages) ListAllPages() ([]domain.Page, error) {
	if pages, ok := p.cache.Get(listingCacheKey); ok {
		return pages, nil
	}

	pages, err := p.storage.AllPages()
	if err != nil {
		return nil, p.convert("list pages", err)
	}
	sort.Slice(pages, func(i, j int) bool {
		return strings.ToLower(pages[i].Name) < strings.ToLower(pages[j].Name)
	})
	p.cache.Set(listingCacheKey, pages)
	return pages, nil
}

// GetPage looks a page up by name, ignoring case. The query string is used
// as given; no normalization is applied.
func (p *Pages) GetPage(name string) (*domain.Page, error) {
	page, err := p.storage.PageByName(name)
	if err != nil {
		return nil, p.convert("get page", err)
	}
	return page, nil
}

// SavePage inserts or updates a page. A nil Id inserts; an Id that matches
// no record also inserts (stale ids become new pages rather than failing).
func (p *Pages) SavePage(data domain.PageSaveData) (*domain.Page, error) {
	name := p.normalizeName(data.Name)
	if name == "" {
		return nil, &internal_errors.ValidationError{Message: "page name is empty after normalization"}
	}
	if len(name) > maxNameLength {
		return nil, &internal_errors.ValidationError{Message: "page name is too long"}
	}
	content := p.contentPolicy.Sanitize(data.Content)

	page := p.existingPage(data.Id)
	if page == nil {
		page = &domain.Page{}
	} else if p.isHomePage(page.Name) && !strings.EqualFold(name, page.Name) {
		logger.Log.Warn("refusing to rename home page", "id", page.Id, "requested_name", name)
		return nil, &internal_errors.ProtectedError{Name: page.Name, Action: "rename"}
	}
	page.Name = name
	page.Content = content

	if data.Upload != nil {
		info, err := p.blobs.SaveBlob(data.Upload.FileName, data.Upload.MimeType, data.Upload.Data)
		if err != nil {
			return nil, p.convert("save attachment blob", err)
		}
		page.Attachments = append(page.Attachments, info.Attachment())
	}

	var err error
	if page.Id == 0 {
		_, err = p.storage.InsertPage(page)
	} else {
		err = p.storage.UpdatePage(page)
	}
	if err != nil {
		if data.Upload != nil && len(page.Attachments) > 0 {
			orphan := page.Attachments[len(page.Attachments)-1].FileId
			logger.Log.Warn("page save failed after blob upload; sweeper will collect the orphan", "file_id", orphan)
		}
		return nil, p.convert("save page", err)
	}

	p.cache.Remove(listingCacheKey)
	return page, nil
}

// DeletePage cascades: attachment blobs go first, then the record. Blob
// failures do not abort the record delete, but every blob that survived is
// reported back so operators can reconcile.
func (p *Pages) DeletePage(id domain.PageId) error {
	page, err := p.storage.PageById(id)
	if err != nil {
		return p.convert("delete page", err)
	}
	if p.isHomePage(page.Name) {
		logger.Log.Warn("refusing to delete home page", "id", id)
		return &internal_errors.ProtectedError{Name: page.Name, Action: "delete"}
	}

	var surviving []domain.FileId
	deletedAny := false
	for _, att := range page.Attachments {
		found, err := p.blobs.DeleteBlob(att.FileId)
		if err != nil {
			logger.Log.Warn("cascade blob delete failed", "file_id", att.FileId, "error", err)
			surviving = append(surviving, att.FileId)
			continue
		}
		if found {
			deletedAny = true
		}
	}

	if err := p.storage.DeletePage(id); err != nil {
		if deletedAny {
			// blobs are gone but the record still references them
			return &internal_errors.PartialError{Op: "delete page", Page: page, Err: err}
		}
		return p.convert("delete page", err)
	}
	p.cache.Remove(listingCacheKey)

	if len(surviving) > 0 {
		return &internal_errors.PartialError{Op: "delete page", SurvivingBlobs: surviving}
	}
	return nil
}

// DeleteAttachment removes the blob first, then every matching entry from
// the page's list. The page is left untouched unless the blob is really
// gone, so retrying a failed delete is safe.
func (p *Pages) DeleteAttachment(pageId domain.PageId, fileId domain.FileId) (*domain.Page, error) {
	page, err := p.storage.PageById(pageId)
	if err != nil {
		return nil, p.convert("delete attachment", err)
	}
	if !page.HasAttachment(fileId) {
		logger.Log.Warn("attachment not on page", "page_id", pageId, "file_id", fileId)
		return nil, internal_errors.NotFound("attachment", fileId)
	}

	found, err := p.blobs.DeleteBlob(fileId)
	if err != nil {
		return nil, p.convert("delete attachment blob", err)
	}
	if !found {
		logger.Log.Warn("blob already missing", "page_id", pageId, "file_id", fileId)
		return nil, internal_errors.NotFound("blob", fileId)
	}

	var kept domain.Attachments
	for _, att := range page.Attachments {
		if !strings.EqualFold(att.FileId, fileId) {
			kept = append(kept, att)
		}
	}
	page.Attachments = kept

	if err := p.storage.UpdatePage(page); err != nil {
		// blob is deleted but the record still lists it
		return page, &internal_errors.PartialError{Op: "delete attachment", Page: page, Err: err}
	}
	p.cache.Remove(listingCacheKey)
	return page, nil
}

// GetFile reads blob metadata and payload; the payload is a second storage
// call and comes back fully materialized.
func (p *Pages) GetFile(fileId domain.FileId) (*domain.BlobInfo, []byte, error) {
	info, err := p.blobs.BlobInfo(fileId)
	if err != nil {
		return nil, nil, p.convert("get file", err)
	}
	data, err := p.blobs.BlobData(fileId)
	if err != nil {
		return nil, nil, p.convert("get file", err)
	}
	return info, data, nil
}

// normalizeName produces the canonical stored form of a page name: trimmed,
// internal spaces replaced with hyphens, lowercased, HTML stripped.
func (p *Pages) normalizeName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ToLower(name)
	return p.namePolicy.Sanitize(name)
}

func (p *Pages) isHomePage(name string) bool {
	return strings.EqualFold(name, p.homePageName)
}

// existingPage loads the record data.Id points at; nil means the save is an
// insert. A stale id maps to insert rather than failing.
func (p *Pages) existingPage(id *domain.PageId) *domain.Page {
	if id == nil {
		return nil
	}
	page, err := p.storage.PageById(*id)
	if err != nil {
		if !internal_errors.Is[*internal_errors.NotFoundError](err) {
			logger.Log.Warn("loading page for save failed, treating as insert", "id", *id, "error", err)
		}
		return nil
	}
	return page
}

// convert resolves a storage error to the facade's taxonomy: expected kinds
// pass through with a warning, anything else is wrapped as a storage
// failure and logged with full detail.
func (p *Pages) convert(op string, err error) error {
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		logger.Log.Warn(op+" failed", "error", err)
		return err
	}
	logger.Log.Error("storage failure", "op", op, "error", err)
	return &internal_errors.StorageError{Op: op, Err: err}
}
