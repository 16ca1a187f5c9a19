package api

import (
	"github.com/KareemHegazy123/WikiApp/internal/domain"
)

// Request DTOs

type SavePageRequest struct {
	Id      *domain.PageId `json:"id,omitempty"`
	Name    string         `json:"name" validate:"required"`
	Content string         `json:"content"`
}

// Response DTOs

// PageResponse wraps a full page.
// Embed domain.Page to get all fields
type PageResponse struct {
	domain.Page
	Html string `json:"html,omitempty"`
}

// PageListResponse wraps the name-sorted page listing
type PageListResponse struct {
	Pages []domain.Page `json:"pages"`
}
