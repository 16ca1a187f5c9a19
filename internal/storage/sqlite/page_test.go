package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/KareemHegazy123/WikiApp/internal/domain"
	internal_errors "github.com/KareemHegazy123/WikiApp/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "wiki.db"))
	require.NoError(t, err)
	return s
}

// TestInsertPage tests record creation
func TestInsertPage(t *testing.T) {
	t.Run("assigns id and last-modified stamp", func(t *testing.T) {
		s := newTestStorage(t)

		page := &domain.Page{Name: "team-notes", Content: "hello"}
		id, err := s.InsertPage(page)

		require.NoError(t, err)
		assert.Greater(t, id, int64(0))
		assert.Equal(t, id, page.Id)
		assert.WithinDuration(t, time.Now().UTC(), page.LastModifiedUtc, time.Minute)
	})

	t.Run("overwrites caller-supplied stamp", func(t *testing.T) {
		s := newTestStorage(t)

		stale := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
		page := &domain.Page{Name: "team-notes", Content: "hello", LastModifiedUtc: stale}
		_, err := s.InsertPage(page)

		require.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), page.LastModifiedUtc, time.Minute)
	})

	t.Run("rejects duplicate name regardless of case", func(t *testing.T) {
		s := newTestStorage(t)

		_, err := s.InsertPage(&domain.Page{Name: "team-notes", Content: "a"})
		require.NoError(t, err)

		_, err = s.InsertPage(&domain.Page{Name: "Team-Notes", Content: "b"})

		var conflict *internal_errors.ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "Team-Notes", conflict.Name)
	})

	t.Run("persists attachments list", func(t *testing.T) {
		s := newTestStorage(t)

		page := &domain.Page{
			Name:    "with-files",
			Content: "c",
			Attachments: domain.Attachments{
				{FileId: "id-1", FileName: "a.png", MimeType: "image/png"},
			},
		}
		_, err := s.InsertPage(page)
		require.NoError(t, err)

		got, err := s.PageById(page.Id)
		require.NoError(t, err)
		require.Len(t, got.Attachments, 1)
		assert.Equal(t, "id-1", got.Attachments[0].FileId)
		assert.Equal(t, "a.png", got.Attachments[0].FileName)
	})
}

// TestPageByName tests the case-insensitive name lookup
func TestPageByName(t *testing.T) {
	t.Run("matches regardless of case", func(t *testing.T) {
		s := newTestStorage(t)

		page := &domain.Page{Name: "my-page", Content: "hello"}
		_, err := s.InsertPage(page)
		require.NoError(t, err)

		for _, name := range []string{"my-page", "My-Page", "MY-PAGE"} {
			got, err := s.PageByName(name)
			require.NoError(t, err, name)
			assert.Equal(t, page.Id, got.Id)
			assert.Equal(t, "my-page", got.Name)
		}
	})

	t.Run("miss is a not-found error", func(t *testing.T) {
		s := newTestStorage(t)

		_, err := s.PageByName("ghost")

		var notFound *internal_errors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

// TestUpdatePage tests in-place record updates
func TestUpdatePage(t *testing.T) {
	t.Run("rewrites fields and advances stamp", func(t *testing.T) {
		s := newTestStorage(t)

		page := &domain.Page{Name: "notes", Content: "first"}
		_, err := s.InsertPage(page)
		require.NoError(t, err)
		created := page.LastModifiedUtc

		page.Content = "second"
		err = s.UpdatePage(page)
		require.NoError(t, err)

		got, err := s.PageById(page.Id)
		require.NoError(t, err)
		assert.Equal(t, "second", got.Content)
		assert.False(t, got.LastModifiedUtc.Before(created))
	})

	t.Run("does not create a second record", func(t *testing.T) {
		s := newTestStorage(t)

		page := &domain.Page{Name: "notes", Content: "first"}
		_, err := s.InsertPage(page)
		require.NoError(t, err)

		page.Content = "second"
		require.NoError(t, s.UpdatePage(page))

		pages, err := s.AllPages()
		require.NoError(t, err)
		assert.Len(t, pages, 1)
	})

	t.Run("unknown id is a not-found error", func(t *testing.T) {
		s := newTestStorage(t)

		err := s.UpdatePage(&domain.Page{Id: 999, Name: "ghost", Content: "c"})

		var notFound *internal_errors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("rename onto existing name conflicts", func(t *testing.T) {
		s := newTestStorage(t)

		_, err := s.InsertPage(&domain.Page{Name: "first", Content: "a"})
		require.NoError(t, err)
		second := &domain.Page{Name: "second", Content: "b"}
		_, err = s.InsertPage(second)
		require.NoError(t, err)

		second.Name = "FIRST"
		err = s.UpdatePage(second)

		var conflict *internal_errors.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}

// TestDeletePage tests record deletion
func TestDeletePage(t *testing.T) {
	t.Run("removes the record", func(t *testing.T) {
		s := newTestStorage(t)

		page := &domain.Page{Name: "doomed", Content: "c"}
		_, err := s.InsertPage(page)
		require.NoError(t, err)

		require.NoError(t, s.DeletePage(page.Id))

		_, err = s.PageById(page.Id)
		var notFound *internal_errors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("second delete is a not-found error", func(t *testing.T) {
		s := newTestStorage(t)

		page := &domain.Page{Name: "doomed", Content: "c"}
		_, err := s.InsertPage(page)
		require.NoError(t, err)
		require.NoError(t, s.DeletePage(page.Id))

		err = s.DeletePage(page.Id)

		var notFound *internal_errors.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})
}

// TestAllPages tests the full listing read
func TestAllPages(t *testing.T) {
	t.Run("empty database yields no pages", func(t *testing.T) {
		s := newTestStorage(t)

		pages, err := s.AllPages()

		require.NoError(t, err)
		assert.Empty(t, pages)
	})

	t.Run("returns every page", func(t *testing.T) {
		s := newTestStorage(t)

		for _, name := range []string{"beta", "alpha", "gamma"} {
			_, err := s.InsertPage(&domain.Page{Name: name, Content: "c"})
			require.NoError(t, err)
		}

		pages, err := s.AllPages()
		require.NoError(t, err)

		names := make([]string, 0, len(pages))
		for _, p := range pages {
			names = append(names, p.Name)
		}
		assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, names)
	})
}

// TestSeparateHandlesShareState verifies two Storage values over the same
// file observe each other's writes (every operation opens its own handle).
func TestSeparateHandlesShareState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wiki.db")

	first, err := New(path)
	require.NoError(t, err)
	second, err := New(path)
	require.NoError(t, err)

	page := &domain.Page{Name: "shared", Content: "c"}
	_, err = first.InsertPage(page)
	require.NoError(t, err)

	got, err := second.PageByName("shared")
	require.NoError(t, err)
	assert.Equal(t, page.Id, got.Id)
}
