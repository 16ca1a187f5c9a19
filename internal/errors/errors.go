package errors

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/KareemHegazy123/WikiApp/internal/domain"
)

// Check if err is instance of T for custom error types
func Is[T error](err error) bool {
	if _, ok := err.(T); ok {
		return true
	}
	return false
}

// ValidationError signals bad caller input, such as a page name that is
// empty after normalization.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) StatusCode() int { return http.StatusBadRequest }

// NotFoundError signals that a page, attachment or blob does not exist.
// Expected condition, logged as a warning by callers.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.Key)
}

func (e *NotFoundError) StatusCode() int { return http.StatusNotFound }

// NotFound builds a NotFoundError with a formatted key.
func NotFound(resource string, key interface{}) *NotFoundError {
	return &NotFoundError{Resource: resource, Key: fmt.Sprint(key)}
}

// ConflictError signals a unique-name violation: another page already holds
// the normalized name.
type ConflictError struct {
	Name string
	Err  error
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("page name already taken: %s", e.Name)
}

func (e *ConflictError) Unwrap() error   { return e.Err }
func (e *ConflictError) StatusCode() int { return http.StatusConflict }

// ProtectedError signals a policy violation against the home page, which can
// neither be deleted nor renamed.
type ProtectedError struct {
	Name   string
	Action string
}

func (e *ProtectedError) Error() string {
	return fmt.Sprintf("cannot %s home page %q", e.Action, e.Name)
}

func (e *ProtectedError) StatusCode() int { return http.StatusForbidden }

// PartialError signals that one side of a blob+record mutation completed
// while the other failed. It carries whatever page state is known so the
// caller can reconcile (orphaned blobs or dangling attachment references).
type PartialError struct {
	Op             string
	Page           *domain.Page
	SurvivingBlobs []domain.FileId
	Err            error
}

func (e *PartialError) Error() string {
	msg := fmt.Sprintf("partial failure during %s", e.Op)
	if len(e.SurvivingBlobs) > 0 {
		msg += fmt.Sprintf(": blobs not deleted [%s]", strings.Join(e.SurvivingBlobs, ", "))
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PartialError) Unwrap() error   { return e.Err }
func (e *PartialError) StatusCode() int { return http.StatusInternalServerError }

// StorageError wraps an unexpected database failure caught at the facade
// boundary. Nothing below the facade panics; everything arrives as a value.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error   { return e.Err }
func (e *StorageError) StatusCode() int { return http.StatusInternalServerError }
