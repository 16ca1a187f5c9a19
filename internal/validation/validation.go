// Package validation checks attachment uploads before they reach storage.
package validation

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/KareemHegazy123/WikiApp/internal/domain"

	_ "golang.org/x/image/webp"
)

// ErrPayloadTooLarge is returned when the upload exceeds the size limit
var ErrPayloadTooLarge = errors.New("payload too large")

// ErrInvalidMimeType is returned when an uploaded file has a disallowed MIME type
var ErrInvalidMimeType = errors.New("invalid MIME type")

// ValidateUpload turns a multipart file into a PendingUpload, rejecting
// disallowed types and oversized payloads.
func ValidateUpload(fileHeader *multipart.FileHeader, allowedMimes []string, maxBytes int64) (*domain.PendingUpload, error) {
	if fileHeader.Size > maxBytes {
		return nil, fmt.Errorf("%w: %s is %d bytes (limit %d)", ErrPayloadTooLarge, fileHeader.Filename, fileHeader.Size, maxBytes)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}

	mimeType, err := DetectMimeType(fileHeader)
	if err != nil {
		file.Close()
		return nil, err
	}

	if !mimeAllowed(mimeType, allowedMimes) {
		file.Close()
		return nil, fmt.Errorf("%w: %s (file: %s)", ErrInvalidMimeType, mimeType, fileHeader.Filename)
	}

	width, height := ExtractImageDimensions(file, mimeType)

	return &domain.PendingUpload{
		FileName:    fileHeader.Filename,
		MimeType:    mimeType,
		SizeBytes:   fileHeader.Size,
		ImageWidth:  width,
		ImageHeight: height,
		Data:        file,
	}, nil
}

func mimeAllowed(mimeType string, allowed []string) bool {
	for _, m := range allowed {
		if strings.EqualFold(m, mimeType) {
			return true
		}
	}
	return false
}

func DetectMimeType(fileHeader *multipart.FileHeader) (string, error) {
	mimeType := fileHeader.Header.Get("Content-Type")

	// If no Content-Type or it's generic, detect from extension
	if mimeType == "" || mimeType == "application/octet-stream" {
		ext := filepath.Ext(fileHeader.Filename)
		detectedType := mime.TypeByExtension(ext)
		if detectedType != "" {
			mimeType = detectedType
		}
	}

	if mimeType == "" {
		return "", fmt.Errorf("could not detect MIME type for file: %s", fileHeader.Filename)
	}

	// Drop parameters like "; charset=utf-8" so the allow-list compares
	// bare types.
	parsed, _, err := mime.ParseMediaType(mimeType)
	if err != nil {
		return "", fmt.Errorf("bad MIME type %q for file %s: %w", mimeType, fileHeader.Filename, err)
	}
	return parsed, nil
}

func ExtractImageDimensions(file multipart.File, mimeType string) (*int, *int) {
	// Only process images
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, nil
	}

	img, _, err := image.DecodeConfig(file)
	if err != nil {
		// Not decodable; dimensions stay unknown
		file.Seek(0, 0)
		return nil, nil
	}

	// Reset file pointer after reading
	file.Seek(0, 0)

	width, height := img.Width, img.Height
	return &width, &height
}

// ValidateAndParseMultipart enforces the request size limit and parses the
// multipart form. MaxBytesReader stops reading at the limit, so an oversized
// upload cannot exhaust the server no matter how large the client's body is.
func ValidateAndParseMultipart(r *http.Request, w http.ResponseWriter, maxSize int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		return fmt.Errorf("%w: failed to parse multipart form", ErrPayloadTooLarge)
	}

	return nil
}
