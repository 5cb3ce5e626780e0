// Package filex provides file helpers for image attachments.
package filex

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
)

// MaxAttachmentSize is the largest image the backend accepts (5 MB).
const MaxAttachmentSize = 5 << 20

var ErrAttachmentTooLarge = errors.New("attachment too large")

// Attachment is an image file loaded into memory, ready to be sent as a
// multipart form part.
type Attachment struct {
	Name        string
	ContentType string
	Data        []byte
}

// LoadAttachment reads the file at path, enforcing MaxAttachmentSize, and
// sniffs its content type from the leading bytes.
func LoadAttachment(path string) (*Attachment, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat attachment: %w", err)
	}
	if fi.Size() > MaxAttachmentSize {
		return nil, ErrAttachmentTooLarge
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read attachment: %w", err)
	}

	return &Attachment{
		Name:        filepath.Base(path),
		ContentType: http.DetectContentType(data),
		Data:        data,
	}, nil
}
