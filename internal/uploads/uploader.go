package uploads

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Uploader is the object-storage collaborator: it takes a binary upload
// and returns a stable URL. Chat only ever stores and serves that URL.
type Uploader interface {
	Upload(filename string, r io.Reader) (string, error)
}

// LocalUploader writes uploads to a directory and serves them under a
// base URL. Development stand-in for the hosted object store.
type LocalUploader struct {
	Dir     string
	BaseURL string
}

func NewLocalUploader(dir, baseURL string) (*LocalUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalUploader{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Upload stores the file under a random key, keeping the original
// extension so content type negotiation keeps working.
func (u *LocalUploader) Upload(filename string, r io.Reader) (string, error) {
	key := uuid.New().String() + filepath.Ext(filename)

	f, err := os.Create(filepath.Join(u.Dir, key))
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return u.BaseURL + "/" + key, nil
}
