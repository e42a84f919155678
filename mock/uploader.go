package mock

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Uploader records uploads in memory and hands out fake public URLs.
type Uploader struct {
	mu      sync.Mutex
	uploads map[string][]byte

	Err error
}

func NewUploader() *Uploader {
	return &Uploader{uploads: make(map[string][]byte)}
}

func (u *Uploader) Upload(_ context.Context, reader io.Reader, contentType string) (string, error) {
	if u.Err != nil {
		return "", u.Err
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}

	u.mu.Lock()
	defer u.mu.Unlock()

	url := fmt.Sprintf("https://storage.example.test/photos/%d?type=%s", len(u.uploads), contentType)
	u.uploads[url] = data
	return url, nil
}

func (u *Uploader) Uploaded(url string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()

	data, ok := u.uploads[url]
	return data, ok
}
