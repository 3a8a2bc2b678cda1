package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/gosimple/slug"
	storage "github.com/supabase-community/storage-go"
)

// SyllabusStorage uploads syllabus PDFs to a Supabase Storage bucket.
type SyllabusStorage struct {
	client  *storage.Client
	baseURL string
	bucket  string
}

func NewSyllabusStorage(supabaseURL, supabaseKey, bucket string) (*SyllabusStorage, error) {
	if supabaseURL == "" || supabaseKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL or SUPABASE_KEY is not configured")
	}
	if bucket == "" {
		bucket = "uploads"
	}
	baseURL := strings.TrimRight(supabaseURL, "/")
	return &SyllabusStorage{
		client:  storage.NewClient(baseURL+"/storage/v1", supabaseKey, nil),
		baseURL: baseURL,
		bucket:  bucket,
	}, nil
}

// SyllabusObjectPath names the object for a subject: syllabi/<slug>.pdf
func SyllabusObjectPath(code, title string) string {
	name := code
	if title != "" {
		name = code + " " + title
	}
	return fmt.Sprintf("syllabi/%s.pdf", slug.Make(name))
}

// PublicURL is the public address of objectPath in bucket.
func PublicURL(supabaseURL, bucket, objectPath string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", strings.TrimRight(supabaseURL, "/"), bucket, objectPath)
}

// Upload stores one syllabus and returns its public URL.
func (s *SyllabusStorage) Upload(code, title string, data io.Reader) (string, error) {
	objectPath := SyllabusObjectPath(code, title)
	contentType := "application/pdf"
	options := storage.FileOptions{
		ContentType: &contentType,
	}

	if _, err := s.client.UploadFile(s.bucket, objectPath, data, options); err != nil {
		return "", fmt.Errorf("upload syllabus %s: %w", code, err)
	}
	return PublicURL(s.baseURL, s.bucket, objectPath), nil
}
