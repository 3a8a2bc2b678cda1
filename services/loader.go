package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vnkhanh/grade-explorer/models"
	"go.uber.org/zap"
)

// MaxDocumentBytes caps the size of a dataset document fetched over HTTP.
const MaxDocumentBytes = 32 << 20

// Loader fetches dataset documents from a static directory or over HTTP.
// Failures are logged and reported; there is no retry.
type Loader struct {
	baseDir string
	client  *http.Client
	log     *zap.Logger
	limit   int64
}

func NewLoader(baseDir string, client *http.Client, log *zap.Logger) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{baseDir: baseDir, client: client, log: log, limit: MaxDocumentBytes}
}

// Fetch returns the raw document at source: an http(s) URL, or a path
// relative to the loader's base directory.
func (l *Loader) Fetch(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return l.fetchHTTP(ctx, source)
	}

	path := source
	if !filepath.IsAbs(path) && l.baseDir != "" {
		path = filepath.Join(l.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (l *Loader) fetchHTTP(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: network response was not ok: status=%d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.limit+1))
	if err != nil {
		return nil, fmt.Errorf("read body %s: %w", url, err)
	}
	if int64(len(data)) > l.limit {
		return nil, fmt.Errorf("fetch %s: %w (limit %d bytes)", url, ErrDocumentTooLarge, l.limit)
	}
	return data, nil
}

// Load fetches and decodes the dataset described by spec. On failure the
// returned dataset is empty and carries the error text, so callers can
// still register it.
func (l *Loader) Load(ctx context.Context, spec models.DatasetSpec) (*models.Dataset, error) {
	ds := &models.Dataset{Spec: spec, Subjects: []models.Subject{}, LoadedAt: time.Now()}

	data, err := l.Fetch(ctx, spec.Source)
	if err != nil {
		l.log.Error("dataset load failed", zap.String("dataset", spec.Name), zap.String("source", spec.Source), zap.Error(err))
		ds.LoadError = err.Error()
		return ds, err
	}

	subjects, err := models.DecodeDocument(data, spec.FieldMap)
	if err != nil {
		err = fmt.Errorf("decode %s: %w", spec.Source, err)
		l.log.Error("dataset decode failed", zap.String("dataset", spec.Name), zap.Error(err))
		ds.LoadError = err.Error()
		return ds, err
	}

	if spec.Features.InferCategory {
		subjects = FillSubjectTypes(subjects, spec.FieldMap.CategoryKey())
	}

	ds.Subjects = subjects
	l.log.Info("dataset loaded", zap.String("dataset", spec.Name), zap.Int("subjects", len(subjects)))
	return ds, nil
}
