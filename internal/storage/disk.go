package storage

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"ripple/internal/config"
	"ripple/internal/models"
	"ripple/internal/observability"

	"github.com/google/uuid"
)

const (
	// DefaultURLTTL matches the retrieval window the client is promised.
	DefaultURLTTL = 7 * 24 * time.Hour

	maxUploadSizeBytes = 10 * 1024 * 1024
)

// DiskStore is an ObjectStore backed by the local filesystem. Retrieval
// URLs carry an expiry and an HMAC signature so blobs cannot be enumerated.
type DiskStore struct {
	dir        string
	baseURL    string
	signingKey []byte
	urlTTL     time.Duration
	now        func() time.Time
}

// NewDiskStore creates a DiskStore from application configuration. An empty
// signing key is tolerated outside production (config validation rejects it
// there); URLs are then signed with a process-local random key.
func NewDiskStore(cfg *config.Config) (*DiskStore, error) {
	dir := cfg.MediaDir
	if dir == "" {
		dir = "/tmp/ripple/uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}

	key := []byte(cfg.MediaSigningKey)
	if len(key) == 0 {
		key = []byte(uuid.NewString())
	}

	return &DiskStore{
		dir:        dir,
		baseURL:    strings.TrimSuffix(cfg.MediaBaseURL, "/"),
		signingKey: key,
		urlTTL:     DefaultURLTTL,
		now:        time.Now,
	}, nil
}

// Upload writes the blob to disk and returns its signed retrieval URL.
func (s *DiskStore) Upload(ctx context.Context, content []byte, filename, contentType string) (string, error) {
	start := s.now()

	if len(content) == 0 {
		return "", models.NewValidationError("Empty file")
	}
	if len(content) > maxUploadSizeBytes {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxUploadSizeBytes/(1024*1024)))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := buildKey(filename)
	path := filepath.Join(s.dir, key)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		observability.ObserveUpload("error", start)
		return "", models.NewUpstreamError("object store", err)
	}

	observability.ObserveUpload("ok", start)
	return s.SignURL(key), nil
}

// SignURL returns the time-limited retrieval URL for a stored key.
func (s *DiskStore) SignURL(key string) string {
	exp := s.now().Add(s.urlTTL).Unix()
	sig := s.signature(key, exp)
	return fmt.Sprintf("%s/media/%s?exp=%d&sig=%s", s.baseURL, url.PathEscape(key), exp, sig)
}

// Open validates the signature and expiry for a key and returns the blob
// path and its content type. Traversal outside the media dir is rejected.
func (s *DiskStore) Open(key string, exp int64, sig string) (string, string, error) {
	if key == "" || strings.Contains(key, "/") || strings.Contains(key, "..") {
		return "", "", models.NewValidationError("Invalid media key")
	}
	if exp < s.now().Unix() {
		return "", "", models.NewForbiddenError("Media URL has expired")
	}
	expected := s.signature(key, exp)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", "", models.NewForbiddenError("Invalid media signature")
	}

	path := filepath.Join(s.dir, key)
	if _, err := os.Stat(path); err != nil {
		return "", "", models.NewNotFoundError("Media", key)
	}

	contentType := mime.TypeByExtension(filepath.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return path, contentType, nil
}

// ParseRetrievalQuery extracts the exp and sig query values from a request.
func ParseRetrievalQuery(expStr, sig string) (int64, string, error) {
	exp, err := strconv.ParseInt(expStr, 10, 64)
	if err != nil {
		return 0, "", models.NewValidationError("Invalid media URL")
	}
	return exp, sig, nil
}

func (s *DiskStore) signature(key string, exp int64) string {
	mac := hmac.New(sha256.New, s.signingKey)
	fmt.Fprintf(mac, "%s|%d", key, exp)
	return hex.EncodeToString(mac.Sum(nil))
}

// buildKey produces a unique storage key preserving the original extension
// so content types survive the round trip.
func buildKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if len(ext) > 10 || strings.ContainsAny(ext, "/\\") {
		ext = ""
	}
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), uuid.NewString(), ext)
}
