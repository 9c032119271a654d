package icon

import (
	"context"
	"fmt"
	"io"
	log "log/slog"
	"net/url"
	"sync"

	"github.com/minio/minio-go/v7"

	"wiki-echo/internal/config"
	"wiki-echo/internal/pkg/i18n"
)

const contentType = "image/png"

// Service serves rasterized notification icons for email clients that
// cannot render SVG.
type Service interface {
	RasterizedURL(ctx context.Context, iconType, lang string) string
	Upload(ctx context.Context, iconType, dir string, reader io.Reader, size int64) error
}

type service struct {
	minioClient *minio.Client
	cfg         *config.Config

	mu     sync.RWMutex
	exists map[string]bool
}

func NewService(minioClient *minio.Client, cfg *config.Config) Service {
	return &service{
		minioClient: minioClient,
		cfg:         cfg,
		exists:      make(map[string]bool),
	}
}

// RasterizedURL returns the rtl variant for rtl languages when one was
// uploaded, otherwise the ltr image.
func (s *service) RasterizedURL(ctx context.Context, iconType, lang string) string {
	key := objectKey(iconType, "ltr")
	if i18n.Dir(lang) == "rtl" {
		if rtl := objectKey(iconType, "rtl"); s.hasObject(ctx, rtl) {
			key = rtl
		}
	}
	return s.publicURL(key)
}

func (s *service) Upload(ctx context.Context, iconType, dir string, reader io.Reader, size int64) error {
	if s.minioClient == nil {
		return fmt.Errorf("icon storage is not configured")
	}
	if dir != "rtl" {
		dir = "ltr"
	}
	key := objectKey(iconType, dir)
	_, err := s.minioClient.PutObject(ctx, s.cfg.MinIOBucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload icon to MinIO: %w", err)
	}

	s.mu.Lock()
	s.exists[key] = true
	s.mu.Unlock()
	return nil
}

func (s *service) hasObject(ctx context.Context, key string) bool {
	s.mu.RLock()
	found, cached := s.exists[key]
	s.mu.RUnlock()
	if cached {
		return found
	}
	if s.minioClient == nil {
		return false
	}

	_, err := s.minioClient.StatObject(ctx, s.cfg.MinIOBucket, key, minio.StatObjectOptions{})
	found = err == nil
	if err != nil && minio.ToErrorResponse(err).Code != "NoSuchKey" {
		log.WarnContext(ctx, "icon lookup failed", "key", key, "err", err)
		return false
	}

	s.mu.Lock()
	s.exists[key] = found
	s.mu.Unlock()
	return found
}

func (s *service) publicURL(key string) string {
	scheme := "http"
	if s.cfg.MinIOPublicUseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.MinIOPublicEndpoint, s.cfg.MinIOBucket, url.PathEscape(key))
}

func objectKey(iconType, dir string) string {
	if dir == "rtl" {
		return "icons/" + iconType + "-rtl.png"
	}
	return "icons/" + iconType + ".png"
}
