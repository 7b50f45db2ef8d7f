package music

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"docreel/common"
	"docreel/config"

	"go.uber.org/zap"
)

// ObjectGetter reads objects from a bucket. *common.S3 satisfies it.
type ObjectGetter interface {
	Get(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}

// Provider downloads a background track for a genre.
type Provider struct {
	tracks  map[string]string
	objects ObjectGetter
	client  *http.Client
	log     *zap.Logger
}

// NewProvider uses objects for s3:// tracks; it may be nil when every
// track is served over HTTP.
func NewProvider(tracks map[string]string, objects ObjectGetter, log *zap.Logger) *Provider {
	return &Provider{
		tracks:  tracks,
		objects: objects,
		client:  &http.Client{Timeout: 120 * time.Second},
		log:     log,
	}
}

// TrackFor returns the source of genre's track, falling back to the
// default genre for unknown names.
func (p *Provider) TrackFor(genre string) string {
	if src, ok := p.tracks[strings.ToLower(strings.TrimSpace(genre))]; ok {
		return src
	}
	return p.tracks[config.DefaultGenre]
}

// Download writes genre's track to dest and reports whether it succeeded.
func (p *Provider) Download(ctx context.Context, genre, dest string) bool {
	src := p.TrackFor(genre)
	if src == "" {
		p.log.Warn("no music track configured", zap.String("genre", genre))
		return false
	}

	var err error
	if strings.HasPrefix(src, "s3://") {
		err = p.fromS3(ctx, src, dest)
	} else {
		err = common.Download(ctx, p.client, src, dest)
	}
	if err != nil {
		p.log.Warn("music download failed, continuing without music",
			zap.String("genre", genre),
			zap.String("source", src),
			zap.String("dest", filepath.Base(dest)),
			zap.Error(err))
		return false
	}
	return true
}

func (p *Provider) fromS3(ctx context.Context, uri, dest string) error {
	if p.objects == nil {
		return errors.New("s3 track configured but no s3 client available")
	}
	bucket, key, err := common.ParseS3URI(uri)
	if err != nil {
		return err
	}
	body, err := p.objects.Get(ctx, bucket, key)
	if err != nil {
		if common.IsNotFound(err) {
			return fmt.Errorf("track s3://%s/%s does not exist", bucket, key)
		}
		return err
	}
	defer body.Close()
	return common.WriteFile(dest, body)
}
