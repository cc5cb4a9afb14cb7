package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"entity-kit/core/entity"
	"entity-kit/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

var contentTypes = map[string]string{
	"json": "application/json",
	"yaml": "application/yaml",
}

// ContentType returns the MIME type for an encoder format.
func ContentType(format string) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "text/plain"
}

// Exporter writes serialized authors to object storage.
type Exporter struct {
	client storage.Client
	bucket string
	region string
	prefix string
	logger *zap.Logger
}

// NewExporter creates an exporter writing below cfg.Prefix in cfg.Bucket.
func NewExporter(client storage.Client, cfg storage.Config, logger *zap.Logger) *Exporter {
	return &Exporter{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: logger,
	}
}

// Key returns the object key of an author export.
func (e *Exporter) Key(author *Author, format string) string {
	return path.Join(e.prefix, "authors", fmt.Sprintf("%d.%s", author.ID, format))
}

// Export serializes one author and uploads it. It returns the object key.
func (e *Exporter) Export(ctx context.Context, author *Author, enc entity.Encoder) (string, error) {
	body, err := entity.Serialize(author, enc)
	if err != nil {
		return "", fmt.Errorf("failed to serialize author %d: %w", author.ID, err)
	}

	key := e.Key(author, enc.Format())
	_, err = e.client.PutObject(ctx, e.bucket, key, strings.NewReader(body), int64(len(body)), minio.PutObjectOptions{
		ContentType: ContentType(enc.Format()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	e.logger.Debug("Exported author", zap.Uint("id", author.ID), zap.String("key", key))
	return key, nil
}

// ExportAll uploads every author and removes exports of the same format
// whose author no longer exists.
func (e *Exporter) ExportAll(ctx context.Context, authors []*Author, enc entity.Encoder) ([]string, error) {
	if err := storage.EnsureBucket(ctx, e.client, e.bucket, e.region); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(authors))
	written := make(map[string]bool, len(authors))
	for _, author := range authors {
		key, err := e.Export(ctx, author, enc)
		if err != nil {
			return keys, err
		}
		keys = append(keys, key)
		written[key] = true
	}

	pruned, err := e.prune(ctx, "."+enc.Format(), written)
	if err != nil {
		return keys, err
	}
	e.logger.Info("Catalog export finished",
		zap.Int("exported", len(keys)),
		zap.Int("pruned", pruned),
		zap.String("format", enc.Format()),
	)
	return keys, nil
}

// List returns the keys of all exports.
func (e *Exporter) List(ctx context.Context) ([]string, error) {
	var keys []string
	for obj := range e.client.ListObjects(ctx, e.bucket, minio.ListObjectsOptions{Prefix: e.authorsPrefix(), Recursive: true}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list exports: %w", obj.Err)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Fetch downloads an export.
func (e *Exporter) Fetch(ctx context.Context, key string) ([]byte, error) {
	obj, err := e.client.GetObject(ctx, e.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", key, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, obj); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return buf.Bytes(), nil
}

func (e *Exporter) authorsPrefix() string {
	return path.Join(e.prefix, "authors") + "/"
}

func (e *Exporter) prune(ctx context.Context, ext string, keep map[string]bool) (int, error) {
	existing, err := e.List(ctx)
	if err != nil {
		return 0, err
	}
	pruned := 0
	for _, key := range existing {
		if keep[key] || !strings.HasSuffix(key, ext) {
			continue
		}
		if err := e.client.RemoveObject(ctx, e.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return pruned, fmt.Errorf("failed to remove stale export %s: %w", key, err)
		}
		pruned++
	}
	return pruned, nil
}
