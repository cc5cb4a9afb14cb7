package catalog_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"entity-kit/core/entity"
	"entity-kit/core/storage"
	"entity-kit/core/storage/mocks"
	"entity-kit/feature/catalog"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newExporter(client storage.Client) *catalog.Exporter {
	return catalog.NewExporter(client, storage.Config{Bucket: "catalog", Prefix: "/exports/"}, zap.NewNop())
}

func listing(keys ...string) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(keys))
	for _, k := range keys {
		ch <- minio.ObjectInfo{Key: k}
	}
	close(ch)
	return ch
}

func TestExporter_Export(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	author := newAuthor(5, "Ann")

	var uploaded string
	client.On("PutObject", ctx, "catalog", "exports/authors/5.yaml", mock.Anything, mock.Anything,
		minio.PutObjectOptions{ContentType: "application/yaml"}).
		Run(func(args mock.Arguments) {
			b, _ := io.ReadAll(args.Get(3).(io.Reader))
			uploaded = string(b)
		}).
		Return(minio.UploadInfo{}, nil)

	key, err := newExporter(client).Export(ctx, author, entity.YAMLEncoder{})
	require.NoError(t, err)
	assert.Equal(t, "exports/authors/5.yaml", key)
	assert.YAMLEq(t, "id: 5\nname: Ann\nbooks: []\n", uploaded)
	client.AssertExpectations(t)
}

func TestExporter_ExportAll(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	authors := []*catalog.Author{newAuthor(1, "Ann"), newAuthor(2, "Bob")}

	client.On("BucketExists", ctx, "catalog").Return(true, nil)
	client.On("PutObject", ctx, "catalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("ListObjects", ctx, "catalog", minio.ListObjectsOptions{Prefix: "exports/authors/", Recursive: true}).
		Return(listing("exports/authors/1.json", "exports/authors/2.json", "exports/authors/3.json", "exports/authors/3.yaml"))
	client.On("RemoveObject", ctx, "catalog", "exports/authors/3.json", minio.RemoveObjectOptions{}).Return(nil)

	keys, err := newExporter(client).ExportAll(ctx, authors, entity.JSONEncoder{})
	require.NoError(t, err)
	assert.Equal(t, []string{"exports/authors/1.json", "exports/authors/2.json"}, keys)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "RemoveObject", ctx, "catalog", "exports/authors/3.yaml", mock.Anything)
}

func TestExporter_ExportAllUploadFails(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)

	client.On("BucketExists", ctx, "catalog").Return(false, nil)
	client.On("MakeBucket", ctx, "catalog", mock.Anything).Return(nil)
	client.On("PutObject", ctx, "catalog", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("quota exceeded"))

	_, err := newExporter(client).ExportAll(ctx, []*catalog.Author{newAuthor(1, "Ann")}, entity.JSONEncoder{})
	assert.ErrorContains(t, err, "failed to upload exports/authors/1.json: quota exceeded")
}

func TestExporter_Fetch(t *testing.T) {
	ctx := context.Background()
	client := new(mocks.Client)
	client.On("GetObject", ctx, "catalog", "exports/authors/1.json", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte(`{"id":1}`))), nil)

	body, err := newExporter(client).Fetch(ctx, "exports/authors/1.json")
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1}`, string(body))

	client.On("GetObject", ctx, "catalog", "missing", mock.Anything).Return(nil, errors.New("no such key"))
	_, err = newExporter(client).Fetch(ctx, "missing")
	assert.ErrorContains(t, err, "failed to fetch missing")
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", catalog.ContentType("json"))
	assert.Equal(t, "application/yaml", catalog.ContentType("yaml"))
	assert.Equal(t, "text/plain", catalog.ContentType("csv"))
}
