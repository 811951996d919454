package dataset

import (
	"context"
	"io"
	"strings"
	"testing"

	"goclean/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreAndOpen(t *testing.T) {
	s := NewLocalFileStorageWithPath(t.TempDir())
	ctx := context.Background()

	id, err := s.Store(ctx, strings.NewReader("a,b\n1,2\n"), "../../etc/data.csv")
	require.NoError(t, err)

	rc, name, err := s.Open(ctx, id)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)

	assert.Equal(t, "data.csv", name)
	assert.Equal(t, "a,b\n1,2\n", string(body))

	ok, err := s.Exists(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, s.Delete(ctx, id))
	_, _, err = s.Open(ctx, id)
	assert.ErrorIs(t, err, core.ErrUploadNotFound)
}

func TestStoreEnforcesSizeLimit(t *testing.T) {
	s := NewLocalFileStorage(&StorageConfig{BasePath: t.TempDir(), MaxFileSize: 4})
	_, err := s.Store(context.Background(), strings.NewReader("12345"), "big.csv")
	assert.True(t, core.IsInputError(err))
}

func TestOpenRejectsMalformedReference(t *testing.T) {
	s := NewLocalFileStorageWithPath(t.TempDir())
	_, _, err := s.Open(context.Background(), core.UploadID("../secret"))
	assert.True(t, core.IsInputError(err))

	_, _, err = s.Open(context.Background(), core.NewUploadID())
	assert.True(t, core.IsNotFoundError(err))
}
