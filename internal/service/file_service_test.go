package service_test

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripforge/marketplace-api/internal/repository"
	"github.com/tripforge/marketplace-api/internal/service"
	"go.uber.org/zap"
)

// memoryStorage keeps uploaded blobs in a map, standing in for the local
// and Azure backends behind the same interface.
type memoryStorage struct {
	blobs map[string][]byte
	seq   int
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{blobs: map[string][]byte{}}
}

func (s *memoryStorage) Upload(_ context.Context, filename, _ string, data io.Reader) (string, int64, error) {
	content, err := io.ReadAll(data)
	if err != nil {
		return "", 0, err
	}
	s.seq++
	path := fmt.Sprintf("uploads/%d/%s", s.seq, filename)
	s.blobs[path] = content
	return path, int64(len(content)), nil
}

func (s *memoryStorage) Download(_ context.Context, storagePath string) (io.ReadCloser, error) {
	content, ok := s.blobs[storagePath]
	if !ok {
		return nil, fmt.Errorf("blob not found: %s", storagePath)
	}
	return io.NopCloser(bytes.NewReader(content)), nil
}

func (s *memoryStorage) Delete(_ context.Context, storagePath string) error {
	delete(s.blobs, storagePath)
	return nil
}

func setupFileService(t *testing.T, env *testEnv) (*service.FileService, *memoryStorage) {
	store := newMemoryStorage()
	fileRepo := repository.NewFileRepository(env.db)
	return service.NewFileService(fileRepo, env.itineraryRepo, store, zap.NewNop()), store
}

func TestFileService_Upload(t *testing.T) {
	t.Run("stores standalone files for the uploader", func(t *testing.T) {
		env := setupTestEnv(t)
		files, store := setupFileService(t, env)
		ctx := agentContext("agent-1")

		dto, err := files.Upload(ctx, "voucher.pdf", "application/pdf", strings.NewReader("pdf-bytes"), nil)
		require.NoError(t, err)

		assert.Equal(t, "voucher.pdf", dto.FileName)
		assert.Equal(t, "application/pdf", dto.ContentType)
		assert.Equal(t, int64(len("pdf-bytes")), dto.Size)
		assert.Equal(t, "agent-1", dto.UploadedBy)
		assert.Len(t, store.blobs, 1)
	})

	t.Run("attaches files to an owned itinerary", func(t *testing.T) {
		env := setupTestEnv(t)
		files, _ := setupFileService(t, env)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := files.Upload(ctx, "map.png", "image/png", strings.NewReader("png"), &itineraryID)
		require.NoError(t, err)

		listed, err := files.ListByItinerary(ctx, itineraryID)
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, "map.png", listed[0].FileName)
	})

	t.Run("rejects attaching to another agent's itinerary", func(t *testing.T) {
		env := setupTestEnv(t)
		files, store := setupFileService(t, env)
		itineraryID := createItinerary(t, env, "agent-1")

		_, err := files.Upload(agentContext("agent-2"), "sneaky.txt", "text/plain", strings.NewReader("x"), &itineraryID)
		assert.ErrorIs(t, err, service.ErrForbidden)
		assert.Empty(t, store.blobs)
	})

	t.Run("attachments are allowed while the itinerary is locked", func(t *testing.T) {
		env := setupTestEnv(t)
		files, _ := setupFileService(t, env)
		itineraryID := createItinerary(t, env, "agent-1")
		ctx := agentContext("agent-1")

		_, err := env.itineraryService.Lock(ctx, itineraryID)
		require.NoError(t, err)

		_, err = files.Upload(ctx, "confirmation.pdf", "application/pdf", strings.NewReader("pdf"), &itineraryID)
		assert.NoError(t, err)
	})

	t.Run("requires authentication", func(t *testing.T) {
		env := setupTestEnv(t)
		files, _ := setupFileService(t, env)

		_, err := files.Upload(context.Background(), "x.txt", "text/plain", strings.NewReader("x"), nil)
		assert.ErrorIs(t, err, service.ErrUnauthorized)
	})
}

func TestFileService_Download(t *testing.T) {
	env := setupTestEnv(t)
	files, _ := setupFileService(t, env)
	ctx := agentContext("agent-1")

	uploaded, err := files.Upload(ctx, "notes.txt", "text/plain", strings.NewReader("hello"), nil)
	require.NoError(t, err)

	reader, filename, contentType, err := files.Download(ctx, uuid.MustParse(uploaded.ID))
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)

	assert.Equal(t, "hello", string(content))
	assert.Equal(t, "notes.txt", filename)
	assert.Equal(t, "text/plain", contentType)
}

func TestFileService_Access(t *testing.T) {
	t.Run("standalone files are private to the uploader", func(t *testing.T) {
		env := setupTestEnv(t)
		files, _ := setupFileService(t, env)

		uploaded, err := files.Upload(agentContext("agent-1"), "private.txt", "text/plain", strings.NewReader("x"), nil)
		require.NoError(t, err)

		_, err = files.GetByID(agentContext("agent-2"), uuid.MustParse(uploaded.ID))
		assert.ErrorIs(t, err, service.ErrForbidden)

		_, err = files.GetByID(adminContext(), uuid.MustParse(uploaded.ID))
		assert.NoError(t, err)
	})

	t.Run("attached files follow itinerary ownership", func(t *testing.T) {
		env := setupTestEnv(t)
		files, _ := setupFileService(t, env)
		itineraryID := createItinerary(t, env, "agent-1")

		uploaded, err := files.Upload(agentContext("agent-1"), "shared.txt", "text/plain", strings.NewReader("x"), &itineraryID)
		require.NoError(t, err)

		_, err = files.GetByID(agentContext("agent-2"), uuid.MustParse(uploaded.ID))
		assert.ErrorIs(t, err, service.ErrForbidden)
	})

	t.Run("unknown file reports not found", func(t *testing.T) {
		env := setupTestEnv(t)
		files, _ := setupFileService(t, env)

		_, err := files.GetByID(agentContext("agent-1"), newUUID())
		assert.ErrorIs(t, err, service.ErrFileNotFound)
	})
}

func TestFileService_Delete(t *testing.T) {
	env := setupTestEnv(t)
	files, store := setupFileService(t, env)
	ctx := agentContext("agent-1")

	uploaded, err := files.Upload(ctx, "old.txt", "text/plain", strings.NewReader("x"), nil)
	require.NoError(t, err)
	require.Len(t, store.blobs, 1)

	err = files.Delete(ctx, uuid.MustParse(uploaded.ID))
	require.NoError(t, err)

	assert.Empty(t, store.blobs)

	_, err = files.GetByID(ctx, uuid.MustParse(uploaded.ID))
	assert.ErrorIs(t, err, service.ErrFileNotFound)
}
