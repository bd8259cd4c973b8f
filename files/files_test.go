package files

import (
	"context"
	"path/filepath"
	"testing"

	"minicloud/file-api/model"
	"minicloud/file-api/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	ownerID    = "owner-user-0001"
	strangerID = "other-user-0002"
)

func testService(t *testing.T) *Service {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.User{}, model.File{}))

	for _, u := range []model.User{
		{ID: ownerID, Email: "owner@example.com", PasswordHash: "x", Enabled: true},
		{ID: strangerID, Email: "other@example.com", PasswordHash: "x", Enabled: true},
	} {
		require.NoError(t, db.Create(&u).Error)
	}

	blobs, err := storage.NewLocal(t.TempDir())
	require.NoError(t, err)

	return &Service{DB: db, Blobs: blobs}
}

func TestUpload(t *testing.T) {
	s := testService(t)

	record, err := s.Upload(context.Background(), []byte("hi\n"), "note", "", ownerID)
	require.NoError(t, err)

	assert.Equal(t, "note", record.Title)
	assert.EqualValues(t, 3, record.Size)
	assert.True(t, len(record.StorageKey) > 0)
	assert.Nil(t, record.ShortCode, "fresh uploads start private")

	// Type comes from the bytes, never from the client
	assert.Contains(t, record.ContentType, "text/")
}

func TestUploadSniffsBinaryType(t *testing.T) {
	s := testService(t)

	// PNG magic bytes
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

	record, err := s.Upload(context.Background(), png, "picture", "", ownerID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", record.ContentType)
}

func TestUploadEmptyTitle(t *testing.T) {
	s := testService(t)

	_, err := s.Upload(context.Background(), []byte("x"), "", "", ownerID)
	assert.ErrorIs(t, err, ErrEmptyTitle)
}

func TestListOwned(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	_, err := s.Upload(ctx, []byte("one"), "first", "", ownerID)
	require.NoError(t, err)
	_, err = s.Upload(ctx, []byte("two"), "second", "", ownerID)
	require.NoError(t, err)
	_, err = s.Upload(ctx, []byte("three"), "not-mine", "", strangerID)
	require.NoError(t, err)

	mine, err := s.ListOwned(ownerID)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	for _, f := range mine {
		assert.Equal(t, ownerID, f.UserID)
	}
}

func TestShareAndResolve(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	record, err := s.Upload(ctx, []byte("hi\n"), "note", "", ownerID)
	require.NoError(t, err)

	shared, err := s.Share(record.ID, ownerID)
	require.NoError(t, err)
	require.NotNil(t, shared.ShortCode)
	assert.Len(t, *shared.ShortCode, 8)

	pub, err := s.ResolvePublic(ctx, *shared.ShortCode)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi\n"), pub.Data)
	assert.Contains(t, pub.ContentType, "text/")
	assert.Equal(t, DispositionInline, pub.Disposition)
	assert.Equal(t, "note", pub.Filename)
}

func TestShareRequiresOwnership(t *testing.T) {
	s := testService(t)

	record, err := s.Upload(context.Background(), []byte("x"), "note", "", ownerID)
	require.NoError(t, err)

	_, err = s.Share(record.ID, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	_, err = s.Share(99999, ownerID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRevokeShare(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	record, err := s.Upload(ctx, []byte("x"), "note", "", ownerID)
	require.NoError(t, err)

	shared, err := s.Share(record.ID, ownerID)
	require.NoError(t, err)
	code := *shared.ShortCode

	revoked, err := s.RevokeShare(record.ID, ownerID)
	require.NoError(t, err)
	assert.Nil(t, revoked.ShortCode)

	_, err = s.ResolvePublic(ctx, code)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveUnknownCode(t *testing.T) {
	s := testService(t)

	_, err := s.ResolvePublic(context.Background(), "nope1234")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ResolvePublic(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveMissingBlob(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	record, err := s.Upload(ctx, []byte("x"), "note", "", ownerID)
	require.NoError(t, err)

	shared, err := s.Share(record.ID, ownerID)
	require.NoError(t, err)

	_, err = s.Blobs.DeleteIfExists(ctx, record.StorageKey)
	require.NoError(t, err)

	_, err = s.ResolvePublic(ctx, *shared.ShortCode)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	record, err := s.Upload(ctx, []byte("x"), "note", "", ownerID)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, record.ID, ownerID))

	_, err = s.Blobs.Get(ctx, record.StorageKey)
	assert.ErrorIs(t, err, storage.ErrNotFound, "blob goes with the record")

	mine, err := s.ListOwned(ownerID)
	require.NoError(t, err)
	assert.Empty(t, mine)
}

func TestDeleteByNonOwner(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	record, err := s.Upload(ctx, []byte("x"), "note", "", ownerID)
	require.NoError(t, err)

	err = s.Delete(ctx, record.ID, strangerID)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Record and blob are untouched
	mine, err := s.ListOwned(ownerID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = s.Blobs.Get(ctx, record.StorageKey)
	assert.NoError(t, err)
}

func TestDeleteWithMissingBlob(t *testing.T) {
	s := testService(t)
	ctx := context.Background()

	record, err := s.Upload(ctx, []byte("x"), "note", "", ownerID)
	require.NoError(t, err)

	_, err = s.Blobs.DeleteIfExists(ctx, record.StorageKey)
	require.NoError(t, err)

	// A vanished blob must not block record deletion
	require.NoError(t, s.Delete(ctx, record.ID, ownerID))
}

func TestShareRotatesCode(t *testing.T) {
	s := testService(t)

	record, err := s.Upload(context.Background(), []byte("x"), "note", "", ownerID)
	require.NoError(t, err)

	first, err := s.Share(record.ID, ownerID)
	require.NoError(t, err)
	firstCode := *first.ShortCode

	second, err := s.Share(record.ID, ownerID)
	require.NoError(t, err)

	assert.NotEqual(t, firstCode, *second.ShortCode)

	// The old code no longer resolves
	_, err = s.ResolvePublic(context.Background(), firstCode)
	assert.ErrorIs(t, err, ErrNotFound)
}
