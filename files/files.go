// Package files implements the ownership and sharing rules around
// uploaded files: who may touch a record, how short links come and go,
// and how public downloads are resolved.
package files

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"minicloud/file-api/model"
	"minicloud/file-api/storage"

	"github.com/gabriel-vasile/mimetype"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	keyCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	keyLength  = 21

	// Short enough to paste around, random enough that codes can't be
	// enumerated by walking a sequence
	shortCodeLength = 8

	// Attempts before giving up on a unique short code. With 62^8
	// possible codes a single retry is already rare
	shortCodeRetries = 5
)

var (
	ErrNotFound     = errors.New("file not found")
	ErrAccessDenied = errors.New("access denied")
	ErrEmptyTitle   = errors.New("no title provided")
)

type Service struct {
	DB    *gorm.DB
	Blobs storage.BlobStore
}

// PublicFile is what an unauthenticated short-link download resolves to.
type PublicFile struct {
	Data        []byte
	ContentType string
	// inline or attachment, decided from the sniffed content type
	Disposition string
	Filename    string
}

// Upload writes the bytes to the blob store under a fresh key, sniffs
// the content type from the bytes themselves and persists the record.
// The blob goes first so a storage failure can never leave a record
// pointing at nothing.
func (s *Service) Upload(ctx context.Context, data []byte, title, description, ownerID string) (*model.File, error) {
	if title == "" {
		return nil, ErrEmptyTitle
	}

	key, err := gonanoid.Generate(keyCharset, keyLength)
	if err != nil {
		return nil, fmt.Errorf("failed to generate storage key, %w", err)
	}

	// Detect from the actual bytes. Client-declared types are easy to
	// spoof and never trusted
	contentType := mimetype.Detect(data).String()

	if err := s.Blobs.Put(ctx, key, bytes.NewReader(data), int64(len(data))); err != nil {
		return nil, fmt.Errorf("failed to store blob, %w", err)
	}

	file := &model.File{
		UserID:      ownerID,
		Title:       title,
		Description: description,
		StorageKey:  key,
		ContentType: contentType,
		Size:        int64(len(data)),
	}

	if err := s.DB.Create(file).Error; err != nil {
		// Orphaned blob is acceptable collateral, but try to clean up
		if _, derr := s.Blobs.DeleteIfExists(ctx, key); derr != nil {
			zap.L().Warn("Failed to clean up blob after failed record create",
				zap.String("key", key), zap.Error(derr))
		}

		return nil, fmt.Errorf("failed to save file record, %w", err)
	}

	return file, nil
}

// ListOwned returns every record owned by the given user.
func (s *Service) ListOwned(ownerID string) ([]model.File, error) {
	var out []model.File

	err := s.DB.
		Where("user_id = ?", ownerID).
		Order("created_at desc").
		Find(&out).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to list files, %w", err)
	}

	return out, nil
}

// Get returns a single record after an ownership check.
func (s *Service) Get(id uint, requesterID string) (*model.File, error) {
	return s.ownedFile(id, requesterID)
}

// Delete removes the blob and then the record. The blob delete is best
// effort: a missing or failing blob never blocks record deletion, an
// orphaned blob beats an inaccessible record.
func (s *Service) Delete(ctx context.Context, id uint, requesterID string) error {
	file, err := s.ownedFile(id, requesterID)
	if err != nil {
		return err
	}

	if _, err := s.Blobs.DeleteIfExists(ctx, file.StorageKey); err != nil {
		zap.L().Warn("Failed to delete blob, removing record anyway",
			zap.String("key", file.StorageKey), zap.Error(err))
	}

	if err := s.DB.Delete(&model.File{}, file.ID).Error; err != nil {
		return fmt.Errorf("failed to delete file record, %w", err)
	}

	return nil
}

// Share puts the record into the shared state under a fresh short code.
// Sharing an already shared file rotates the code.
func (s *Service) Share(id uint, requesterID string) (*model.File, error) {
	file, err := s.ownedFile(id, requesterID)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < shortCodeRetries; attempt++ {
		code, err := gonanoid.Generate(keyCharset, shortCodeLength)
		if err != nil {
			return nil, fmt.Errorf("failed to generate short code, %w", err)
		}

		err = s.DB.
			Model(file).
			Update("short_code", code).
			Error
		if err != nil {
			if isUniqueViolation(err) {
				continue
			}

			return nil, fmt.Errorf("failed to save short code, %w", err)
		}

		file.ShortCode = &code
		return file, nil
	}

	return nil, errors.New("failed to generate a unique short code")
}

// RevokeShare clears the short code, cutting off the public link.
func (s *Service) RevokeShare(id uint, requesterID string) (*model.File, error) {
	file, err := s.ownedFile(id, requesterID)
	if err != nil {
		return nil, err
	}

	err = s.DB.
		Model(file).
		Update("short_code", nil).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to clear short code, %w", err)
	}

	file.ShortCode = nil
	return file, nil
}

// ResolvePublic is the unauthenticated path: short code in, bytes out.
// Unknown codes, revoked codes and missing blobs all look the same to
// the caller.
func (s *Service) ResolvePublic(ctx context.Context, code string) (*PublicFile, error) {
	if code == "" {
		return nil, ErrNotFound
	}

	var file model.File

	err := s.DB.
		Where("short_code = ?", code).
		First(&file).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to look up short code, %w", err)
	}

	data, err := s.Blobs.Get(ctx, file.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			zap.L().Warn("Short code points at a missing blob",
				zap.Uint("fileID", file.ID), zap.String("key", file.StorageKey))
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch blob, %w", err)
	}

	return &PublicFile{
		Data:        data,
		ContentType: file.ContentType,
		Disposition: Disposition(file.ContentType),
		Filename:    file.Title,
	}, nil
}

// ownedFile is the single ownership gate every mutating operation goes
// through.
func (s *Service) ownedFile(id uint, requesterID string) (*model.File, error) {
	var file model.File

	err := s.DB.
		First(&file, id).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to fetch file record, %w", err)
	}

	if file.UserID != requesterID {
		return nil, ErrAccessDenied
	}

	return &file, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// Driver-specific fallbacks: sqlite and postgres both mention the
	// constraint in the message and gorm doesn't always translate it
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
