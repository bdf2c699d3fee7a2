package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"localtradefinder-api/internal/adapters/supabase"
	"localtradefinder-api/internal/models"
)

// Profile photo storage
const (
	PhotoBucket = "profile-photos"
	PhotoPrefix = "profiles"

	// MaxEncodedPhotoSize bounds the base64 text, roughly 2MB decoded
	MaxEncodedPhotoSize = 3_000_000
)

// Upload rejection messages
const (
	PhotoTooLargeMessage = "Image too large. Please use a smaller photo."
	NotAnImageMessage    = "Uploaded file is not a supported image."
)

// photoService implements the PhotoService interface
type photoService struct {
	storage supabase.ObjectStorage
	logger  *logrus.Logger
}

// NewPhotoService creates a new photo service instance
func NewPhotoService(storage supabase.ObjectStorage, logger *logrus.Logger) PhotoService {
	return &photoService{
		storage: storage,
		logger:  logger,
	}
}

// Upload decodes, sniffs and stores the photo under a fresh random name
func (s *photoService) Upload(ctx context.Context, upload *models.PhotoUpload) (string, error) {
	if upload == nil {
		return "", fmt.Errorf("photo upload cannot be nil")
	}

	if len(upload.Base64) > MaxEncodedPhotoSize {
		return "", &models.ValidationError{Field: "base64", Message: PhotoTooLargeMessage}
	}

	data, err := decodeBase64(upload.Base64)
	if err != nil || len(data) == 0 {
		return "", &models.ValidationError{Field: "base64", Message: models.InvalidImageMessage}
	}

	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") || detected.Is("image/svg+xml") {
		s.logger.WithFields(logrus.Fields{
			"declared": upload.MIME,
			"detected": detected.String(),
		}).Warn("Upload content is not an image")
		return "", &models.ValidationError{Field: "base64", Message: NotAnImageMessage}
	}

	path := fmt.Sprintf("%s/%s.%s", PhotoPrefix, uuid.New().String(), upload.Extension())
	err = s.storage.Store(ctx, PhotoBucket, path, data, &supabase.StoreOptions{
		ContentType: upload.MIME,
		Upsert:      true,
	})
	if err != nil {
		return "", err
	}

	s.logger.WithFields(logrus.Fields{
		"path": path,
		"size": len(data),
	}).Info("Profile photo uploaded")

	return s.storage.PublicURL(PhotoBucket, path), nil
}

// decodeBase64 accepts padded or unpadded, standard or URL-safe alphabets
func decodeBase64(s string) ([]byte, error) {
	s = strings.Join(strings.Fields(s), "")

	var lastErr error
	for _, enc := range []*base64.Encoding{
		base64.StdEncoding,
		base64.RawStdEncoding,
		base64.URLEncoding,
		base64.RawURLEncoding,
	} {
		data, err := enc.DecodeString(s)
		if err == nil {
			return data, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
