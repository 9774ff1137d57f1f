package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pathfinder-ai/pathfinder/internal/domain"
	"github.com/pathfinder-ai/pathfinder/internal/genai"
)

const maxSourceImageSize = 10 * 1024 * 1024 // 10MB

// StudioService generates images through the provider and persists them:
// bytes in the FileStore, per-user metadata index in the Persistent Store.
type StudioService struct {
	mu    sync.Mutex
	ai    *genai.Client
	files domain.FileStore
	store domain.KVStore
}

// NewStudioService creates a StudioService.
func NewStudioService(ai *genai.Client, files domain.FileStore, store domain.KVStore) *StudioService {
	return &StudioService{ai: ai, files: files, store: store}
}

// Generate produces an image for the prompt at the requested size, storing
// the result under the owner's index. source, when non-nil, is an uploaded
// image for the model to edit.
func (s *StudioService) Generate(ctx context.Context, ownerMobile, prompt string, size domain.ImageSize, source []byte, sourceType string) (domain.StudioImage, error) {
	if prompt == "" {
		return domain.StudioImage{}, fmt.Errorf("%w: prompt is required", domain.ErrInvalidInput)
	}
	if !size.Valid() {
		return domain.StudioImage{}, fmt.Errorf("%w: unknown image size %q", domain.ErrInvalidInput, size)
	}
	if len(source) > maxSourceImageSize {
		return domain.StudioImage{}, fmt.Errorf("%w: source image exceeds 10MB limit", domain.ErrInvalidInput)
	}
	if source != nil && sourceType != "image/jpeg" && sourceType != "image/png" {
		return domain.StudioImage{}, fmt.Errorf("%w: only JPEG and PNG source images are accepted", domain.ErrInvalidInput)
	}

	data, contentType, err := s.ai.GenerateImage(ctx, prompt, string(size), source, sourceType)
	if err != nil {
		return domain.StudioImage{}, fmt.Errorf("generate image: %w", err)
	}

	image := domain.StudioImage{
		ID:          uuid.NewString(),
		OwnerMobile: ownerMobile,
		Prompt:      prompt,
		Size:        size,
		ContentType: contentType,
		StorageKey:  "studio-images/" + uuid.NewString(),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.files.Save(ctx, image.StorageKey, data); err != nil {
		return domain.StudioImage{}, fmt.Errorf("save image: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex(ctx, ownerMobile)
	if err != nil {
		return domain.StudioImage{}, err
	}
	index = append(index, image)
	if err := s.persistIndex(ctx, ownerMobile, index); err != nil {
		// Best-effort cleanup of the stored bytes.
		s.files.Delete(ctx, image.StorageKey)
		return domain.StudioImage{}, err
	}

	return image, nil
}

// List returns the owner's generated images in creation order.
func (s *StudioService) List(ctx context.Context, ownerMobile string) ([]domain.StudioImage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadIndex(ctx, ownerMobile)
}

// GetFile returns the bytes and content type of one of the owner's images.
func (s *StudioService) GetFile(ctx context.Context, ownerMobile, id string) ([]byte, string, error) {
	s.mu.Lock()
	index, err := s.loadIndex(ctx, ownerMobile)
	s.mu.Unlock()
	if err != nil {
		return nil, "", err
	}

	for _, img := range index {
		if img.ID == id {
			data, err := s.files.Get(ctx, img.StorageKey)
			if err != nil {
				return nil, "", fmt.Errorf("get image bytes: %w", err)
			}
			return data, img.ContentType, nil
		}
	}
	return nil, "", domain.ErrNotFound
}

// Delete removes one of the owner's images, bytes first, then the index
// entry.
func (s *StudioService) Delete(ctx context.Context, ownerMobile, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	index, err := s.loadIndex(ctx, ownerMobile)
	if err != nil {
		return err
	}

	for i, img := range index {
		if img.ID == id {
			if err := s.files.Delete(ctx, img.StorageKey); err != nil {
				return fmt.Errorf("delete image bytes: %w", err)
			}
			index = append(index[:i], index[i+1:]...)
			return s.persistIndex(ctx, ownerMobile, index)
		}
	}
	return domain.ErrNotFound
}

func (s *StudioService) loadIndex(ctx context.Context, ownerMobile string) ([]domain.StudioImage, error) {
	data, err := s.store.Get(ctx, indexKey(ownerMobile))
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		return nil, nil
	default:
		return nil, fmt.Errorf("load studio index: %w", err)
	}

	var index []domain.StudioImage
	if jsonErr := json.Unmarshal(data, &index); jsonErr != nil {
		slog.Warn("stored studio index is unparsable, starting empty", "error", jsonErr)
		return nil, nil
	}
	return index, nil
}

func (s *StudioService) persistIndex(ctx context.Context, ownerMobile string, index []domain.StudioImage) error {
	data, err := json.Marshal(index)
	if err != nil {
		return fmt.Errorf("encode studio index: %w", err)
	}
	if err := s.store.Set(ctx, indexKey(ownerMobile), data); err != nil {
		return fmt.Errorf("persist studio index: %w", err)
	}
	return nil
}

func indexKey(ownerMobile string) string {
	return domain.KeyStudioImages + ":" + ownerMobile
}
