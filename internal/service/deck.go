package service

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"

	"github.com/illancapan/uno-test-full-stack/internal/apperror"
	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

type DeckService interface {
	BuildDeck(ctx context.Context, pairs int) ([]entity.Card, error)
}

type deckService struct {
	source  ImageSource
	newID   func() string
	shuffle func(n int, swap func(i, j int))
}

func NewDeckService(source ImageSource) DeckService {
	return &deckService{
		source:  source,
		newID:   uuid.NewString,
		shuffle: rand.Shuffle, //nolint: gosec // it's ok, card order is not a secret
	}
}

// BuildDeck picks pairs distinct images at random and returns two face-down cards per image, shuffled.
func (that *deckService) BuildDeck(ctx context.Context, pairs int) ([]entity.Card, error) {
	if pairs <= 0 {
		return nil, fmt.Errorf("%w: %d pairs", apperror.ErrInvalidDeckSize, pairs)
	}

	images, err := that.source.Images(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load images: %w", err)
	}

	images = distinctImages(images)
	if len(images) < pairs {
		return nil, fmt.Errorf("%w: have %d, need %d", apperror.ErrNotEnoughImages, len(images), pairs)
	}

	that.shuffle(len(images), func(i, j int) {
		images[i], images[j] = images[j], images[i]
	})

	deck := make([]entity.Card, 0, pairs*2)
	for _, image := range images[:pairs] {
		deck = append(deck,
			entity.Card{ID: that.newID(), Image: image},
			entity.Card{ID: that.newID(), Image: image},
		)
	}

	that.shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})

	return deck, nil
}

// distinctImages - drops images without an identity and repeated identities.
func distinctImages(images []entity.Image) []entity.Image {
	seen := make(map[string]struct{}, len(images))
	result := make([]entity.Image, 0, len(images))

	for _, image := range images {
		key := strings.TrimSpace(image.UUID)
		if key == "" {
			continue
		}

		if _, ok := seen[key]; ok {
			continue
		}

		seen[key] = struct{}{}
		result = append(result, image)
	}

	return result
}
