package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/illancapan/uno-test-full-stack/internal/entity"
)

var ErrImageAPIStatus = errors.New("unexpected image api status")

type ImageSource interface {
	Images(ctx context.Context) ([]entity.Image, error)
}

type httpImageSource struct {
	url    string
	client *http.Client
}

// NewHTTPImageSource reads a JSON array of images from url.
func NewHTTPImageSource(url string, timeout time.Duration) ImageSource {
	return &httpImageSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (that *httpImageSource) Images(ctx context.Context) ([]entity.Image, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, that.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build image request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := that.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch images: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrImageAPIStatus, resp.StatusCode)
	}

	var images []entity.Image
	if err = json.NewDecoder(resp.Body).Decode(&images); err != nil {
		return nil, fmt.Errorf("failed to decode images: %w", err)
	}

	return images, nil
}

type staticImageSource struct {
	images []entity.Image
}

// NewStaticImageSource serves a fixed set of images, used when no image api is configured.
func NewStaticImageSource(images []entity.Image) ImageSource {
	return &staticImageSource{images: images}
}

func (that *staticImageSource) Images(_ context.Context) ([]entity.Image, error) {
	images := make([]entity.Image, len(that.images))
	copy(images, that.images)

	return images, nil
}

// DefaultImages is the built-in image set.
func DefaultImages() []entity.Image {
	titles := []string{
		"bear", "cat", "dog", "duck", "elephant", "fox",
		"giraffe", "koala", "lion", "owl", "panda", "penguin",
	}

	images := make([]entity.Image, 0, len(titles))
	for i, title := range titles {
		images = append(images, entity.Image{
			URL:         fmt.Sprintf("https://placehold.co/300x300/png?text=%s", title),
			UUID:        fmt.Sprintf("builtin-%02d-%s", i+1, title),
			Title:       title,
			ContentType: "image/png",
		})
	}

	return images
}
