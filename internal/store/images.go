package store

import (
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"

	"gonadarena/internal/domain"
)

type imagesDocument struct {
	Images map[string]domain.GladiatorImage `json:"images"`
}

// ImageStore keeps the address to image mapping in a single JSON document.
type ImageStore struct {
	path         string
	defaultImage string
	clock        clock.Clock
	log          zerolog.Logger

	mu sync.Mutex
}

func NewImageStore(path, defaultImage string, clk clock.Clock, log zerolog.Logger) *ImageStore {
	return &ImageStore{
		path:         path,
		defaultImage: defaultImage,
		clock:        clk,
		log:          log.With().Str("store", "images").Logger(),
	}
}

// All returns every stored image. An unreadable document reads as empty.
func (s *ImageStore) All() map[string]domain.GladiatorImage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load().Images
}

func (s *ImageStore) load() imagesDocument {
	var doc imagesDocument
	if err := readJSON(s.path, &doc); err != nil {
		s.log.Warn().Err(err).Msg("image document unreadable, starting empty")
		doc = imagesDocument{}
	}
	if doc.Images == nil {
		doc.Images = make(map[string]domain.GladiatorImage)
	}
	return doc
}

// Put stores an image for address, defaulting the URL and name when empty.
func (s *ImageStore) Put(address, imageURL, name string) (domain.GladiatorImage, error) {
	if imageURL == "" {
		imageURL = s.defaultImage
	}
	if name == "" {
		name = domain.DefaultGladiatorName(address)
	}
	img := domain.GladiatorImage{
		ID:        address,
		ImageURL:  imageURL,
		Timestamp: s.clock.Now().UTC(),
		Name:      name,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	doc.Images[domain.ImageKey(address)] = img
	if err := writeJSON(s.path, doc); err != nil {
		return domain.GladiatorImage{}, err
	}
	return img, nil
}

// Resolve returns the image URL for key, falling back to the default entry
// and then to the configured default image.
func (s *ImageStore) Resolve(key string) string {
	images := s.All()
	if img, ok := images[key]; ok && img.ImageURL != "" {
		return img.ImageURL
	}
	if img, ok := images[domain.DefaultImageKey]; ok && img.ImageURL != "" {
		return img.ImageURL
	}
	return s.defaultImage
}
