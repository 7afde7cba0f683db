package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"gonadarena/internal/domain"
	"gonadarena/internal/store"
)

const maxImageBytes = 10 << 20

var (
	ErrInvalidImageURL = errors.New("invalid image url")
	ErrImageFetch      = errors.New("failed to fetch image")
)

type ImageService struct {
	store  *store.ImageStore
	client *fasthttp.Client
	log    zerolog.Logger
}

func NewImageService(images *store.ImageStore, log zerolog.Logger) *ImageService {
	return &ImageService{
		store: images,
		client: &fasthttp.Client{
			MaxConnsPerHost:     32,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: time.Minute,
			MaxResponseBodySize: maxImageBytes,
		},
		log: log.With().Str("service", "image").Logger(),
	}
}

func (s *ImageService) List() map[string]domain.GladiatorImage {
	return s.store.All()
}

// Resolve returns the image URL shown for address.
func (s *ImageService) Resolve(address string) string {
	return s.store.Resolve(domain.ImageKey(strings.TrimSpace(address)))
}

// Put stores an image for address. Empty URLs fall back to the default
// image; otherwise the URL must be absolute or a site-relative path.
func (s *ImageService) Put(address, imageURL, name string) (domain.GladiatorImage, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return domain.GladiatorImage{}, domain.ErrInvalidAddress
	}
	imageURL = strings.TrimSpace(imageURL)
	if imageURL != "" && !strings.HasPrefix(imageURL, "/") && !govalidator.IsURL(imageURL) {
		return domain.GladiatorImage{}, ErrInvalidImageURL
	}
	return s.store.Put(address, imageURL, strings.TrimSpace(name))
}

// Fetch downloads the image at url for proxying.
func (s *ImageService) Fetch(ctx context.Context, url string) ([]byte, error) {
	if !isHTTPURL(url) {
		return nil, ErrInvalidImageURL
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = s.client.DoDeadline(req, resp, deadline)
	} else {
		err = s.client.Do(req, resp)
	}
	if err != nil {
		s.log.Warn().Err(err).Str("url", url).Msg("image fetch failed")
		return nil, fmt.Errorf("%w: %w", ErrImageFetch, err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		s.log.Warn().Int("status", resp.StatusCode()).Str("url", url).Msg("image fetch failed")
		return nil, fmt.Errorf("%w: status %d", ErrImageFetch, resp.StatusCode())
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return body, nil
}

func isHTTPURL(url string) bool {
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	return govalidator.IsRequestURL(url)
}
