package cloudinary

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
)

// MaxUploadBytes is the hard size cap enforced at the upload boundary.
// Callers are expected to pre-check with a tighter limit; this cap is
// re-enforced here so a misbehaving caller cannot push oversized assets.
const MaxUploadBytes = 10 * 1024 * 1024

var (
	// ErrNotAnImage indicates the payload content is not an image.
	ErrNotAnImage = fmt.Errorf("file must be an image")
	// ErrTooLarge indicates the payload exceeds MaxUploadBytes.
	ErrTooLarge = fmt.Errorf("file size must be less than %d bytes", MaxUploadBytes)
)

// Config contains credentials required to talk to Cloudinary.
type Config struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

// UploadResult describes a stored asset. URL is the permanent secure URL
// to embed in records; PublicID identifies the asset for later cleanup.
type UploadResult struct {
	URL      string
	PublicID string
	Format   string
	Bytes    int64
	Width    int
	Height   int
}

// Service uploads certificate images to Cloudinary.
type Service struct {
	client *cloudinary.Cloudinary
	folder string
	logger zerolog.Logger
}

// New constructs a Cloudinary service instance.
func New(cfg Config, logger zerolog.Logger) (*Service, error) {
	if cfg.CloudName == "" || cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, fmt.Errorf("cloudinary credentials must be provided")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cloudinary: %w", err)
	}

	return &Service{
		client: cld,
		folder: cfg.Folder,
		logger: logger.With().Str("component", "cloudinary").Logger(),
	}, nil
}

// Upload validates and sends the payload to Cloudinary, returning the
// stored asset's permanent URL and metadata.
func (s *Service) Upload(ctx context.Context, name string, data []byte) (UploadResult, error) {
	if int64(len(data)) > MaxUploadBytes {
		return UploadResult{}, ErrTooLarge
	}

	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return UploadResult{}, ErrNotAnImage
	}

	params := uploader.UploadParams{
		Folder:       strings.Trim(s.folder, "/"),
		PublicID:     buildPublicID(name),
		ResourceType: "image",
	}

	result, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), params)
	if err != nil {
		return UploadResult{}, fmt.Errorf("failed to upload asset: %w", err)
	}

	s.logger.Info().
		Str("public_id", result.PublicID).
		Int("bytes", result.Bytes).
		Msg("certificate uploaded to cloudinary")

	return UploadResult{
		URL:      result.SecureURL,
		PublicID: result.PublicID,
		Format:   result.Format,
		Bytes:    int64(result.Bytes),
		Width:    result.Width,
		Height:   result.Height,
	}, nil
}

func buildPublicID(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return '-'
	}, base)

	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("certificate-%d", time.Now().Unix())
	}

	return fmt.Sprintf("%s-%d", base, time.Now().Unix())
}
