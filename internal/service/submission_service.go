package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ictbranch/intake-api/internal/dto"
	"github.com/ictbranch/intake-api/internal/models"
	"github.com/ictbranch/intake-api/internal/observability"
	"github.com/ictbranch/intake-api/internal/repository"
	cloud "github.com/ictbranch/intake-api/pkg/cloudinary"
)

// maxCertificateBytes is the submit-time size cap for certificate images.
// The upload client enforces a looser hard cap of its own.
const maxCertificateBytes = 5 * 1024 * 1024

var (
	// ErrValidation indicates a required field is missing or malformed.
	// It is raised before any remote service is contacted.
	ErrValidation = errors.New("validation failed")
	// ErrUpload indicates the certificate image was rejected or the
	// object store failed. No record is persisted when it is returned.
	ErrUpload = errors.New("certificate upload failed")
	// ErrPersist indicates the record store rejected the write. Any
	// already-uploaded image is orphaned, not rolled back.
	ErrPersist = errors.New("failed to persist submission")
)

// CertificateUploader sends certificate images to the object store.
type CertificateUploader interface {
	Upload(ctx context.Context, name string, data []byte) (cloud.UploadResult, error)
}

// SubmissionService owns the intake lifecycle for new submissions.
type SubmissionService interface {
	Submit(ctx context.Context, formType string, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error)
}

type submissionService struct {
	submissions repository.SubmissionRepository
	validator   *validator.Validate
	uploader    CertificateUploader
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	tracer      trace.Tracer
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(repo repository.SubmissionRepository, validate *validator.Validate, uploader CertificateUploader, logger zerolog.Logger) SubmissionService {
	return &submissionService{
		submissions: repo,
		validator:   validate,
		uploader:    uploader,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		tracer:      otel.Tracer("github.com/ictbranch/intake-api/internal/service/submission"),
		now:         time.Now,
	}
}

// Submit runs the two-phase intake sequence: validate locally, upload the
// certificate image when present, then persist. The phases are strictly
// ordered and a failed upload aborts the whole submission, so a record
// can never reference a dangling image.
func (s *submissionService) Submit(ctx context.Context, formType string, payload dto.SubmissionCreateRequest, file *multipart.FileHeader) (dto.SubmissionResponse, error) {
	normalizedType := models.NormalizeFormType(formType)

	ctx, span := s.tracer.Start(ctx, "submission.submit", trace.WithAttributes(
		attribute.String("submission.form_type", normalizedType),
		attribute.Bool("submission.has_file", file != nil),
	))
	defer span.End()

	if !models.IsValidFormType(normalizedType) {
		span.SetStatus(codes.Error, "unknown form type")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: unknown form type %q", ErrValidation, formType)
	}

	if err := s.validator.Struct(payload); err != nil {
		observability.Submissions().WithLabelValues(normalizedType, "rejected").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation failed")
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var certificateURL *string
	if file != nil {
		result, err := s.uploadCertificate(ctx, file)
		if err != nil {
			observability.Submissions().WithLabelValues(normalizedType, "upload_failed").Inc()
			span.RecordError(err)
			span.SetStatus(codes.Error, "upload failed")
			return dto.SubmissionResponse{}, err
		}
		certificateURL = &result.URL
		span.SetAttributes(attribute.String("submission.certificate_public_id", result.PublicID))
	}

	now := s.now()
	submission := models.Submission{
		FormType:         normalizedType,
		Status:           models.StatusPending,
		NameWithInitial:  strings.TrimSpace(payload.NameWithInitial),
		Email:            strings.TrimSpace(payload.Email),
		IDNumber:         strings.TrimSpace(payload.IDNumber),
		Address:          s.sanitizer.Sanitize(payload.Address),
		Phone1:           strings.TrimSpace(payload.Phone1),
		Phone2:           strings.TrimSpace(payload.Phone2),
		Phone3:           strings.TrimSpace(payload.Phone3),
		Trained:          payload.Trained,
		Medium:           payload.Medium,
		DateOfList:       payload.DateOfList,
		Remarks:          s.sanitizer.Sanitize(payload.Remarks),
		CertificateImage: certificateURL,
		CreatedAt:        now,
		SubmittedAt:      now.UTC().Format(time.RFC3339),
	}

	if err := s.submissions.Create(ctx, &submission); err != nil {
		observability.Submissions().WithLabelValues(normalizedType, "persist_failed").Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "persist failed")
		if certificateURL != nil {
			// The uploaded asset has no owning record now; operators
			// reclaim it out of band.
			s.logger.Warn().
				Str("certificate_url", *certificateURL).
				Msg("submission persist failed after upload, asset orphaned")
		}
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrPersist, err)
	}

	observability.Submissions().WithLabelValues(normalizedType, "accepted").Inc()
	span.SetStatus(codes.Ok, "submitted")

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Str("form_type", submission.FormType).
		Msg("submission created")

	return dto.NewSubmissionResponse(submission), nil
}

func (s *submissionService) uploadCertificate(ctx context.Context, file *multipart.FileHeader) (cloud.UploadResult, error) {
	start := time.Now()
	defer func() {
		observability.UploadLatency().Observe(time.Since(start).Seconds())
	}()

	if file.Size > maxCertificateBytes {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return cloud.UploadResult{}, fmt.Errorf("%w: file size must be less than 5MB", ErrUpload)
	}

	handle, err := file.Open()
	if err != nil {
		return cloud.UploadResult{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, maxCertificateBytes+1)); err != nil {
		return cloud.UploadResult{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}
	if int64(buf.Len()) > maxCertificateBytes {
		observability.UploadRejected().WithLabelValues("size").Inc()
		return cloud.UploadResult{}, fmt.Errorf("%w: file size must be less than 5MB", ErrUpload)
	}

	if !strings.HasPrefix(mimetype.Detect(buf.Bytes()).String(), "image/") {
		observability.UploadRejected().WithLabelValues("type").Inc()
		return cloud.UploadResult{}, fmt.Errorf("%w: file must be an image", ErrUpload)
	}

	result, err := s.uploader.Upload(ctx, file.Filename, buf.Bytes())
	if err != nil {
		observability.UploadRejected().WithLabelValues("storage").Inc()
		return cloud.UploadResult{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	return result, nil
}
