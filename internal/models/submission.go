package models

import (
	"strings"
	"time"
)

// Submission represents one applicant's record for a specific form type.
type Submission struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	FormType string `gorm:"size:32;not null;index:idx_submissions_type_status" json:"form_type"`
	Status   string `gorm:"size:32;not null;default:pending;index:idx_submissions_type_status" json:"status"`

	NameWithInitial string `gorm:"size:255;not null" json:"name_with_initial"`
	Email           string `gorm:"size:255;not null" json:"email"`
	IDNumber        string `gorm:"size:64;not null" json:"id_number"`
	Address         string `gorm:"type:text" json:"address"`

	Phone1 string `gorm:"size:32;not null" json:"phone1"`
	Phone2 string `gorm:"size:32" json:"phone2"`
	Phone3 string `gorm:"size:32" json:"phone3"`

	Trained    bool   `json:"trained"`
	Medium     string `gorm:"size:32" json:"medium"`
	DateOfList string `gorm:"size:32" json:"date_of_list"`

	Remarks          string  `gorm:"type:text" json:"remarks"`
	CertificateImage *string `gorm:"size:512" json:"certificate_image"`

	CreatedAt   time.Time  `json:"created_at"`
	SubmittedAt string     `gorm:"size:64" json:"submitted_at"`
	ApprovedAt  *time.Time `json:"approved_at"`
	ApprovedBy  string     `gorm:"size:128" json:"approved_by"`
	RejectedAt  *time.Time `json:"rejected_at"`
	RejectedBy  string     `gorm:"size:128" json:"rejected_by"`
	LastUpdated *time.Time `json:"last_updated"`
}

const (
	// FormTypeTOT is the training-of-trainers intake form.
	FormTypeTOT = "TOT"
	// FormTypeTechnical is the technical training intake form.
	FormTypeTechnical = "TECHNICAL"
	// FormTypeWorkshop is the workshop intake form.
	FormTypeWorkshop = "WORKSHOP"
	// FormTypeSeminar is the seminar intake form.
	FormTypeSeminar = "SEMINAR"
)

const (
	// StatusPending indicates the submission awaits administrator review.
	StatusPending = "pending"
	// StatusApproved indicates an administrator accepted the submission.
	StatusApproved = "approved"
	// StatusRejected indicates an administrator declined the submission.
	StatusRejected = "rejected"
)

// NormalizeFormType uppercases a form type so stored values always match queries.
func NormalizeFormType(formType string) string {
	return strings.ToUpper(strings.TrimSpace(formType))
}

// IsValidFormType reports whether the normalized form type is one of the four intake forms.
func IsValidFormType(formType string) bool {
	switch NormalizeFormType(formType) {
	case FormTypeTOT, FormTypeTechnical, FormTypeWorkshop, FormTypeSeminar:
		return true
	default:
		return false
	}
}

// IsPending reports whether the submission still awaits review.
func (s Submission) IsPending() bool {
	return s.Status == StatusPending
}

// IsApproved reports whether the submission has been accepted.
func (s Submission) IsApproved() bool {
	return s.Status == StatusApproved
}

// OrderingTime returns the instant listings sort by: approval time for
// approved records, creation time otherwise. The zero time stands in for
// missing timestamps so callers sort them as oldest. Records written by
// older clients may only carry the ISO submission snapshot, which is
// parsed as a fallback.
func (s Submission) OrderingTime() time.Time {
	if s.Status == StatusApproved {
		if s.ApprovedAt != nil {
			return *s.ApprovedAt
		}
		return time.Time{}
	}
	if !s.CreatedAt.IsZero() {
		return s.CreatedAt
	}
	if parsed, err := time.Parse(time.RFC3339, s.SubmittedAt); err == nil {
		return parsed
	}
	return time.Time{}
}
