package dto

import (
	"time"

	"github.com/ictbranch/intake-api/internal/models"
)

// SubmissionCreateRequest describes the multipart payload for a public intake form.
type SubmissionCreateRequest struct {
	NameWithInitial string `form:"name_with_initial" validate:"required"`
	Email           string `form:"email" validate:"required,email"`
	IDNumber        string `form:"id_number" validate:"required"`
	Address         string `form:"address"`
	Phone1          string `form:"phone1" validate:"required"`
	Phone2          string `form:"phone2"`
	Phone3          string `form:"phone3"`
	Trained         bool   `form:"trained"`
	Medium          string `form:"medium" validate:"omitempty,oneof=English Sinhala Tamil Other"`
	DateOfList      string `form:"date_of_list"`
	Remarks         string `form:"remarks"`
}

// SubmissionPatchRequest carries a partial administrator edit. Only
// non-nil fields are written.
type SubmissionPatchRequest struct {
	NameWithInitial *string `json:"name_with_initial"`
	Email           *string `json:"email"`
	IDNumber        *string `json:"id_number"`
	Address         *string `json:"address"`
	Phone1          *string `json:"phone1"`
	Phone2          *string `json:"phone2"`
	Phone3          *string `json:"phone3"`
	Trained         *bool   `json:"trained"`
	Medium          *string `json:"medium"`
	DateOfList      *string `json:"date_of_list"`
	Remarks         *string `json:"remarks"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p SubmissionPatchRequest) IsEmpty() bool {
	return p.NameWithInitial == nil && p.Email == nil && p.IDNumber == nil &&
		p.Address == nil && p.Phone1 == nil && p.Phone2 == nil && p.Phone3 == nil &&
		p.Trained == nil && p.Medium == nil && p.DateOfList == nil && p.Remarks == nil
}

// Fields converts the patch into a column/value map for a partial update.
func (p SubmissionPatchRequest) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if p.NameWithInitial != nil {
		fields["name_with_initial"] = *p.NameWithInitial
	}
	if p.Email != nil {
		fields["email"] = *p.Email
	}
	if p.IDNumber != nil {
		fields["id_number"] = *p.IDNumber
	}
	if p.Address != nil {
		fields["address"] = *p.Address
	}
	if p.Phone1 != nil {
		fields["phone1"] = *p.Phone1
	}
	if p.Phone2 != nil {
		fields["phone2"] = *p.Phone2
	}
	if p.Phone3 != nil {
		fields["phone3"] = *p.Phone3
	}
	if p.Trained != nil {
		fields["trained"] = *p.Trained
	}
	if p.Medium != nil {
		fields["medium"] = *p.Medium
	}
	if p.DateOfList != nil {
		fields["date_of_list"] = *p.DateOfList
	}
	if p.Remarks != nil {
		fields["remarks"] = *p.Remarks
	}
	return fields
}

// SubmissionResponse is returned to API clients when viewing submissions.
type SubmissionResponse struct {
	ID               uint       `json:"id"`
	FormType         string     `json:"form_type"`
	Status           string     `json:"status"`
	NameWithInitial  string     `json:"name_with_initial"`
	Email            string     `json:"email"`
	IDNumber         string     `json:"id_number"`
	Address          string     `json:"address"`
	Phone1           string     `json:"phone1"`
	Phone2           string     `json:"phone2"`
	Phone3           string     `json:"phone3"`
	Trained          bool       `json:"trained"`
	Medium           string     `json:"medium"`
	DateOfList       string     `json:"date_of_list"`
	Remarks          string     `json:"remarks"`
	CertificateImage *string    `json:"certificate_image"`
	CreatedAt        time.Time  `json:"created_at"`
	SubmittedAt      string     `json:"submitted_at"`
	ApprovedAt       *time.Time `json:"approved_at"`
	ApprovedBy       string     `json:"approved_by,omitempty"`
	RejectedAt       *time.Time `json:"rejected_at"`
	RejectedBy       string     `json:"rejected_by,omitempty"`
	LastUpdated      *time.Time `json:"last_updated"`
}

// NewSubmissionResponse converts a Submission model into a DTO.
func NewSubmissionResponse(model models.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:               model.ID,
		FormType:         model.FormType,
		Status:           model.Status,
		NameWithInitial:  model.NameWithInitial,
		Email:            model.Email,
		IDNumber:         model.IDNumber,
		Address:          model.Address,
		Phone1:           model.Phone1,
		Phone2:           model.Phone2,
		Phone3:           model.Phone3,
		Trained:          model.Trained,
		Medium:           model.Medium,
		DateOfList:       model.DateOfList,
		Remarks:          model.Remarks,
		CertificateImage: model.CertificateImage,
		CreatedAt:        model.CreatedAt,
		SubmittedAt:      model.SubmittedAt,
		ApprovedAt:       model.ApprovedAt,
		ApprovedBy:       model.ApprovedBy,
		RejectedAt:       model.RejectedAt,
		RejectedBy:       model.RejectedBy,
		LastUpdated:      model.LastUpdated,
	}
}

// NewSubmissionResponseSlice converts a slice of models preserving order.
func NewSubmissionResponseSlice(submissions []models.Submission) []SubmissionResponse {
	responses := make([]SubmissionResponse, 0, len(submissions))
	for _, submission := range submissions {
		responses = append(responses, NewSubmissionResponse(submission))
	}
	return responses
}
