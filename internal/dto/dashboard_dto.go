package dto

// FormTypeCounts summarizes one form type's submissions by status.
type FormTypeCounts struct {
	FormType string `json:"form_type"`
	Pending  int64  `json:"pending"`
	Approved int64  `json:"approved"`
	Rejected int64  `json:"rejected"`
}

// DashboardOverviewResponse aggregates counts across all four intake forms.
type DashboardOverviewResponse struct {
	Forms         []FormTypeCounts `json:"forms"`
	TotalPending  int64            `json:"total_pending"`
	TotalApproved int64            `json:"total_approved"`
	TotalRejected int64            `json:"total_rejected"`
}
