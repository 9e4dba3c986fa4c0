package dto

// StudentRequest is the create/update payload for a student. A nil IsActive means true.
type StudentRequest struct {
	Name        string `json:"name" validate:"notblank"`
	ParentName  string `json:"parentName" validate:"notblank"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone10"`
	IsActive    *bool  `json:"isActive"`
	ClassID     string `json:"classId" validate:"notblank"`
}

// Active resolves the isActive default.
func (r StudentRequest) Active() bool {
	return r.IsActive == nil || *r.IsActive
}

// StudentListQuery carries the optional roster filters.
type StudentListQuery struct {
	ClassID string `form:"classId" json:"classId"`
	Active  string `form:"active" json:"active" validate:"omitempty,oneof=true false"`
}
