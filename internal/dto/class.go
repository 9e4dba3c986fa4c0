package dto

// ClassRequest is the create/update payload for a class.
type ClassRequest struct {
	Name      string `json:"name" validate:"notblank"`
	Fee       Number `json:"fee" validate:"required,decimal,nonnegative"`
	StartDate string `json:"startDate" validate:"required,datetime=2006-01-02"`
}
