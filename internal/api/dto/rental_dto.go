package dto

// CreateRentalRequest payload.
type CreateRentalRequest struct {
	UserID          int64    `json:"userId"`
	RentalDate      string   `json:"rentalDate"`
	RentalStartTime string   `json:"rentalStartTime"`
	RentalPurpose   string   `json:"rentalPurpose"`
	RentalUser      string   `json:"rentalUser"`
	RentalUsers     []string `json:"rentalUsers"`
	LapName         string   `json:"lapName"`
}

// UpdateRentalRequest is the partial field set of an admin update. Nil
// fields are left untouched. The workflow flags are settable here, unlike
// on create.
type UpdateRentalRequest struct {
	UserID          *int64    `json:"userId"`
	RentalDate      *string   `json:"rentalDate"`
	RentalStartTime *string   `json:"rentalStartTime"`
	RentalPurpose   *string   `json:"rentalPurpose"`
	RentalUser      *string   `json:"rentalUser"`
	RentalUsers     *[]string `json:"rentalUsers"`
	LapName         *string   `json:"lapName"`
	PendingDeletion *bool     `json:"pendingDeletion"`
	PendingApproval *bool     `json:"pendingApproval"`
}
