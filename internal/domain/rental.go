package domain

import "time"

// Rental is the aggregate for lab-room rental requests.
//
// PendingApproval and PendingDeletion are independent booleans, not a single
// state enum. Both start false on creation. Setting PendingDeletion true via
// an admin update removes the record within the same call, so there is no
// observable transition back to false.
type Rental struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"userId"`
	RentalDate      string    `json:"rentalDate"`
	RentalStartTime string    `json:"rentalStartTime"`
	RentalPurpose   string    `json:"rentalPurpose"`
	RentalUser      string    `json:"rentalUser"`
	RentalUsers     []string  `json:"rentalUsers"`
	LapName         string    `json:"lapName"`
	PendingDeletion bool      `json:"pendingDeletion"`
	PendingApproval bool      `json:"pendingApproval"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}
