package dto

// LoginRequest payload. Field names are owned by the auth collaborator.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
