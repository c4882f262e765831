package models

// LoginRequest is the sign-in form. Photographers send email and password,
// buyers send the gallery access code.
type LoginRequest struct {
	Role       string `json:"role" binding:"required"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	AccessCode string `json:"access_code"`
}

type SessionResponse struct {
	Token          string `json:"token"`
	Role           string `json:"role"`
	ActiveFolderID string `json:"active_folder_id,omitempty"`
}

type SelectFolderRequest struct {
	FolderID string `json:"folder_id" binding:"required"`
}
