package models

import "time"

// User represents a registered account
// @Description User account structure
type User struct {
	ID               string     `json:"id" example:"8b27c3f1-4c2e-4db1-9f3a-1f0d9c2ab111"` // User ID
	FirstName        string     `json:"firstName" example:"John"`                          // First name
	LastName         string     `json:"lastName" example:"Doe"`                            // Last name
	Username         string     `json:"username" example:"johnd"`                          // Unique username
	Email            string     `json:"email" example:"user@example.com"`                  // Unique email
	Password         string     `json:"-"`                                                 // Salted argon2 hash, never serialized
	Phone            string     `json:"phone" example:"+919812345678"`                     // Contact number for OTP delivery
	MfaEnabled       bool       `json:"mfaEnabled"`                                        // Second factor toggle
	BackupEmail      string     `json:"backupEmail,omitempty"`
	UploadedImageURL string     `json:"uploadedImageUrl"` // Reference image URL for the graphical grid
	AvatarPath       string     `json:"avatarPath,omitempty"`
	LastLogin        *time.Time `json:"lastLogin,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
}

// GraphicalPassword holds the segment selection chosen at signup.
// At most one record exists per user; the selection is compared
// verbatim (order and membership) at login.
type GraphicalPassword struct {
	ID               string `json:"id"`
	UserID           string `json:"userId"`
	SelectedSegments []int  `json:"selectedSegments"`
}

// ActivityLog is an append-only audit record
// @Description Security-relevant activity entry
type ActivityLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Action    string    `json:"action" example:"LOGIN"`
	IPAddress string    `json:"ipAddress" example:"203.0.113.4"`
	Timestamp time.Time `json:"timestamp"`
}

// UploadedFile describes a file stored through the dashboard
// @Description Uploaded file metadata
type UploadedFile struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	FileName      string    `json:"fileName"`
	FileType      string    `json:"fileType"`
	FileSize      int64     `json:"fileSize"`
	FileExtension string    `json:"fileExtension"`
	FileURL       string    `json:"fileUrl"`
	UploadedAt    time.Time `json:"uploadTime"`
}
