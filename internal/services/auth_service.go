package services

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/graphlock/backend/internal/config"
	"github.com/graphlock/backend/internal/models"
)

// AuthService orchestrates signup and the two-step login flow:
// password check with OTP issuance, then OTP plus graphical-segment
// verification.
type AuthService struct {
	db        *sql.DB
	otp       *OtpService
	images    *ImageService
	activity  ActivityRecorder
	validator *validator.Validate
	uploads   *config.UploadConfig
}

// LoginRequest represents the first login step payload
// @Description Login request structure
type LoginRequest struct {
	Username string `json:"username" validate:"required" example:"johnd"`
	Password string `json:"password" validate:"required,min=6" example:"password123"`
}

// OtpVerifyRequest represents the second login step payload
// @Description OTP and graphical-segment verification structure
type OtpVerifyRequest struct {
	Phone    string `json:"phone" validate:"required" example:"+919812345678"`
	Otp      string `json:"otp" validate:"required,len=6" example:"123456"`
	Username string `json:"username" validate:"required" example:"johnd"`
	Segments []int  `json:"segments" validate:"required,min=1"`
	IP       string `json:"ip,omitempty"`
}

// SignupRequest gathers the multipart signup fields
// @Description Signup request structure
type SignupRequest struct {
	FirstName   string `validate:"required,min=2"`
	LastName    string `validate:"required,min=2"`
	Username    string `validate:"required,min=3"`
	Email       string `validate:"required,email"`
	Password    string `validate:"required,min=6"`
	Phone       string `validate:"required"`
	BackupEmail string `validate:"omitempty,email"`
	MfaEnabled  bool
	Segments    []int `validate:"required,min=1"`
}

// LoginSuccessResponse is returned when the full flow completes
// @Description Terminal authenticated payload
type LoginSuccessResponse struct {
	Message          string `json:"message" example:"LOGIN_SUCCESS"`
	Username         string `json:"username"`
	Email            string `json:"email"`
	UploadedImageURL string `json:"uploadedImageUrl"`
	MfaEnabled       bool   `json:"mfaEnabled"`
	Token            string `json:"token"`
}

func NewAuthService(db *sql.DB, otp *OtpService, images *ImageService, activity ActivityRecorder) *AuthService {
	return &AuthService{
		db:        db,
		otp:       otp,
		images:    images,
		activity:  activity,
		validator: validator.New(),
		uploads:   config.LoadUploadConfig(),
	}
}

// Signup registers a user with a reference image and segment selection
// @Summary Sign up a new user
// @Description Register a user with an uploaded reference image and graphical password segments
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param firstName formData string true "First name"
// @Param lastName formData string true "Last name"
// @Param username formData string true "Username"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param phone formData string true "Phone number"
// @Param mfaEnabled formData boolean true "MFA flag"
// @Param backupEmail formData string false "Backup email"
// @Param segments formData string true "JSON array of segment indices"
// @Param image formData file true "Reference image"
// @Success 200 {object} map[string]string "User created"
// @Failure 400 {object} ErrorResponse "Duplicate identity or bad input"
// @Failure 500 {object} ErrorResponse "Storage failure"
// @Router /auth/signup [post]
func (s *AuthService) Signup(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Signup attempt from IP: %s", r.RemoteAddr)

	if err := r.ParseMultipartForm(s.uploads.MaxUploadBytes); err != nil {
		log.Printf("[AUTH] Signup failed - invalid multipart form: %v", err)
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	var segments []int
	if err := json.Unmarshal([]byte(r.FormValue("segments")), &segments); err != nil {
		log.Printf("[AUTH] Signup failed - bad segments payload: %v", err)
		SendErrorResponse(w, "Invalid segments", http.StatusBadRequest, nil)
		return
	}

	mfaEnabled, _ := strconv.ParseBool(r.FormValue("mfaEnabled"))
	req := SignupRequest{
		FirstName:   r.FormValue("firstName"),
		LastName:    r.FormValue("lastName"),
		Username:    r.FormValue("username"),
		Email:       strings.ToLower(r.FormValue("email")),
		Password:    r.FormValue("password"),
		Phone:       r.FormValue("phone"),
		BackupEmail: r.FormValue("backupEmail"),
		MfaEnabled:  mfaEnabled,
		Segments:    segments,
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[AUTH] Signup validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	// Uniqueness pre-check. The schema enforces the same invariant with
	// UNIQUE constraints, which closes the check-then-insert window.
	if s.identityExists(r, "email", req.Email) {
		SendErrorResponse(w, "Email already exists.", http.StatusBadRequest, nil)
		return
	}
	if s.identityExists(r, "username", req.Username) {
		SendErrorResponse(w, "Username already exists.", http.StatusBadRequest, nil)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		log.Printf("[AUTH] Signup failed - missing image: %v", err)
		SendErrorResponse(w, "Reference image is required", http.StatusBadRequest, nil)
		return
	}
	defer file.Close()

	imageID, err := s.images.Store(r.Context(), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		log.Printf("[AUTH] Signup failed - image storage: %v", err)
		SendErrorResponse(w, "Signup failed", http.StatusInternalServerError, nil)
		return
	}
	uploadedImageURL := "/auth/image/" + imageID

	hashedPassword, err := hashPassword(req.Password)
	if err != nil {
		log.Printf("[AUTH] Password hashing failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Signup failed", http.StatusInternalServerError, nil)
		return
	}

	userID := uuid.NewString()
	_, err = s.db.ExecContext(r.Context(),
		`INSERT INTO users (id, first_name, last_name, username, email, password, phone, mfa_enabled, backup_email, uploaded_image_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		userID, req.FirstName, req.LastName, req.Username, req.Email, hashedPassword,
		req.Phone, req.MfaEnabled, req.BackupEmail, uploadedImageURL)
	if err != nil {
		// A concurrent signup can still trip the unique constraint here;
		// the stored image stays orphaned, which is accepted.
		log.Printf("[AUTH] User creation failed for %s: %v", req.Username, err)
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			SendErrorResponse(w, "Username or email already exists.", http.StatusBadRequest, nil)
			return
		}
		SendErrorResponse(w, "Signup failed", http.StatusInternalServerError, nil)
		return
	}

	_, err = s.db.ExecContext(r.Context(),
		"INSERT INTO graphical_passwords (id, user_id, selected_segments) VALUES ($1, $2, $3)",
		uuid.NewString(), userID, joinSegments(req.Segments))
	if err != nil {
		log.Printf("[AUTH] Graphical password creation failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Signup failed", http.StatusInternalServerError, nil)
		return
	}

	s.activity.Record(userID, "SIGNUP", r.RemoteAddr)
	log.Printf("[AUTH] User created successfully - ID: %s, Username: %s", userID, req.Username)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "User created successfully."})
}

// Login performs login step 1: password check and OTP issuance
// @Summary Login step 1
// @Description Verify the password and dispatch a one-time code to the user's phone
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login request"
// @Success 200 {object} map[string]string "OTP_SENT"
// @Failure 400 {object} ErrorResponse "Invalid password"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/login [post]
func (s *AuthService) Login(w http.ResponseWriter, r *http.Request) {
	log.Printf("[AUTH] Login attempt from IP: %s", r.RemoteAddr)

	var req LoginRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[AUTH] Login validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	var userID, phone, hashedPassword string
	err := s.db.QueryRowContext(r.Context(),
		"SELECT id, phone, password FROM users WHERE username = $1", req.Username).
		Scan(&userID, &phone, &hashedPassword)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("[AUTH] Login failed - user not found: %s", req.Username)
		SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Login failed - lookup error for %s: %v", req.Username, err)
		SendErrorResponse(w, "Login failed", http.StatusInternalServerError, nil)
		return
	}

	if !verifyPassword(req.Password, hashedPassword) {
		log.Printf("[AUTH] Login failed - invalid password for %s", req.Username)
		SendErrorResponse(w, "Invalid password.", http.StatusBadRequest, nil)
		return
	}

	if _, err := s.db.ExecContext(r.Context(),
		"UPDATE users SET last_login = NOW() WHERE id = $1", userID); err != nil {
		log.Printf("[AUTH] Failed to update last login for %s: %v", req.Username, err)
	}

	// The code itself never leaves the server; only the acknowledgment
	// is returned.
	if _, err := s.otp.Issue(r.Context(), phone); err != nil {
		log.Printf("[AUTH] OTP issuance failed for %s: %v", req.Username, err)
		SendErrorResponse(w, "Failed to send OTP", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] OTP dispatched for user %s", req.Username)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "OTP_SENT"})
}

// VerifyOtpGrid performs login step 2: OTP and segment verification
// @Summary Login step 2
// @Description Verify the one-time code and the graphical password segments
// @Tags auth
// @Accept json
// @Produce json
// @Param request body OtpVerifyRequest true "Verification request"
// @Success 200 {object} LoginSuccessResponse "Authenticated"
// @Failure 400 {object} ErrorResponse "Invalid OTP, missing graphical password, or segment mismatch"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/verify-otp-grid [post]
func (s *AuthService) VerifyOtpGrid(w http.ResponseWriter, r *http.Request) {
	var req OtpVerifyRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}

	if err := s.validator.Struct(&req); err != nil {
		log.Printf("[AUTH] Verification validation failed: %v", err)
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)
		return
	}

	// The pending entry is consumed whether or not this attempt
	// succeeds; a rejected attempt forces a full restart of the flow.
	if err := s.otp.Verify(r.Context(), req.Phone, req.Otp); err != nil {
		if errors.Is(err, models.ErrNoPendingOtp) || errors.Is(err, models.ErrInvalidOrExpiredOtp) {
			log.Printf("[AUTH] Verification failed - bad OTP for phone %s", req.Phone)
			SendErrorResponse(w, "Invalid or expired OTP.", http.StatusBadRequest, nil)
			return
		}
		log.Printf("[AUTH] Verification failed - OTP store error: %v", err)
		SendErrorResponse(w, "Verification failed", http.StatusInternalServerError, nil)
		return
	}

	// Fresh lookup; nothing is cached from step 1.
	var user models.User
	err := s.db.QueryRowContext(r.Context(),
		"SELECT id, email, uploaded_image_url, mfa_enabled FROM users WHERE username = $1", req.Username).
		Scan(&user.ID, &user.Email, &user.UploadedImageURL, &user.MfaEnabled)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("[AUTH] Verification failed - user not found: %s", req.Username)
		SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Verification failed - lookup error for %s: %v", req.Username, err)
		SendErrorResponse(w, "Verification failed", http.StatusInternalServerError, nil)
		return
	}

	var storedSegments string
	err = s.db.QueryRowContext(r.Context(),
		"SELECT selected_segments FROM graphical_passwords WHERE user_id = $1", user.ID).
		Scan(&storedSegments)
	if errors.Is(err, sql.ErrNoRows) {
		log.Printf("[AUTH] Verification failed - graphical password not set for %s", req.Username)
		SendErrorResponse(w, "Graphical password not set.", http.StatusBadRequest, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Verification failed - segment lookup error for %s: %v", req.Username, err)
		SendErrorResponse(w, "Verification failed", http.StatusInternalServerError, nil)
		return
	}

	if !segmentsEqual(parseSegments(storedSegments), req.Segments) {
		log.Printf("[AUTH] Verification failed - segment mismatch for %s", req.Username)
		SendErrorResponse(w, "Incorrect graphical password.", http.StatusBadRequest, nil)
		return
	}

	ip := req.IP
	if ip == "" {
		ip = r.RemoteAddr
	}
	s.activity.Record(user.ID, "LOGIN", ip)

	token, err := generateJWT(user.ID)
	if err != nil {
		log.Printf("[AUTH] JWT generation failed for user %s: %v", user.ID, err)
		SendErrorResponse(w, "Verification failed", http.StatusInternalServerError, nil)
		return
	}

	log.Printf("[AUTH] Login successful for user %s", req.Username)
	WriteJSON(w, http.StatusOK, LoginSuccessResponse{
		Message:          "LOGIN_SUCCESS",
		Username:         req.Username,
		Email:            user.Email,
		UploadedImageURL: user.UploadedImageURL,
		MfaEnabled:       user.MfaEnabled,
		Token:            token,
	})
}

// GetUserPhone returns the contact number for a username or email
// @Summary Look up contact number
// @Description Resolve the phone number used for OTP delivery by username or email
// @Tags auth
// @Produce json
// @Param identifier path string true "Username or email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} ErrorResponse "Phone number missing"
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/user-phone/{identifier} [get]
func (s *AuthService) GetUserPhone(w http.ResponseWriter, r *http.Request) {
	identifier := chi.URLParam(r, "identifier")

	// Emails are stored lowercased, so the email branch matches against
	// the folded identifier while usernames stay case-exact.
	var phone string
	err := s.db.QueryRowContext(r.Context(),
		"SELECT phone FROM users WHERE username = $1 OR email = $2",
		identifier, strings.ToLower(identifier)).Scan(&phone)
	if errors.Is(err, sql.ErrNoRows) {
		SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Phone lookup failed for %s: %v", identifier, err)
		SendErrorResponse(w, "Lookup failed", http.StatusInternalServerError, nil)
		return
	}
	if strings.TrimSpace(phone) == "" {
		SendErrorResponse(w, "Phone number is missing.", http.StatusBadRequest, nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"phone": phone})
}

// GetImage streams a stored reference image
// @Summary Download reference image
// @Description Stream the stored image bytes for a handle
// @Tags auth
// @Produce image/jpeg
// @Param id path string true "Image handle"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponse "Unknown handle"
// @Router /auth/image/{id} [get]
func (s *AuthService) GetImage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	meta, err := s.images.Stat(r.Context(), id)
	if errors.Is(err, models.ErrBlobNotFound) {
		SendErrorResponse(w, "Image not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Image lookup failed for %s: %v", id, err)
		SendErrorResponse(w, "Image retrieval failed", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", meta.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(meta.Length, 10))
	if err := s.images.Stream(r.Context(), id, w); err != nil {
		// Headers are already written; nothing left to do but log.
		log.Printf("[AUTH] Image streaming failed for %s: %v", id, err)
	}
}

// GetUserImage returns the stored reference image URL for a user
// @Summary Look up reference image URL
// @Tags auth
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/user-image/{username} [get]
func (s *AuthService) GetUserImage(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var imageURL string
	err := s.db.QueryRowContext(r.Context(),
		"SELECT uploaded_image_url FROM users WHERE username = $1", username).Scan(&imageURL)
	if errors.Is(err, sql.ErrNoRows) {
		SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Image URL lookup failed for %s: %v", username, err)
		SendErrorResponse(w, "Lookup failed", http.StatusInternalServerError, nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}

// UploadAvatar stores an avatar on disk namespaced by username
// @Summary Upload avatar
// @Tags auth
// @Accept multipart/form-data
// @Produce json
// @Param username formData string true "Username"
// @Param avatar formData file true "Avatar file"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse "User not found"
// @Failure 500 {object} ErrorResponse "Upload failure"
// @Router /auth/upload-avatar [post]
func (s *AuthService) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(s.uploads.MaxUploadBytes); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	username := r.FormValue("username")
	var userID string
	err := s.db.QueryRowContext(r.Context(),
		"SELECT id FROM users WHERE username = $1", username).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		SendErrorResponse(w, "User not found", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Avatar upload - lookup failed for %s: %v", username, err)
		SendErrorResponse(w, "Upload failed", http.StatusInternalServerError, nil)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		SendErrorResponse(w, "Avatar file is required", http.StatusBadRequest, nil)
		return
	}
	defer file.Close()

	if err := os.MkdirAll(s.uploads.AvatarDir, 0o755); err != nil {
		log.Printf("[AUTH] Avatar upload - mkdir failed: %v", err)
		SendErrorResponse(w, "Failed to upload avatar", http.StatusInternalServerError, nil)
		return
	}

	fileName := username + "_" + filepath.Base(header.Filename)
	dst, err := os.Create(filepath.Join(s.uploads.AvatarDir, fileName))
	if err != nil {
		log.Printf("[AUTH] Avatar upload - create failed: %v", err)
		SendErrorResponse(w, "Failed to upload avatar", http.StatusInternalServerError, nil)
		return
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		log.Printf("[AUTH] Avatar upload - write failed: %v", err)
		SendErrorResponse(w, "Failed to upload avatar", http.StatusInternalServerError, nil)
		return
	}

	avatarPath := "/" + s.uploads.AvatarDir + "/" + fileName
	if _, err := s.db.ExecContext(r.Context(),
		"UPDATE users SET avatar_path = $1 WHERE id = $2", avatarPath, userID); err != nil {
		log.Printf("[AUTH] Avatar upload - persist failed for %s: %v", username, err)
		SendErrorResponse(w, "Failed to upload avatar", http.StatusInternalServerError, nil)
		return
	}

	s.activity.Record(userID, "AVATAR_UPLOAD", r.RemoteAddr)
	WriteJSON(w, http.StatusOK, map[string]string{"avatarPath": avatarPath})
}

// ChangePassword replaces the stored password hash
// @Summary Change password
// @Description Hash and persist a new password for the user
// @Tags auth
// @Accept x-www-form-urlencoded
// @Produce json
// @Param username formData string true "Username"
// @Param newPassword formData string true "New password"
// @Success 200 {object} map[string]string
// @Failure 404 {object} ErrorResponse "User not found"
// @Router /auth/change-password [post]
func (s *AuthService) ChangePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	username := r.FormValue("username")
	newPassword := r.FormValue("newPassword")
	if username == "" || newPassword == "" {
		SendErrorResponse(w, "username and newPassword are required", http.StatusBadRequest, nil)
		return
	}

	var userID string
	err := s.db.QueryRowContext(r.Context(),
		"SELECT id FROM users WHERE username = $1", username).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[AUTH] Password change - lookup failed for %s: %v", username, err)
		SendErrorResponse(w, "Password change failed", http.StatusInternalServerError, nil)
		return
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		log.Printf("[AUTH] Password change - hashing failed for %s: %v", username, err)
		SendErrorResponse(w, "Password change failed", http.StatusInternalServerError, nil)
		return
	}

	if _, err := s.db.ExecContext(r.Context(),
		"UPDATE users SET password = $1 WHERE id = $2", hashed, userID); err != nil {
		log.Printf("[AUTH] Password change - persist failed for %s: %v", username, err)
		SendErrorResponse(w, "Password change failed", http.StatusInternalServerError, nil)
		return
	}

	// No re-authentication is required before a password change. Known
	// gap; requires product direction before tightening.
	s.activity.Record(userID, "PASSWORD_CHANGE", r.RemoteAddr)
	log.Printf("[AUTH] Password updated for %s", username)
	WriteJSON(w, http.StatusOK, map[string]string{"message": "Password updated successfully"})
}

func (s *AuthService) identityExists(r *http.Request, column, value string) bool {
	var id string
	err := s.db.QueryRowContext(r.Context(),
		fmt.Sprintf("SELECT id FROM users WHERE %s = $1", column), value).Scan(&id)
	return err == nil
}

// decodeJSONBody applies the shared body limits and strict decoding to
// a JSON request. It writes the error response itself and reports
// whether decoding succeeded.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1_048_576)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		log.Printf("[AUTH] Invalid request body: %v", err)
		SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return false
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		log.Printf("[AUTH] Multiple JSON objects detected")
		SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

// segmentsEqual compares the submitted selection against the stored
// one using exact sequence equality: both order and membership matter.
func segmentsEqual(stored, submitted []int) bool {
	if len(stored) != len(submitted) {
		return false
	}
	for i := range stored {
		if stored[i] != submitted[i] {
			return false
		}
	}
	return true
}

func joinSegments(segments []int) string {
	parts := make([]string, len(segments))
	for i, seg := range segments {
		parts[i] = strconv.Itoa(seg)
	}
	return strings.Join(parts, ",")
}

func parseSegments(stored string) []int {
	if stored == "" {
		return nil
	}
	parts := strings.Split(stored, ",")
	segments := make([]int, 0, len(parts))
	for _, p := range parts {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
			segments = append(segments, n)
		}
	}
	return segments
}
