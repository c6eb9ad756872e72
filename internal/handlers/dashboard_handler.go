package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/graphlock/backend/internal/models"
	"github.com/graphlock/backend/internal/services"
)

type DashboardHandler struct {
	files *services.FileService
}

func NewDashboardHandler(files *services.FileService) *DashboardHandler {
	return &DashboardHandler{files: files}
}

// Profile returns the authenticated user's profile
// @Summary Get profile
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param username query string true "Username"
// @Success 200 {object} models.User
// @Failure 404 {object} services.ErrorResponse
// @Router /dashboard/profile [get]
func (h *DashboardHandler) Profile(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" {
		services.SendErrorResponse(w, "username is required", http.StatusBadRequest, nil)
		return
	}

	user, err := h.files.Profile(r.Context(), username)
	if errors.Is(err, models.ErrUserNotFound) {
		services.SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[DASHBOARD] Profile lookup failed for %s: %v", username, err)
		services.SendErrorResponse(w, "Profile lookup failed", http.StatusInternalServerError, nil)
		return
	}

	services.WriteJSON(w, http.StatusOK, user)
}

// Files lists the user's uploaded files
// @Summary List files
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param username query string true "Username"
// @Success 200 {array} models.UploadedFile
// @Failure 404 {object} services.ErrorResponse
// @Router /dashboard/files [get]
func (h *DashboardHandler) Files(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	files, err := h.files.ListFiles(r.Context(), userID)
	if err != nil {
		log.Printf("[DASHBOARD] File listing failed: %v", err)
		services.SendErrorResponse(w, "File listing failed", http.StatusInternalServerError, nil)
		return
	}

	services.WriteJSON(w, http.StatusOK, files)
}

// Activity lists the user's audit trail
// @Summary List activity
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param username query string true "Username"
// @Success 200 {array} models.ActivityLog
// @Failure 404 {object} services.ErrorResponse
// @Router /dashboard/activity [get]
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	entries, err := h.files.ListActivity(r.Context(), userID)
	if err != nil {
		log.Printf("[DASHBOARD] Activity listing failed: %v", err)
		services.SendErrorResponse(w, "Activity listing failed", http.StatusInternalServerError, nil)
		return
	}

	services.WriteJSON(w, http.StatusOK, entries)
}

// Upload stores one or more files for the user
// @Summary Upload files
// @Tags dashboard
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param username formData string true "Username"
// @Param files formData file true "Files"
// @Success 200 {object} map[string]any
// @Failure 404 {object} services.ErrorResponse
// @Router /dashboard/upload [post]
func (h *DashboardHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		services.SendErrorResponse(w, "Invalid request", http.StatusBadRequest, nil)
		return
	}

	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["files"]) == 0 {
		services.SendErrorResponse(w, "No files provided", http.StatusBadRequest, nil)
		return
	}

	uploaded := []models.UploadedFile{}
	for _, header := range r.MultipartForm.File["files"] {
		src, err := header.Open()
		if err != nil {
			services.SendErrorResponse(w, "Failed to read "+header.Filename, http.StatusInternalServerError, nil)
			return
		}

		file, err := h.files.SaveUpload(r.Context(), userID, src,
			header.Filename, header.Header.Get("Content-Type"), header.Size, r.RemoteAddr)
		src.Close()
		if err != nil {
			log.Printf("[DASHBOARD] Upload failed for %s: %v", header.Filename, err)
			services.SendErrorResponse(w, "Failed to upload "+header.Filename, http.StatusInternalServerError, nil)
			return
		}
		uploaded = append(uploaded, *file)
	}

	services.WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Upload complete",
		"count":   len(uploaded),
		"files":   uploaded,
	})
}

// Delete removes an uploaded file
// @Summary Delete file
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param fileId query string true "File ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} services.ErrorResponse
// @Router /dashboard/delete [delete]
func (h *DashboardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fileID := r.URL.Query().Get("fileId")
	if fileID == "" {
		services.SendErrorResponse(w, "fileId is required", http.StatusBadRequest, nil)
		return
	}

	err := h.files.DeleteFile(r.Context(), fileID, r.RemoteAddr)
	if errors.Is(err, models.ErrFileNotFound) {
		services.SendErrorResponse(w, "File not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[DASHBOARD] Delete failed for %s: %v", fileID, err)
		services.SendErrorResponse(w, "Failed to delete file", http.StatusInternalServerError, nil)
		return
	}

	services.WriteJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully."})
}

// ShareQR renders a QR code for a file's download URL
// @Summary File share QR code
// @Tags dashboard
// @Produce image/png
// @Security BearerAuth
// @Param fileId path string true "File ID"
// @Success 200 {file} binary
// @Failure 404 {object} services.ErrorResponse
// @Router /dashboard/files/{fileId}/qr [get]
func (h *DashboardHandler) ShareQR(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileId")

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	baseURL := scheme + "://" + r.Host

	png, err := h.files.ShareQR(r.Context(), fileID, baseURL)
	if errors.Is(err, models.ErrFileNotFound) {
		services.SendErrorResponse(w, "File not found.", http.StatusNotFound, nil)
		return
	}
	if err != nil {
		log.Printf("[DASHBOARD] QR generation failed for %s: %v", fileID, err)
		services.SendErrorResponse(w, "Failed to generate QR code", http.StatusInternalServerError, nil)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Write(png)
}

// resolveUser maps the username query/form parameter to a user id and
// writes the error response when the user is unknown.
func (h *DashboardHandler) resolveUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	username := r.URL.Query().Get("username")
	if username == "" {
		username = r.FormValue("username")
	}
	if username == "" {
		services.SendErrorResponse(w, "username is required", http.StatusBadRequest, nil)
		return "", false
	}

	userID, err := h.files.UserIDByUsername(r.Context(), username)
	if errors.Is(err, models.ErrUserNotFound) {
		services.SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)
		return "", false
	}
	if err != nil {
		log.Printf("[DASHBOARD] User resolution failed for %s: %v", username, err)
		services.SendErrorResponse(w, "Lookup failed", http.StatusInternalServerError, nil)
		return "", false
	}
	return userID, true
}
