package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"

	"github.com/graphlock/backend/internal/config"
	"github.com/graphlock/backend/internal/models"
)

// FileService backs the dashboard: profile lookup, per-user file
// management on a filesystem path namespaced under the upload dir, and
// the activity feed.
type FileService struct {
	db       *sql.DB
	activity ActivityRecorder
	uploads  *config.UploadConfig
}

func NewFileService(db *sql.DB, activity ActivityRecorder) *FileService {
	return &FileService{
		db:       db,
		activity: activity,
		uploads:  config.LoadUploadConfig(),
	}
}

func (s *FileService) Profile(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	var lastLogin sql.NullTime
	err := s.db.QueryRowContext(ctx,
		`SELECT id, first_name, last_name, username, email, phone, mfa_enabled, backup_email,
		        uploaded_image_url, avatar_path, last_login, created_at
		 FROM users WHERE username = $1`, username).
		Scan(&user.ID, &user.FirstName, &user.LastName, &user.Username, &user.Email, &user.Phone,
			&user.MfaEnabled, &user.BackupEmail, &user.UploadedImageURL, &user.AvatarPath,
			&lastLogin, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load profile for %s: %w", username, err)
	}
	if lastLogin.Valid {
		user.LastLogin = &lastLogin.Time
	}
	return &user, nil
}

func (s *FileService) UserIDByUsername(ctx context.Context, username string) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx, "SELECT id FROM users WHERE username = $1", username).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", models.ErrUserNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve user %s: %w", username, err)
	}
	return id, nil
}

func (s *FileService) ListFiles(ctx context.Context, userID string) ([]models.UploadedFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, file_name, file_type, file_size, file_extension, uploaded_at
		 FROM uploaded_files WHERE user_id = $1 ORDER BY uploaded_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	defer rows.Close()

	files := []models.UploadedFile{}
	for rows.Next() {
		var f models.UploadedFile
		if err := rows.Scan(&f.ID, &f.UserID, &f.FileName, &f.FileType, &f.FileSize,
			&f.FileExtension, &f.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan file row: %w", err)
		}
		f.FileURL = "/" + s.uploads.UploadDir + "/" + f.FileName
		files = append(files, f)
	}
	return files, rows.Err()
}

func (s *FileService) ListActivity(ctx context.Context, userID string) ([]models.ActivityLog, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, action, ip_address, created_at
		 FROM activity_logs WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	entries := []models.ActivityLog{}
	for rows.Next() {
		var e models.ActivityLog
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.IPAddress, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity row: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SaveUpload writes the stream to the upload directory and records the
// file metadata plus an audit entry.
func (s *FileService) SaveUpload(ctx context.Context, userID string, src io.Reader, fileName, contentType string, size int64, ip string) (*models.UploadedFile, error) {
	if err := os.MkdirAll(s.uploads.UploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to prepare upload dir: %w", err)
	}

	fileName = filepath.Base(fileName)
	dst, err := os.Create(filepath.Join(s.uploads.UploadDir, fileName))
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", fileName, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, src)
	if err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", fileName, err)
	}
	if size <= 0 {
		size = written
	}

	extension := "unknown"
	if idx := strings.LastIndex(fileName, "."); idx >= 0 && idx < len(fileName)-1 {
		extension = fileName[idx+1:]
	}

	file := &models.UploadedFile{
		ID:            uuid.NewString(),
		UserID:        userID,
		FileName:      fileName,
		FileType:      contentType,
		FileSize:      size,
		FileExtension: extension,
		FileURL:       "/" + s.uploads.UploadDir + "/" + fileName,
	}

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO uploaded_files (id, user_id, file_name, file_type, file_size, file_extension)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		file.ID, file.UserID, file.FileName, file.FileType, file.FileSize, file.FileExtension); err != nil {
		return nil, fmt.Errorf("failed to record upload %s: %w", fileName, err)
	}

	s.activity.Record(userID, "Uploaded file: "+fileName, ip)
	log.Printf("[FILES] Stored %s (%d bytes) for user %s", fileName, size, userID)
	return file, nil
}

// DeleteFile removes the file from disk and its metadata row.
func (s *FileService) DeleteFile(ctx context.Context, fileID, ip string) error {
	var userID, fileName string
	err := s.db.QueryRowContext(ctx,
		"SELECT user_id, file_name FROM uploaded_files WHERE id = $1", fileID).Scan(&userID, &fileName)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrFileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to look up file %s: %w", fileID, err)
	}

	if err := os.Remove(filepath.Join(s.uploads.UploadDir, fileName)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete %s from disk: %w", fileName, err)
	}

	if _, err := s.db.ExecContext(ctx, "DELETE FROM uploaded_files WHERE id = $1", fileID); err != nil {
		return fmt.Errorf("failed to delete file record %s: %w", fileID, err)
	}

	s.activity.Record(userID, "Deleted file: "+fileName, ip)
	log.Printf("[FILES] Deleted %s for user %s", fileName, userID)
	return nil
}

// ShareQR renders a QR code PNG pointing at the file's download URL.
func (s *FileService) ShareQR(ctx context.Context, fileID, baseURL string) ([]byte, error) {
	var fileName string
	err := s.db.QueryRowContext(ctx,
		"SELECT file_name FROM uploaded_files WHERE id = $1", fileID).Scan(&fileName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrFileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up file %s: %w", fileID, err)
	}

	fileURL := strings.TrimRight(baseURL, "/") + "/" + s.uploads.UploadDir + "/" + fileName
	png, err := qrcode.Encode(fileURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to encode share QR: %w", err)
	}
	return png, nil
}
