package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/graphlock/backend/internal/models"
)

// imageChunkSize bounds memory use during upload and download; files
// of any size stream through a single fixed buffer.
const imageChunkSize = 1 << 20

// ImageMeta describes a stored reference image.
type ImageMeta struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Length      int64     `json:"length"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ImageService stores reference images as ordered 1 MiB chunks in
// postgres. Handles are write-once: re-uploading the same content
// produces a new handle, and stored chunks are never mutated.
type ImageService struct {
	db *sql.DB
}

func NewImageService(db *sql.DB) *ImageService {
	return &ImageService{db: db}
}

// Store streams the reader into chunk rows inside one transaction and
// returns the opaque handle used to retrieve the image later.
func (s *ImageService) Store(ctx context.Context, r io.Reader, fileName, contentType string) (string, error) {
	if contentType == "" {
		contentType = "image/jpeg"
	}

	id := uuid.NewString()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin image transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO image_files (id, file_name, content_type, length) VALUES ($1, $2, $3, 0)",
		id, fileName, contentType); err != nil {
		return "", fmt.Errorf("failed to insert image record: %w", err)
	}

	buf := make([]byte, imageChunkSize)
	var total int64
	for seq := 0; ; seq++ {
		n, readErr := io.ReadFull(r, buf)
		if n > 0 {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO image_chunks (file_id, seq, data) VALUES ($1, $2, $3)",
				id, seq, buf[:n]); err != nil {
				return "", fmt.Errorf("failed to insert image chunk %d: %w", seq, err)
			}
			total += int64(n)
		}
		if readErr == io.EOF || readErr == io.ErrUnexpectedEOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("failed to read upload stream: %w", readErr)
		}
	}

	if _, err := tx.ExecContext(ctx,
		"UPDATE image_files SET length = $1 WHERE id = $2", total, id); err != nil {
		return "", fmt.Errorf("failed to finalize image record: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit image: %w", err)
	}

	log.Printf("[IMAGE] Stored %s (%d bytes) as %s", fileName, total, id)
	return id, nil
}

// Stat returns metadata for a stored image, or ErrBlobNotFound when
// the handle is unknown.
func (s *ImageService) Stat(ctx context.Context, id string) (*ImageMeta, error) {
	var meta ImageMeta
	err := s.db.QueryRowContext(ctx,
		"SELECT id, file_name, content_type, length, created_at FROM image_files WHERE id = $1", id).
		Scan(&meta.ID, &meta.FileName, &meta.ContentType, &meta.Length, &meta.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBlobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up image %s: %w", id, err)
	}
	return &meta, nil
}

// Stream writes the stored bytes to w in chunk order. The output is
// byte-identical to what Store consumed.
func (s *ImageService) Stream(ctx context.Context, id string, w io.Writer) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT data FROM image_chunks WHERE file_id = $1 ORDER BY seq", id)
	if err != nil {
		return fmt.Errorf("failed to read image chunks: %w", err)
	}
	defer rows.Close()

	wrote := false
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return fmt.Errorf("failed to scan image chunk: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("failed to write image chunk: %w", err)
		}
		wrote = true
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed while iterating image chunks: %w", err)
	}
	if !wrote {
		// Zero-length images are legal but an unknown handle is not.
		if _, err := s.Stat(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
