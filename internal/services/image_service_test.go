package services

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"github.com/graphlock/backend/internal/models"
)

func TestImageService_Store(t *testing.T) {
	ctx := context.Background()

	t.Run("single chunk upload", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewImageService(db)
		data := []byte("not-really-a-jpeg-but-bytes-are-bytes")

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO image_files").
			WithArgs(sqlmock.AnyArg(), "photo.jpg", "image/jpeg").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO image_chunks").
			WithArgs(sqlmock.AnyArg(), 0, data).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE image_files SET length").
			WithArgs(int64(len(data)), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		id, err := service.Store(ctx, bytes.NewReader(data), "photo.jpg", "image/jpeg")
		assert.NoError(t, err)
		assert.NotEmpty(t, id)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("content spanning multiple chunks", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewImageService(db)
		data := bytes.Repeat([]byte{0xAB}, imageChunkSize+10)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO image_files").
			WithArgs(sqlmock.AnyArg(), "big.png", "image/png").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO image_chunks").
			WithArgs(sqlmock.AnyArg(), 0, data[:imageChunkSize]).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO image_chunks").
			WithArgs(sqlmock.AnyArg(), 1, data[imageChunkSize:]).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("UPDATE image_files SET length").
			WithArgs(int64(len(data)), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		_, err = service.Store(ctx, bytes.NewReader(data), "big.png", "image/png")
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("chunk insert failure rolls back", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewImageService(db)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO image_files").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO image_chunks").
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		_, err = service.Store(ctx, bytes.NewReader([]byte("abc")), "x.png", "image/png")
		assert.Error(t, err)
	})
}

func TestImageService_StatAndStream(t *testing.T) {
	ctx := context.Background()

	t.Run("stream returns bytes identical to what was stored", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewImageService(db)
		first := []byte("first-chunk-")
		second := []byte("second-chunk")

		mock.ExpectQuery("SELECT data FROM image_chunks WHERE file_id = \\$1 ORDER BY seq").
			WithArgs("img-1").
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow(first).AddRow(second))

		var buf bytes.Buffer
		assert.NoError(t, service.Stream(ctx, "img-1", &buf))
		assert.Equal(t, append(append([]byte{}, first...), second...), buf.Bytes())
	})

	t.Run("stat exposes metadata", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewImageService(db)
		created := time.Now()

		mock.ExpectQuery("SELECT id, file_name, content_type, length, created_at FROM image_files WHERE id = \\$1").
			WithArgs("img-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "file_name", "content_type", "length", "created_at"}).
				AddRow("img-1", "photo.jpg", "image/jpeg", int64(12), created))

		meta, err := service.Stat(ctx, "img-1")
		assert.NoError(t, err)
		assert.Equal(t, "photo.jpg", meta.FileName)
		assert.Equal(t, "image/jpeg", meta.ContentType)
		assert.Equal(t, int64(12), meta.Length)
	})

	t.Run("unknown handle", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewImageService(db)

		mock.ExpectQuery("SELECT id, file_name, content_type, length, created_at FROM image_files WHERE id = \\$1").
			WithArgs("missing").WillReturnError(sql.ErrNoRows)

		_, err = service.Stat(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrBlobNotFound)
	})

	t.Run("stream of unknown handle", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()

		service := NewImageService(db)

		mock.ExpectQuery("SELECT data FROM image_chunks WHERE file_id = \\$1 ORDER BY seq").
			WithArgs("missing").
			WillReturnRows(sqlmock.NewRows([]string{"data"}))
		mock.ExpectQuery("SELECT id, file_name, content_type, length, created_at FROM image_files WHERE id = \\$1").
			WithArgs("missing").WillReturnError(sql.ErrNoRows)

		var buf bytes.Buffer
		err = service.Stream(ctx, "missing", &buf)
		assert.ErrorIs(t, err, models.ErrBlobNotFound)
		assert.Zero(t, buf.Len())
	})
}
