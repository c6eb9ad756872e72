package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestValidationHelper_ValidateStruct(t *testing.T) {
	vh := NewValidationHelper()

	t.Run("valid login request", func(t *testing.T) {
		valid := LoginRequest{
			Username: "alice",
			Password: "password123",
		}

		err := vh.ValidateStruct(&valid)
		assert.NoError(t, err)
	})

	t.Run("missing fields are reported individually", func(t *testing.T) {
		invalid := OtpVerifyRequest{
			Phone: "+919812345678",
			Otp:   "12345", // wrong length
			// Username and Segments missing
		}

		err := vh.ValidateStruct(&invalid)
		assert.Error(t, err)

		validationErrors, ok := err.(validator.ValidationErrors)
		assert.True(t, ok)
		assert.Len(t, validationErrors, 3) // Otp, Username, Segments
	})

	t.Run("short password", func(t *testing.T) {
		invalid := LoginRequest{
			Username: "alice",
			Password: "12345",
		}

		err := vh.ValidateStruct(&invalid)
		assert.Error(t, err)
	})
}

func TestSendErrorResponse(t *testing.T) {
	t.Run("plain error", func(t *testing.T) {
		w := httptest.NewRecorder()
		SendErrorResponse(w, "User not found.", http.StatusNotFound, nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var resp ErrorResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "User not found.", resp.Error)
		assert.Empty(t, resp.Details)
	})

	t.Run("validation details are expanded", func(t *testing.T) {
		vh := NewValidationHelper()
		err := vh.ValidateStruct(&LoginRequest{})
		assert.Error(t, err)

		w := httptest.NewRecorder()
		SendErrorResponse(w, "Validation failed", http.StatusBadRequest, err)

		var resp ErrorResponse
		json.Unmarshal(w.Body.Bytes(), &resp)
		assert.Equal(t, "Validation failed", resp.Error)
		assert.Contains(t, resp.Details, "Username")
		assert.Contains(t, resp.Details, "Password")
	})
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, map[string]string{"message": "OTP_SENT"})

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]string
	json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "OTP_SENT", resp["message"])
}
