package services

import (
	"github.com/stretchr/testify/mock"
)

type MockActivityRecorder struct {
	mock.Mock
}

func (m *MockActivityRecorder) Record(userID, action, ip string) {
	m.Called(userID, action, ip)
}

// noopRecorder is for tests that do not assert on audit behavior.
type noopRecorder struct{}

func (noopRecorder) Record(userID, action, ip string) {}
