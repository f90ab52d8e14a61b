package user

import (
	"errors"
	"os"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// mockGenerateJWT is a helper to override GenerateJWT in tests
var mockGenerateJWT func(id uint) (string, error)

func TestMain(m *testing.M) {
	orig := GenerateJWT
	GenerateJWT = func(id uint) (string, error) {
		if mockGenerateJWT != nil {
			return mockGenerateJWT(id)
		}
		return orig(id)
	}
	code := m.Run()
	GenerateJWT = orig
	os.Exit(code)
}

func TestUserService_Signup(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	user := User{ID: 1, Username: "test", Password: "pass"}
	mockRepo.On("CreateUser", user.Username, user.Password).Return(&user, nil)
	mockGenerateJWT = func(id uint) (string, error) { return "token123", nil }
	t.Cleanup(func() { mockGenerateJWT = nil })

	token, err := service.Signup(user)
	assert.NoError(t, err)
	assert.Equal(t, "token123", token)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Signup_MissingFields(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	_, err := service.Signup(User{Username: "nopass"})
	assert.Error(t, err)
	mockRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestUserService_Signup_Error(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	user := User{ID: 5, Username: "err", Password: "fail"}
	mockRepo.On("CreateUser", user.Username, user.Password).Return(nil, errors.New("fail"))

	_, err := service.Signup(user)
	assert.Error(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Login(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	user := User{ID: 2, Username: "foo", Password: "bar"}
	mockRepo.On("ValidateUser", user.Username, user.Password).Return(&user, nil)
	mockGenerateJWT = func(id uint) (string, error) { return "tok456", nil }
	t.Cleanup(func() { mockGenerateJWT = nil })

	token, err := service.Login(user)
	assert.NoError(t, err)
	assert.Equal(t, "tok456", token)
	mockRepo.AssertExpectations(t)
}

func TestUserService_Login_InvalidCredentials(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("ValidateUser", "foo", "wrong").Return(nil, errors.New("mismatch"))

	_, err := service.Login(User{Username: "foo", Password: "wrong"})
	assert.EqualError(t, err, "invalid credentials")
}

func TestGenerateJWT_Claims(t *testing.T) {
	t.Setenv("JWT_SECRET", "farm-secret")

	token, err := GenerateJWT(42)
	require.NoError(t, err)

	claims := &JwtCustomClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte("farm-secret"), nil
	})
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
	assert.Equal(t, uint(42), claims.Id)
	assert.Equal(t, tokenIssuer, claims.Issuer)
	assert.WithinDuration(t, claims.IssuedAt.Add(tokenTTL), claims.ExpiresAt.Time, time.Second)
}

func TestUserService_GetEditorStats(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	user := &User{ID: 3, Username: "alice"}
	stats := EditorStats{UserID: 3, MapsPublished: 6, MapsRejected: 2}
	mockRepo.On("GetUser", 3).Return(user, nil)
	mockRepo.On("FetchEditorStats", 3).Return(stats, nil)

	resp, err := service.GetEditorStats(3)
	assert.NoError(t, err)
	assert.Equal(t, "alice", resp.Username)
	assert.Equal(t, 8, resp.TotalAttempts)
	assert.Equal(t, 6, resp.Published)
	assert.Equal(t, 2, resp.Rejected)
	assert.InDelta(t, 75.0, resp.AcceptanceRate, 0.01)
	mockRepo.AssertExpectations(t)
}

func TestUserService_GetEditorStats_UnknownUser(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)
	mockRepo.On("GetUser", 9).Return(nil, nil)

	_, err := service.GetEditorStats(9)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "user not found")
}

func TestUserService_RecordPublish(t *testing.T) {
	mockRepo := &MockUserRepository{}
	service := NewUserService(mockRepo)

	stats := EditorStats{UserID: 4, MapsPublished: 1, MapsRejected: 1}
	mockRepo.On("FetchEditorStats", 4).Return(stats, nil)
	mockRepo.On("UpdateEditorStats", mock.MatchedBy(func(s *EditorStats) bool {
		return s.MapsPublished == 1 && s.MapsRejected == 2
	})).Return(nil)

	err := service.RecordPublish(4, false)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
