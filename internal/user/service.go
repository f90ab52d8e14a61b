package user

import (
	"errors"

	"github.com/thesrcielos/TileMapServer/internal/apperrors"
)

type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (u *UserService) Signup(user User) (string, error) {
	if user.Username == "" || user.Password == "" {
		return "", apperrors.NewAppError(400, "username and password are required", nil)
	}
	userRetrieved, err := u.repo.CreateUser(user.Username, user.Password)
	if err != nil {
		return "", err
	}

	token, errJWT := GenerateJWT(userRetrieved.ID)
	if errJWT != nil {
		return "", apperrors.NewAppError(500, "error creating jwt token", errJWT)
	}
	return token, nil
}

func (u *UserService) Login(user User) (string, error) {
	userRetrieved, err := u.repo.ValidateUser(user.Username, user.Password)
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	token, errJWT := GenerateJWT(userRetrieved.ID)
	if errJWT != nil {
		return "", apperrors.NewAppError(500, "error creating jwt token", errJWT)
	}
	return token, nil
}

func (u *UserService) GetEditorStats(userID int) (*EditorStatsResponse, error) {
	user, erruserID := u.repo.GetUser(userID)
	if erruserID != nil {
		return nil, erruserID
	}

	if user == nil {
		return nil, apperrors.NewAppError(404, "user not found", errors.New("user not found"))
	}

	stats, err := u.repo.FetchEditorStats(userID)
	if err != nil {
		return nil, err
	}

	attempts := stats.MapsPublished + stats.MapsRejected
	rate := 0.0
	if attempts > 0 {
		rate = 100 * (float64(stats.MapsPublished) / float64(attempts))
	}

	return &EditorStatsResponse{
		Username:       user.Username,
		TotalAttempts:  attempts,
		Published:      stats.MapsPublished,
		Rejected:       stats.MapsRejected,
		AcceptanceRate: rate,
	}, nil
}

// RecordPublish counts one publish attempt for the editor.
func (u *UserService) RecordPublish(userID uint, accepted bool) error {
	stats, err := u.repo.FetchEditorStats(int(userID))
	if err != nil {
		return err
	}

	if accepted {
		stats.MapsPublished++
	} else {
		stats.MapsRejected++
	}

	if err := u.repo.UpdateEditorStats(&stats); err != nil {
		return apperrors.NewAppError(500, "error updating editor stats", err)
	}

	return nil
}
