package user

import (
	"errors"

	"github.com/thesrcielos/TileMapServer/internal/apperrors"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 14

type UserRepository interface {
	CreateUser(username, password string) (*User, error)
	ValidateUser(username, password string) (*User, error)
	GetUser(id int) (*User, error)
	FetchEditorStats(userID int) (EditorStats, error)
	UpdateEditorStats(stats *EditorStats) error
}

type GormUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) CreateUser(username, password string) (*User, error) {
	var exists User
	result := r.db.Where("username = ?", username).First(&exists)
	if result.Error == nil {
		return nil, apperrors.NewAppError(400, "user already exists", nil)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, err
	}
	newUser := User{
		Username: username,
		Password: string(hashed),
	}

	if err := r.db.Create(&newUser).Error; err != nil {
		return nil, err
	}

	return &newUser, nil
}

func (r *GormUserRepository) ValidateUser(username, password string) (*User, error) {
	var u User
	result := r.db.Where("username = ?", username).First(&u)
	if result.Error != nil {
		return nil, result.Error
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// GetUser returns nil without error when the user does not exist.
func (r *GormUserRepository) GetUser(id int) (*User, error) {
	var u User
	result := r.db.Where("id = ?", id).First(&u)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	} else if result.Error != nil {
		return nil, result.Error
	}
	return &u, nil
}

// FetchEditorStats returns zeroed stats for users that never published.
func (r *GormUserRepository) FetchEditorStats(userID int) (EditorStats, error) {
	stats := EditorStats{UserID: uint(userID)}
	result := r.db.Where("user_id = ?", userID).First(&stats)
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return stats, result.Error
	}
	return stats, nil
}

func (r *GormUserRepository) UpdateEditorStats(stats *EditorStats) error {
	return r.db.Save(stats).Error
}
