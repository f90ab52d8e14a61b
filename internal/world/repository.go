package world

import (
	"errors"

	"github.com/thesrcielos/TileMapServer/internal/apperrors"
	"gorm.io/gorm"
)

type MapRepository interface {
	SaveMap(record *MapRecord) error
	GetMap(id string) (*MapRecord, error)
	ListMaps(page, pageSize int) ([]MapRecord, error)
	DeleteMap(id string) error
}

type GormMapRepository struct {
	db *gorm.DB
}

func NewMapRepository(db *gorm.DB) *GormMapRepository {
	return &GormMapRepository{db: db}
}

func (r *GormMapRepository) SaveMap(record *MapRecord) error {
	if err := r.db.Create(record).Error; err != nil {
		return apperrors.NewAppError(500, "Error saving map", err)
	}
	return nil
}

func (r *GormMapRepository) GetMap(id string) (*MapRecord, error) {
	var record MapRecord
	result := r.db.Where("id = ?", id).First(&record)
	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, apperrors.NewAppError(404, "Map not found", result.Error)
	} else if result.Error != nil {
		return nil, apperrors.NewAppError(500, "Error getting map", result.Error)
	}
	return &record, nil
}

func (r *GormMapRepository) ListMaps(page, pageSize int) ([]MapRecord, error) {
	records := []MapRecord{}
	result := r.db.Omit("document").
		Order("created_at desc").
		Offset(page * pageSize).
		Limit(pageSize).
		Find(&records)
	if result.Error != nil {
		return nil, apperrors.NewAppError(500, "Error listing maps", result.Error)
	}
	return records, nil
}

func (r *GormMapRepository) DeleteMap(id string) error {
	result := r.db.Where("id = ?", id).Delete(&MapRecord{})
	if result.Error != nil {
		return apperrors.NewAppError(500, "Error deleting map", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NewAppError(404, "Map not found", nil)
	}
	return nil
}
