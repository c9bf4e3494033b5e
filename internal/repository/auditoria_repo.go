package repository

import (
	"context"

	"taqueriapos/internal/model"

	"gorm.io/gorm"
)

// AuditoriaFilter narrows the audit trail listing.
type AuditoriaFilter struct {
	Tabla string
	Page  int
	Limit int
}

// AuditoriaRepository persists the append-only audit trail. There is no
// Update or Delete on purpose.
type AuditoriaRepository interface {
	CreateTx(tx *gorm.DB, a *model.Auditoria) error
	List(ctx context.Context, filter AuditoriaFilter) ([]model.Auditoria, int64, error)
}

type auditoriaRepo struct{ db *gorm.DB }

func NewAuditoriaRepository(db *gorm.DB) AuditoriaRepository { return &auditoriaRepo{db: db} }

func (r *auditoriaRepo) CreateTx(tx *gorm.DB, a *model.Auditoria) error {
	return tx.Create(a).Error
}

func (r *auditoriaRepo) List(ctx context.Context, filter AuditoriaFilter) ([]model.Auditoria, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Auditoria{})
	if filter.Tabla != "" {
		q = q.Where("tabla = ?", filter.Tabla)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}

	var registros []model.Auditoria
	err := q.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&registros).Error
	return registros, total, err
}
