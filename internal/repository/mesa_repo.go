package repository

import (
	"context"

	"taqueriapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MesaRepository defines the data access contract for mesas.
// Services depend on this interface, not on the concrete GORM implementation,
// enabling clean unit testing via stubs.
type MesaRepository interface {
	Create(ctx context.Context, m *model.Mesa) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error)
	FindByNumero(ctx context.Context, numero int) (*model.Mesa, error)
	List(ctx context.Context) ([]model.Mesa, error)
	Update(ctx context.Context, m *model.Mesa) error

	// Used inside transactions — callers must pass the tx instance
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Mesa, error)
	UpdateTx(tx *gorm.DB, m *model.Mesa) error

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type mesaRepo struct{ db *gorm.DB }

func NewMesaRepository(db *gorm.DB) MesaRepository { return &mesaRepo{db: db} }

func (r *mesaRepo) Create(ctx context.Context, m *model.Mesa) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *mesaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Mesa, error) {
	var m model.Mesa
	err := r.db.WithContext(ctx).Preload("Mesero").First(&m, "id = ?", id).Error
	return &m, err
}

func (r *mesaRepo) FindByNumero(ctx context.Context, numero int) (*model.Mesa, error) {
	var m model.Mesa
	err := r.db.WithContext(ctx).Where("numero = ?", numero).First(&m).Error
	return &m, err
}

func (r *mesaRepo) List(ctx context.Context) ([]model.Mesa, error) {
	var mesas []model.Mesa
	err := r.db.WithContext(ctx).Preload("Mesero").Order("numero ASC").Find(&mesas).Error
	return mesas, err
}

func (r *mesaRepo) Update(ctx context.Context, m *model.Mesa) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *mesaRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Mesa, error) {
	var m model.Mesa
	err := tx.First(&m, "id = ?", id).Error
	return &m, err
}

func (r *mesaRepo) UpdateTx(tx *gorm.DB, m *model.Mesa) error {
	return tx.Save(m).Error
}

func (r *mesaRepo) DB() *gorm.DB { return r.db }
