package repository

import (
	"context"
	"time"

	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrdenRepository interface {
	Create(ctx context.Context, tx *gorm.DB, o *model.Orden) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error)
	List(ctx context.Context, filter dto.OrdenFilter) ([]model.Orden, error)
	// NextNumero returns the next order number. Must run inside the creation
	// transaction — the single-writer store serializes concurrent callers.
	NextNumero(ctx context.Context, tx *gorm.DB) (int, error)

	UpdateTx(tx *gorm.DB, o *model.Orden) error
	UpdateDetalleTx(tx *gorm.DB, d *model.OrdenDetalle) error
	CreatePagoTx(tx *gorm.DB, p *model.OrdenPago) error

	// DB exposes the DB for transaction creation in the service layer.
	DB() *gorm.DB
}

type ordenRepo struct{ db *gorm.DB }

func NewOrdenRepository(db *gorm.DB) OrdenRepository { return &ordenRepo{db: db} }

func (r *ordenRepo) DB() *gorm.DB { return r.db }

func (r *ordenRepo) Create(ctx context.Context, tx *gorm.DB, o *model.Orden) error {
	return tx.WithContext(ctx).Create(o).Error
}

func (r *ordenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error) {
	var o model.Orden
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Preload("Pagos").
		Preload("Mesa.Mesero").
		Preload("Usuario").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *ordenRepo) List(ctx context.Context, filter dto.OrdenFilter) ([]model.Orden, error) {
	q := r.db.WithContext(ctx).Model(&model.Orden{}).
		Preload("Detalles.Producto").
		Preload("Pagos").
		Preload("Mesa.Mesero").
		Preload("Usuario")

	if filter.Estado != "" {
		q = q.Where("ordenes.estado = ?", filter.Estado)
	}
	if filter.Desde != "" {
		if t, err := time.Parse("2006-01-02", filter.Desde); err == nil {
			q = q.Where("ordenes.created_at >= ?", t)
		}
	}
	if filter.Hasta != "" {
		if t, err := time.Parse("2006-01-02", filter.Hasta); err == nil {
			q = q.Where("ordenes.created_at < ?", t.AddDate(0, 0, 1))
		}
	}
	if filter.Buscar != "" {
		// Matches orden numero, mesa numero or mesero nombre
		q = q.Joins("JOIN mesas ON mesas.id = ordenes.mesa_id").
			Joins("LEFT JOIN usuarios meseros ON meseros.id = mesas.mesero_id").
			Where("CAST(ordenes.numero AS TEXT) LIKE ? OR CAST(mesas.numero AS TEXT) LIKE ? OR meseros.nombre LIKE ?",
				"%"+filter.Buscar+"%", "%"+filter.Buscar+"%", "%"+filter.Buscar+"%")
	}

	var ordenes []model.Orden
	err := q.Order("ordenes.created_at DESC").Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) NextNumero(ctx context.Context, tx *gorm.DB) (int, error) {
	var num int
	err := tx.WithContext(ctx).Raw("SELECT COALESCE(MAX(numero), 0) + 1 FROM ordenes").Scan(&num).Error
	return num, err
}

func (r *ordenRepo) UpdateTx(tx *gorm.DB, o *model.Orden) error {
	return tx.Omit("Detalles", "Pagos", "Mesa", "Usuario").Save(o).Error
}

func (r *ordenRepo) UpdateDetalleTx(tx *gorm.DB, d *model.OrdenDetalle) error {
	return tx.Omit("Producto").Save(d).Error
}

func (r *ordenRepo) CreatePagoTx(tx *gorm.DB, p *model.OrdenPago) error {
	return tx.Create(p).Error
}
