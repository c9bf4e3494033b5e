package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MovimientoInventario registra cada cambio de stock en un producto.
// Append-only ledger: rows are never modified or deleted, and every write to
// Producto.Stock is accompanied by exactly one of these.
type MovimientoInventario struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey"`
	ProductoID uuid.UUID      `gorm:"type:uuid;not null;index"`
	Tipo       TipoMovimiento `gorm:"type:varchar(20);not null"`
	// Cantidad is signed: positive = entrada, negative = salida
	Cantidad      int `gorm:"not null"`
	StockAnterior int `gorm:"not null"`
	StockNuevo    int `gorm:"not null"`
	Motivo        string
	OrdenID       *uuid.UUID `gorm:"type:uuid"`
	UsuarioID     uuid.UUID  `gorm:"type:uuid;not null"`
	CreatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (MovimientoInventario) TableName() string { return "movimientos_inventario" }

func (m *MovimientoInventario) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
