package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Producto is a menu item. Stock ≥ 0 is enforced in the service layer, not by
// a DB constraint; every stock change leaves a MovimientoInventario row.
type Producto struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Codigo      *string   `gorm:"uniqueIndex"`
	Nombre      string    `gorm:"index;not null"`
	Descripcion *string
	Precio      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Categoria   string          `gorm:"index;not null"`
	// TiempoPreparacion in minutes, nil when not tracked
	TiempoPreparacion *int
	Imagen            *string
	Disponible        bool `gorm:"not null;default:true"`
	Stock             int  `gorm:"not null;default:0"`
	StockMinimo       int  `gorm:"not null;default:5"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (p *Producto) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
