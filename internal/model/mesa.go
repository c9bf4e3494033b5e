package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Mesa is a physical restaurant table.
// Invariant: at most one active order references a mesa at a time
// (OrdenActualID); setting Estado to disponible clears MeseroID.
type Mesa struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Numero    int        `gorm:"uniqueIndex;not null"`
	Capacidad int        `gorm:"not null;default:4"`
	Estado    EstadoMesa `gorm:"type:varchar(20);not null;default:'disponible'"`
	Ubicacion *string
	MeseroID  *uuid.UUID `gorm:"type:uuid;index"`
	// OrdenActualID points at the open order, nil when the mesa is free
	OrdenActualID *uuid.UUID `gorm:"type:uuid"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Mesero *Usuario `gorm:"foreignKey:MeseroID"`
}

func (m *Mesa) BeforeCreate(_ *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
