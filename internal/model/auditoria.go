package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auditoria is one append-only audit record: who changed what, with JSON
// before/after snapshots of the touched fields. Written inside the same
// transaction as the mutation it documents.
type Auditoria struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Tabla      string    `gorm:"not null;index"`
	Accion     string    `gorm:"not null"`
	RegistroID uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null"`
	// Antes / Despues hold serialized key/value snapshots; Antes is empty on create
	Antes     string
	Despues   string
	CreatedAt time.Time
}

func (Auditoria) TableName() string { return "auditoria" }

func (a *Auditoria) BeforeCreate(_ *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
