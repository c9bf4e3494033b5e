package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Orden is one dining party's purchase against a mesa.
// Estado: activa → {pagada, cancelada}; both targets are terminal.
// Total always equals the sum of cantidad × precio_unitario over the
// non-cancelled detalles.
type Orden struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Numero     int       `gorm:"uniqueIndex;not null"`
	MesaID     uuid.UUID `gorm:"type:uuid;not null;index"`
	UsuarioID  uuid.UUID `gorm:"type:uuid;not null"`
	Comensales int       `gorm:"not null;default:1"`
	Total      decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Estado     EstadoOrden     `gorm:"type:varchar(20);not null;default:'activa';index"`
	// MetodoPago is set on single-method payment; split payments live in Pagos
	MetodoPago *MetodoPago `gorm:"type:varchar(20)"`
	Notas      string
	CreatedAt  time.Time `gorm:"index"`
	CerradaAt  *time.Time
	UpdatedAt  time.Time

	Mesa     *Mesa          `gorm:"foreignKey:MesaID"`
	Usuario  *Usuario       `gorm:"foreignKey:UsuarioID"`
	Detalles []OrdenDetalle `gorm:"foreignKey:OrdenID"`
	Pagos    []OrdenPago    `gorm:"foreignKey:OrdenID"`
}

// TableName overrides GORM's default pluralization (ordens → ordenes).
func (Orden) TableName() string { return "ordenes" }

func (o *Orden) BeforeCreate(_ *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// OrdenDetalle is a line item. PrecioUnitario is a point-in-time copy of
// Producto.Precio taken at insertion — later price edits never touch it.
type OrdenDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrdenID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Estado         EstadoDetalle   `gorm:"type:varchar(20);not null;default:'pendiente'"`
	Notas          *string
	Cancelado      bool `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (d *OrdenDetalle) BeforeCreate(_ *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// Subtotal of the line; zero when the line was cancelled.
func (d *OrdenDetalle) Subtotal() decimal.Decimal {
	if d.Cancelado {
		return decimal.Zero
	}
	return d.PrecioUnitario.Mul(decimal.NewFromInt(int64(d.Cantidad)))
}

// OrdenPago is one slice of a split payment (pago dividido): comensal N pays
// monto with metodo. Single-method payments don't create rows here.
type OrdenPago struct {
	ID       uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrdenID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Comensal int             `gorm:"not null"`
	Metodo   MetodoPago      `gorm:"type:varchar(20);not null"`
	Monto    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt time.Time
}

func (p *OrdenPago) BeforeCreate(_ *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
