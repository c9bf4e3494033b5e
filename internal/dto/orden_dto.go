package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type ItemOrdenRequest struct {
	ProductoID string  `json:"producto_id" validate:"required,uuid"`
	Cantidad   int     `json:"cantidad"    validate:"required,min=1"`
	Notas      *string `json:"notas"`
}

type CrearOrdenRequest struct {
	MesaID     string             `json:"mesa_id"    validate:"required,uuid"`
	Comensales int                `json:"comensales" validate:"omitempty,min=1"`
	Items      []ItemOrdenRequest `json:"items"      validate:"required,min=1,dive"`
	Notas      *string            `json:"notas"`
}

// PagoDivididoRequest is one diner's slice of a split payment.
type PagoDivididoRequest struct {
	Comensal int             `json:"comensal" validate:"min=1"`
	Monto    decimal.Decimal `json:"monto"    validate:"required"`
	Metodo   string          `json:"metodo"   validate:"required,oneof=efectivo tarjeta transferencia"`
}

// PagarOrdenRequest carries either a single Metodo or a Pagos breakdown.
type PagarOrdenRequest struct {
	Metodo *string               `json:"metodo" validate:"omitempty,oneof=efectivo tarjeta transferencia"`
	Pagos  []PagoDivididoRequest `json:"pagos"  validate:"omitempty,min=1,dive"`
	Nota   *string               `json:"nota"`
}

// CancelarOrdenRequest — the motivo is optional; when present it is appended
// to the order notes and echoed in the restock movement.
type CancelarOrdenRequest struct {
	Motivo string `json:"motivo" validate:"omitempty,max=500"`
}

type ActualizarDetalleRequest struct {
	Estado string `json:"estado" validate:"required,oneof=pendiente en_preparacion listo entregado"`
}

// ─── Filter ──────────────────────────────────────────────────────────────────

// OrdenFilter is bound from the query string of GET /v1/ordenes.
type OrdenFilter struct {
	Estado string `form:"estado"` // activa | pagada | cancelada | "" (all)
	// Buscar matches orden numero, mesa numero or mesero nombre
	Buscar string `form:"buscar"`
	Desde  string `form:"desde"` // YYYY-MM-DD, createdAt lower bound
	Hasta  string `form:"hasta"` // YYYY-MM-DD, createdAt upper bound
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type DetalleOrdenResponse struct {
	ID             string          `json:"id"`
	Producto       string          `json:"producto"`
	Cantidad       int             `json:"cantidad"`
	PrecioUnitario decimal.Decimal `json:"precio_unitario"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	Estado         string          `json:"estado"`
	Notas          *string         `json:"notas"`
	Cancelado      bool            `json:"cancelado"`
}

type PagoDivididoResponse struct {
	Comensal int             `json:"comensal"`
	Metodo   string          `json:"metodo"`
	Monto    decimal.Decimal `json:"monto"`
}

type OrdenResponse struct {
	ID           string                 `json:"id"`
	Numero       int                    `json:"numero"`
	MesaNumero   int                    `json:"mesa_numero"`
	MeseroNombre string                 `json:"mesero_nombre"`
	Comensales   int                    `json:"comensales"`
	Total        decimal.Decimal        `json:"total"`
	Estado       string                 `json:"estado"`
	MetodoPago   *string                `json:"metodo_pago"`
	Pagos        []PagoDivididoResponse `json:"pagos,omitempty"`
	Vuelto       decimal.Decimal        `json:"vuelto"`
	Notas        string                 `json:"notas"`
	Detalles     []DetalleOrdenResponse `json:"detalles"`
	CreatedAt    string                 `json:"created_at"`
	CerradaAt    *string                `json:"cerrada_at"`
}

// OrdenListResponse partitions orders into in-progress and terminal.
type OrdenListResponse struct {
	Activas   []OrdenResponse `json:"activas"`
	Historial []OrdenResponse `json:"historial"`
}
