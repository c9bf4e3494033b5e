package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearProductoRequest struct {
	Codigo            *string         `json:"codigo"             validate:"omitempty,min=3,max=30"`
	Nombre            string          `json:"nombre"             validate:"required,min=2,max=120"`
	Descripcion       *string         `json:"descripcion"`
	Precio            decimal.Decimal `json:"precio"             validate:"min=0"`
	Categoria         string          `json:"categoria"          validate:"required"`
	TiempoPreparacion *int            `json:"tiempo_preparacion" validate:"omitempty,min=0"`
	Imagen            *string         `json:"imagen"`
	Stock             int             `json:"stock"              validate:"min=0"`
	StockMinimo       int             `json:"stock_minimo"       validate:"min=0"`
}

type ActualizarProductoRequest struct {
	Codigo            *string          `json:"codigo"             validate:"omitempty,min=3,max=30"`
	Nombre            *string          `json:"nombre"             validate:"omitempty,min=2,max=120"`
	Descripcion       *string          `json:"descripcion"`
	Precio            *decimal.Decimal `json:"precio"             validate:"omitempty,min=0"`
	Categoria         *string          `json:"categoria"`
	TiempoPreparacion *int             `json:"tiempo_preparacion" validate:"omitempty,min=0"`
	Imagen            *string          `json:"imagen"`
	StockMinimo       *int             `json:"stock_minimo"       validate:"omitempty,min=0"`
}

type AjustarStockRequest struct {
	// Delta is signed: positive = entrada, negative = salida
	Delta  int    `json:"delta"  validate:"required"`
	Motivo string `json:"motivo" validate:"required,min=3"`
}

type CambiarDisponibilidadRequest struct {
	Disponible *bool `json:"disponible" validate:"required"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductoFilter struct {
	Nombre     string `form:"nombre"`
	Categoria  string `form:"categoria"`
	Disponible string `form:"disponible"` // "true" | "false" | "" (all)
	Page       int    `form:"page,default=1"   validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductoResponse struct {
	ID                string          `json:"id"`
	Codigo            *string         `json:"codigo"`
	Nombre            string          `json:"nombre"`
	Descripcion       *string         `json:"descripcion"`
	Precio            decimal.Decimal `json:"precio"`
	Categoria         string          `json:"categoria"`
	TiempoPreparacion *int            `json:"tiempo_preparacion"`
	Imagen            *string         `json:"imagen"`
	Disponible        bool            `json:"disponible"`
	Stock             int             `json:"stock"`
	StockMinimo       int             `json:"stock_minimo"`
}

type ProductoListResponse struct {
	Data  []ProductoResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

// ─── Menú público ────────────────────────────────────────────────────────────

// MenuItem is a single product on the public menu board (no auth required).
type MenuItem struct {
	Nombre            string          `json:"nombre"`
	Descripcion       *string         `json:"descripcion"`
	Precio            decimal.Decimal `json:"precio"`
	TiempoPreparacion *int            `json:"tiempo_preparacion"`
	Imagen            *string         `json:"imagen"`
}

// MenuResponse groups available products by categoria.
type MenuResponse struct {
	Categorias map[string][]MenuItem `json:"categorias"`
}
