package dto

import "github.com/shopspring/decimal"

// TopProducto is one entry of the best-sellers projection.
type TopProducto struct {
	Nombre   string          `json:"nombre"`
	Cantidad int             `json:"cantidad"`
	Importe  decimal.Decimal `json:"importe"`
}

// ResumenResponse is the read-only dashboard projection. Point-in-time reads,
// not transactionally isolated from concurrent writes.
type ResumenResponse struct {
	VentasHoy      decimal.Decimal       `json:"ventas_hoy"`
	OrdenesHoy     int64                 `json:"ordenes_hoy"`
	OrdenesActivas int64                 `json:"ordenes_activas"`
	TopProductos   []TopProducto         `json:"top_productos"`
	AlertasStock   []AlertaStockResponse `json:"alertas_stock"`
}

// CierreDelDiaResponse summarizes one day for the close report.
type CierreDelDiaResponse struct {
	Fecha             string                     `json:"fecha"`
	TotalVentas       decimal.Decimal            `json:"total_ventas"`
	OrdenesPagadas    int64                      `json:"ordenes_pagadas"`
	OrdenesCanceladas int64                      `json:"ordenes_canceladas"`
	PorMetodo         map[string]decimal.Decimal `json:"por_metodo"`
	EmailEnviado      bool                       `json:"email_enviado"`
}
