package repository

import (
	"context"
	"time"

	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DashboardRepository runs the read-only aggregation queries behind the admin
// dashboard and the daily close report. Pure projection — no invariants.
type DashboardRepository interface {
	VentasDelDia(ctx context.Context, dia time.Time) (decimal.Decimal, int64, error)
	OrdenesActivas(ctx context.Context) (int64, error)
	TopProductos(ctx context.Context, dia time.Time, limit int) ([]dto.TopProducto, error)
	CanceladasDelDia(ctx context.Context, dia time.Time) (int64, error)
	VentasPorMetodo(ctx context.Context, dia time.Time) (map[string]decimal.Decimal, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository { return &dashboardRepo{db: db} }

func dayBounds(dia time.Time) (time.Time, time.Time) {
	inicio := time.Date(dia.Year(), dia.Month(), dia.Day(), 0, 0, 0, 0, dia.Location())
	return inicio, inicio.AddDate(0, 0, 1)
}

func (r *dashboardRepo) VentasDelDia(ctx context.Context, dia time.Time) (decimal.Decimal, int64, error) {
	inicio, fin := dayBounds(dia)

	var row struct {
		Total  decimal.Decimal
		Cuenta int64
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(total), 0) AS total, COUNT(*) AS cuenta
		       FROM ordenes
		      WHERE estado = ? AND cerrada_at >= ? AND cerrada_at < ?`,
			model.OrdenPagada, inicio, fin).
		Scan(&row).Error
	return row.Total, row.Cuenta, err
}

func (r *dashboardRepo) OrdenesActivas(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Orden{}).
		Where("estado = ?", model.OrdenActiva).Count(&n).Error
	return n, err
}

func (r *dashboardRepo) TopProductos(ctx context.Context, dia time.Time, limit int) ([]dto.TopProducto, error) {
	inicio, fin := dayBounds(dia)
	if limit < 1 {
		limit = 5
	}

	var top []dto.TopProducto
	err := r.db.WithContext(ctx).
		Raw(`SELECT p.nombre AS nombre,
		            SUM(d.cantidad) AS cantidad,
		            SUM(d.cantidad * d.precio_unitario) AS importe
		       FROM orden_detalles d
		       JOIN ordenes o ON o.id = d.orden_id
		       JOIN productos p ON p.id = d.producto_id
		      WHERE o.estado = ? AND d.cancelado = 0
		        AND o.cerrada_at >= ? AND o.cerrada_at < ?
		      GROUP BY p.nombre
		      ORDER BY cantidad DESC
		      LIMIT ?`,
			model.OrdenPagada, inicio, fin, limit).
		Scan(&top).Error
	return top, err
}

func (r *dashboardRepo) CanceladasDelDia(ctx context.Context, dia time.Time) (int64, error) {
	inicio, fin := dayBounds(dia)
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Orden{}).
		Where("estado = ? AND cerrada_at >= ? AND cerrada_at < ?", model.OrdenCancelada, inicio, fin).
		Count(&n).Error
	return n, err
}

func (r *dashboardRepo) VentasPorMetodo(ctx context.Context, dia time.Time) (map[string]decimal.Decimal, error) {
	inicio, fin := dayBounds(dia)

	// Single-method payments sit on ordenes.metodo_pago; split payments sit in
	// orden_pagos. Both are aggregated.
	var rows []struct {
		Metodo string
		Total  decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Raw(`SELECT metodo, SUM(total) AS total FROM (
		        SELECT o.metodo_pago AS metodo, o.total AS total
		          FROM ordenes o
		         WHERE o.estado = ? AND o.metodo_pago IS NOT NULL
		           AND o.cerrada_at >= ? AND o.cerrada_at < ?
		        UNION ALL
		        SELECT p.metodo AS metodo, p.monto AS total
		          FROM orden_pagos p
		          JOIN ordenes o ON o.id = p.orden_id
		         WHERE o.estado = ? AND o.cerrada_at >= ? AND o.cerrada_at < ?
		     ) GROUP BY metodo`,
			model.OrdenPagada, inicio, fin, model.OrdenPagada, inicio, fin).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	porMetodo := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		porMetodo[row.Metodo] = row.Total
	}
	return porMetodo, nil
}
