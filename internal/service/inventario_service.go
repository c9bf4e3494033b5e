package service

import (
	"context"
	"time"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/repository"
)

// InventarioService exposes the read side of the stock ledger.
type InventarioService interface {
	ListarMovimientos(ctx context.Context, filter repository.MovimientoFilter) (*dto.MovimientoListResponse, error)
	// ObtenerAlertas lists products at or below their minimum threshold.
	ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error)
}

type inventarioService struct {
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoInventarioRepository
}

func NewInventarioService(
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoInventarioRepository,
) InventarioService {
	return &inventarioService{productoRepo: productoRepo, movimientoRepo: movimientoRepo}
}

func (s *inventarioService) ListarMovimientos(ctx context.Context, filter repository.MovimientoFilter) (*dto.MovimientoListResponse, error) {
	movimientos, total, err := s.movimientoRepo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Transaction(err)
	}

	items := make([]dto.MovimientoResponse, 0, len(movimientos))
	for _, m := range movimientos {
		nombre := ""
		if m.Producto != nil {
			nombre = m.Producto.Nombre
		}
		item := dto.MovimientoResponse{
			ID:            m.ID.String(),
			Producto:      nombre,
			Tipo:          string(m.Tipo),
			Cantidad:      m.Cantidad,
			StockAnterior: m.StockAnterior,
			StockNuevo:    m.StockNuevo,
			Motivo:        m.Motivo,
			CreatedAt:     m.CreatedAt.Format(time.RFC3339),
		}
		if m.OrdenID != nil {
			ordenID := m.OrdenID.String()
			item.OrdenID = &ordenID
		}
		items = append(items, item)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 || limit > 500 {
		limit = 100
	}
	return &dto.MovimientoListResponse{Data: items, Total: total, Page: page, Limit: limit}, nil
}

func (s *inventarioService) ObtenerAlertas(ctx context.Context) ([]dto.AlertaStockResponse, error) {
	productos, err := s.productoRepo.StockBajo(ctx)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	alertas := make([]dto.AlertaStockResponse, 0, len(productos))
	for _, p := range productos {
		alertas = append(alertas, dto.AlertaStockResponse{
			ProductoID:  p.ID.String(),
			Nombre:      p.Nombre,
			Stock:       p.Stock,
			StockMinimo: p.StockMinimo,
		})
	}
	return alertas, nil
}
