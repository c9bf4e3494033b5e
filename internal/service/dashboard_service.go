package service

import (
	"context"
	"time"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/repository"
)

// DashboardService builds the admin overview. Pure projection over committed
// data — reads are point-in-time, never used to drive further mutation.
type DashboardService interface {
	Resumen(ctx context.Context) (*dto.ResumenResponse, error)
}

type dashboardService struct {
	repo       repository.DashboardRepository
	inventario InventarioService
}

func NewDashboardService(repo repository.DashboardRepository, inventario InventarioService) DashboardService {
	return &dashboardService{repo: repo, inventario: inventario}
}

func (s *dashboardService) Resumen(ctx context.Context) (*dto.ResumenResponse, error) {
	hoy := time.Now()

	ventas, ordenes, err := s.repo.VentasDelDia(ctx, hoy)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	activas, err := s.repo.OrdenesActivas(ctx)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	top, err := s.repo.TopProductos(ctx, hoy, 5)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	alertas, err := s.inventario.ObtenerAlertas(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.ResumenResponse{
		VentasHoy:      ventas,
		OrdenesHoy:     ordenes,
		OrdenesActivas: activas,
		TopProductos:   top,
		AlertasStock:   alertas,
	}, nil
}
