package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/infra"
	"taqueriapos/internal/repository"

	"github.com/rs/zerolog/log"
)

// ReporteService builds the daily close report and optionally mails it.
type ReporteService interface {
	CierreDelDia(ctx context.Context, fecha time.Time, enviarEmail bool) (*dto.CierreDelDiaResponse, error)
}

type reporteService struct {
	repo    repository.DashboardRepository
	mailer  *infra.Mailer
	emailTo string
}

func NewReporteService(repo repository.DashboardRepository, mailer *infra.Mailer, emailTo string) ReporteService {
	return &reporteService{repo: repo, mailer: mailer, emailTo: emailTo}
}

func (s *reporteService) CierreDelDia(ctx context.Context, fecha time.Time, enviarEmail bool) (*dto.CierreDelDiaResponse, error) {
	total, pagadas, err := s.repo.VentasDelDia(ctx, fecha)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	canceladas, err := s.repo.CanceladasDelDia(ctx, fecha)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	porMetodo, err := s.repo.VentasPorMetodo(ctx, fecha)
	if err != nil {
		return nil, apierror.Transaction(err)
	}

	resp := &dto.CierreDelDiaResponse{
		Fecha:             fecha.Format("2006-01-02"),
		TotalVentas:       total,
		OrdenesPagadas:    pagadas,
		OrdenesCanceladas: canceladas,
		PorMetodo:         porMetodo,
	}

	if enviarEmail && s.mailer != nil && s.emailTo != "" {
		body := s.cuerpoEmail(resp)
		asunto := fmt.Sprintf("Cierre del dia %s", resp.Fecha)
		if err := s.mailer.SendReporte(s.emailTo, asunto, body); err != nil {
			// The report itself succeeded; the mail is best effort
			log.Warn().Err(err).Str("fecha", resp.Fecha).Msg("no se pudo enviar el reporte de cierre")
		} else {
			resp.EmailEnviado = true
		}
	}
	return resp, nil
}

func (s *reporteService) cuerpoEmail(r *dto.CierreDelDiaResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Cierre del dia %s\n\n", r.Fecha)
	fmt.Fprintf(&b, "Total vendido: $%s\n", r.TotalVentas.StringFixed(2))
	fmt.Fprintf(&b, "Ordenes pagadas: %d\n", r.OrdenesPagadas)
	fmt.Fprintf(&b, "Ordenes canceladas: %d\n\n", r.OrdenesCanceladas)
	for metodo, monto := range r.PorMetodo {
		fmt.Fprintf(&b, "  %s: $%s\n", metodo, monto.StringFixed(2))
	}
	return b.String()
}
