package handler

import (
	"net/http"
	"time"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/service"

	"github.com/gin-gonic/gin"
)

type ReportesHandler struct{ svc service.ReporteService }

func NewReportesHandler(svc service.ReporteService) *ReportesHandler {
	return &ReportesHandler{svc: svc}
}

// CierreDelDia godoc
// @Summary Cierre del dia: totales, cancelaciones y desglose por metodo
// @Tags reportes
// @Produce json
// @Param fecha query string false "YYYY-MM-DD (default: hoy)"
// @Param email query string false "true para enviar por correo"
// @Success 200 {object} dto.CierreDelDiaResponse
// @Router /v1/reportes/cierre [get]
func (h *ReportesHandler) CierreDelDia(c *gin.Context) {
	fecha := time.Now()
	if raw := c.Query("fecha"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("fecha invalida, use YYYY-MM-DD"))
			return
		}
		fecha = parsed
	}
	enviarEmail := c.Query("email") == "true"

	resp, err := h.svc.CierreDelDia(c.Request.Context(), fecha, enviarEmail)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al generar el cierre"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
