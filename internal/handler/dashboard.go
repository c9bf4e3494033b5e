package handler

import (
	"net/http"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct{ svc service.DashboardService }

func NewDashboardHandler(svc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Resumen godoc
// @Summary Resumen operativo del dia
// @Tags dashboard
// @Produce json
// @Success 200 {object} dto.ResumenResponse
// @Router /v1/dashboard/resumen [get]
func (h *DashboardHandler) Resumen(c *gin.Context) {
	resp, err := h.svc.Resumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al armar el resumen"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
