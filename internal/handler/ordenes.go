package handler

import (
	"net/http"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"
	"taqueriapos/internal/service"

	"github.com/gin-gonic/gin"
)

type OrdenesHandler struct{ svc service.OrdenService }

func NewOrdenesHandler(svc service.OrdenService) *OrdenesHandler {
	return &OrdenesHandler{svc: svc}
}

// Crear godoc
// @Summary Abre una orden sobre una mesa disponible
// @Tags ordenes
// @Accept json
// @Produce json
// @Param body body dto.CrearOrdenRequest true "Orden"
// @Success 201 {object} dto.OrdenResponse
// @Failure 409 {object} apierror.APIError
// @Router /v1/ordenes [post]
func (h *OrdenesHandler) Crear(c *gin.Context) {
	var req dto.CrearOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), currentUserID(c), req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *OrdenesHandler) Listar(c *gin.Context) {
	var filter dto.OrdenFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.Listar(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar ordenes"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *OrdenesHandler) Obtener(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Pagar godoc
// @Summary Cobra la orden (metodo unico o pago dividido)
// @Tags ordenes
// @Accept json
// @Produce json
// @Param id path string true "ID de la orden"
// @Param body body dto.PagarOrdenRequest true "Pago"
// @Success 200 {object} dto.OrdenResponse
// @Failure 400 {object} apierror.APIError
// @Router /v1/ordenes/{id}/pagar [post]
func (h *OrdenesHandler) Pagar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.PagarOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Pagar(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Cancelar godoc
// @Summary Cancela la orden y repone el stock consumido
// @Tags ordenes
// @Accept json
// @Produce json
// @Param id path string true "ID de la orden"
// @Param body body dto.CancelarOrdenRequest true "Motivo"
// @Success 204
// @Failure 400 {object} apierror.APIError
// @Router /v1/ordenes/{id}/cancelar [post]
func (h *OrdenesHandler) Cancelar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CancelarOrdenRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Cancelar(c.Request.Context(), currentUserID(c), id, req.Motivo); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ActualizarDetalle moves one line item through the kitchen pipeline.
func (h *OrdenesHandler) ActualizarDetalle(c *gin.Context) {
	ordenID, ok := parseID(c, "id")
	if !ok {
		return
	}
	detalleID, ok := parseID(c, "detalleId")
	if !ok {
		return
	}
	var req dto.ActualizarDetalleRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.ActualizarEstadoDetalle(c.Request.Context(), ordenID, detalleID, model.EstadoDetalle(req.Estado)); err != nil {
		writeServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Ticket streams the PDF receipt for a paid order.
func (h *OrdenesHandler) Ticket(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	path, err := h.svc.Ticket(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.File(path)
}
