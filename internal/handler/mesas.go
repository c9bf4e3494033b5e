package handler

import (
	"net/http"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"
	"taqueriapos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MesasHandler struct{ svc service.MesaService }

func NewMesasHandler(svc service.MesaService) *MesasHandler {
	return &MesasHandler{svc: svc}
}

func (h *MesasHandler) Crear(c *gin.Context) {
	var req dto.CrearMesaRequest
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

func (h *MesasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar mesas"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MesasHandler) Obtener(c *gin.Context) {
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

func (h *MesasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.ActualizarMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(c.Request.Context(), currentUserID(c), id, req)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AsignarMesero godoc
// @Summary Asigna un mesero a la mesa
// @Tags mesas
// @Accept json
// @Produce json
// @Param id path string true "ID de la mesa"
// @Param body body dto.AsignarMeseroRequest true "Mesero"
// @Success 200 {object} dto.MesaResponse
// @Failure 422 {object} apierror.APIError
// @Router /v1/mesas/{id}/mesero [patch]
func (h *MesasHandler) AsignarMesero(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.AsignarMeseroRequest
	if !bindAndValidate(c, &req) {
		return
	}
	meseroID, err := uuid.Parse(req.MeseroID)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("mesero_id invalido"))
		return
	}
	resp, err := h.svc.AsignarMesero(c.Request.Context(), currentUserID(c), id, meseroID)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *MesasHandler) CambiarEstado(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CambiarEstadoMesaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CambiarEstado(c.Request.Context(), currentUserID(c), id, model.EstadoMesa(req.Estado))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
