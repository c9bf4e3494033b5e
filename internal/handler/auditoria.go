package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/repository"

	"github.com/gin-gonic/gin"
)

type AuditoriaHandler struct{ repo repository.AuditoriaRepository }

func NewAuditoriaHandler(repo repository.AuditoriaRepository) *AuditoriaHandler {
	return &AuditoriaHandler{repo: repo}
}

type auditoriaEntry struct {
	ID         string          `json:"id"`
	Tabla      string          `json:"tabla"`
	Accion     string          `json:"accion"`
	RegistroID string          `json:"registro_id"`
	UsuarioID  string          `json:"usuario_id"`
	Antes      json.RawMessage `json:"antes,omitempty"`
	Despues    json.RawMessage `json:"despues,omitempty"`
	CreatedAt  string          `json:"created_at"`
}

// Listar godoc
// @Summary Consulta del log de auditoria (solo lectura)
// @Tags auditoria
// @Produce json
// @Param tabla query string false "Filtrar por tabla"
// @Router /v1/auditoria [get]
func (h *AuditoriaHandler) Listar(c *gin.Context) {
	filter := repository.AuditoriaFilter{
		Tabla: c.Query("tabla"),
		Page:  1,
		Limit: 50,
	}
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			filter.Page = n
		}
	}
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 && n <= 200 {
			filter.Limit = n
		}
	}

	registros, total, err := h.repo.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al consultar auditoria"))
		return
	}

	data := make([]auditoriaEntry, 0, len(registros))
	for _, a := range registros {
		data = append(data, auditoriaEntry{
			ID:         a.ID.String(),
			Tabla:      a.Tabla,
			Accion:     a.Accion,
			RegistroID: a.RegistroID.String(),
			UsuarioID:  a.UsuarioID.String(),
			Antes:      json.RawMessage(a.Antes),
			Despues:    json.RawMessage(a.Despues),
			CreatedAt:  a.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"data":  data,
		"total": total,
		"page":  filter.Page,
		"limit": filter.Limit,
	})
}
