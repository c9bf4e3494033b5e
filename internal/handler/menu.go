package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const menuCacheTTL = 5 * time.Minute

const menuCacheKey = "menu:publico"

// MenuHandler serves the public menu board.
// No authentication required — no side effects whatsoever.
type MenuHandler struct {
	repo repository.ProductoRepository
	rdb  *redis.Client
}

func NewMenuHandler(repo repository.ProductoRepository, rdb *redis.Client) *MenuHandler {
	return &MenuHandler{repo: repo, rdb: rdb}
}

// GetMenu godoc
// @Summary Menu publico agrupado por categoria (sin autenticacion)
// @Tags menu
// @Produce json
// @Success 200 {object} dto.MenuResponse
// @Router /v1/menu [get]
func (h *MenuHandler) GetMenu(c *gin.Context) {
	ctx := c.Request.Context()

	// 1. Try Redis cache; a nil client means caching is disabled
	if h.rdb != nil {
		if cached, err := h.rdb.Get(ctx, menuCacheKey).Bytes(); err == nil {
			var resp dto.MenuResponse
			if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
				c.JSON(http.StatusOK, resp)
				return
			}
		}
	}

	// 2. Cache miss — query DB
	productos, err := h.repo.ListDisponibles(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al obtener el menu"))
		return
	}

	resp := dto.MenuResponse{Categorias: make(map[string][]dto.MenuItem)}
	for _, p := range productos {
		resp.Categorias[p.Categoria] = append(resp.Categorias[p.Categoria], dto.MenuItem{
			Nombre:            p.Nombre,
			Descripcion:       p.Descripcion,
			Precio:            p.Precio,
			TiempoPreparacion: p.TiempoPreparacion,
			Imagen:            p.Imagen,
		})
	}

	// 3. Populate cache — best effort, ignore errors
	if h.rdb != nil {
		if b, jsonErr := json.Marshal(resp); jsonErr == nil {
			_ = h.rdb.Set(context.Background(), menuCacheKey, b, menuCacheTTL).Err()
		}
	}

	c.JSON(http.StatusOK, resp)
}
