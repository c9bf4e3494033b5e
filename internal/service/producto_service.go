package service

import (
	"context"
	"fmt"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"
	"taqueriapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductoService defines the business logic contract for the menu catalog
// and its stock.
type ProductoService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	// AjustarStock applies a signed delta: the resulting stock must stay ≥ 0,
	// otherwise the call fails without mutation.
	AjustarStock(ctx context.Context, usuarioID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
	CambiarDisponibilidad(ctx context.Context, usuarioID, id uuid.UUID, disponible bool) error
}

type productoService struct {
	repo           repository.ProductoRepository
	movimientoRepo repository.MovimientoInventarioRepository
	auditoriaRepo  repository.AuditoriaRepository
}

func NewProductoService(
	repo repository.ProductoRepository,
	movimientoRepo repository.MovimientoInventarioRepository,
	auditoriaRepo repository.AuditoriaRepository,
) ProductoService {
	return &productoService{repo: repo, movimientoRepo: movimientoRepo, auditoriaRepo: auditoriaRepo}
}

func (s *productoService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if req.Precio.IsNegative() {
		return nil, apierror.Validation("precio", "El precio no puede ser negativo")
	}
	if req.Codigo != nil {
		if _, err := s.repo.FindByCodigo(ctx, *req.Codigo); err == nil {
			return nil, apierror.Constraint(fmt.Sprintf("Ya existe un producto con codigo %s", *req.Codigo))
		}
	}

	p := &model.Producto{
		Codigo:            req.Codigo,
		Nombre:            req.Nombre,
		Descripcion:       req.Descripcion,
		Precio:            req.Precio,
		Categoria:         req.Categoria,
		TiempoPreparacion: req.TiempoPreparacion,
		Imagen:            req.Imagen,
		Disponible:        true,
		Stock:             req.Stock,
		StockMinimo:       req.StockMinimo,
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if err := s.repo.Create(ctx, p); err != nil {
				return err
			}
		} else if err := tx.Create(p).Error; err != nil {
			return err
		}
		// Initial stock enters the ledger as an entrada
		if p.Stock > 0 {
			mov := &model.MovimientoInventario{
				ProductoID:    p.ID,
				Tipo:          model.MovimientoEntrada,
				Cantidad:      p.Stock,
				StockAnterior: 0,
				StockNuevo:    p.Stock,
				Motivo:        "Alta de producto",
				UsuarioID:     usuarioID,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return err
			}
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "productos", "crear", p.ID, usuarioID, nil, snapshotProducto(p))
	})
	if txErr != nil {
		return nil, txErr
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	items := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		items = append(items, *productoToResponse(&productos[i]))
	}
	return &dto.ProductoListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}

// Actualizar preserves the product id and creation metadata. Price edits do
// NOT retroactively touch existing order line snapshots.
func (s *productoService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Producto no encontrado")
	}

	antes := snapshotProducto(p)
	if req.Codigo != nil {
		if existente, err := s.repo.FindByCodigo(ctx, *req.Codigo); err == nil && existente.ID != id {
			return nil, apierror.Constraint(fmt.Sprintf("Ya existe un producto con codigo %s", *req.Codigo))
		}
		p.Codigo = req.Codigo
	}
	if req.Nombre != nil {
		p.Nombre = *req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Precio != nil {
		if req.Precio.IsNegative() {
			return nil, apierror.Validation("precio", "El precio no puede ser negativo")
		}
		p.Precio = *req.Precio
	}
	if req.Categoria != nil {
		if *req.Categoria == "" {
			return nil, apierror.Validation("categoria", "La categoria no puede estar vacia")
		}
		p.Categoria = *req.Categoria
	}
	if req.TiempoPreparacion != nil {
		p.TiempoPreparacion = req.TiempoPreparacion
	}
	if req.Imagen != nil {
		p.Imagen = req.Imagen
	}
	if req.StockMinimo != nil {
		if *req.StockMinimo < 0 {
			return nil, apierror.Validation("stock_minimo", "El stock minimo no puede ser negativo")
		}
		p.StockMinimo = *req.StockMinimo
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if err := s.repo.Update(ctx, p); err != nil {
				return err
			}
		} else if err := tx.Save(p).Error; err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "productos", "actualizar", p.ID, usuarioID, antes, snapshotProducto(p))
	})
	if txErr != nil {
		return nil, txErr
	}
	return productoToResponse(p), nil
}

func (s *productoService) AjustarStock(ctx context.Context, usuarioID, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Producto no encontrado")
	}

	// Floor check: the service is the final authority, regardless of any
	// warning the frontend may have shown.
	if p.Stock+req.Delta < 0 {
		return nil, apierror.Constraint(fmt.Sprintf("El ajuste dejaria el stock de %s en %d", p.Nombre, p.Stock+req.Delta))
	}

	stockAntes := p.Stock
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateStockTx(tx, id, req.Delta); err != nil {
			return err
		}
		mov := &model.MovimientoInventario{
			ProductoID:    id,
			Tipo:          model.MovimientoAjuste,
			Cantidad:      req.Delta,
			StockAnterior: stockAntes,
			StockNuevo:    stockAntes + req.Delta,
			Motivo:        req.Motivo,
			UsuarioID:     usuarioID,
		}
		if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
			return err
		}
		antes := snapshotProducto(p)
		despues := snapshotProducto(p)
		despues["stock"] = stockAntes + req.Delta
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "productos", "ajustar_stock", p.ID, usuarioID, antes, despues)
	})
	if txErr != nil {
		return nil, txErr
	}

	p.Stock = stockAntes + req.Delta
	return productoToResponse(p), nil
}

// CambiarDisponibilidad is independent of stock level: a product can be
// paused while still in stock (e.g. seasonal).
func (s *productoService) CambiarDisponibilidad(ctx context.Context, usuarioID, id uuid.UUID, disponible bool) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Producto no encontrado")
	}
	antes := snapshotProducto(p)
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		// Must run on the tx handle: the base pool's only connection is
		// held by this transaction when max open conns is 1.
		if err := s.repo.SetDisponibilidadTx(tx, id, disponible); err != nil {
			return err
		}
		despues := snapshotProducto(p)
		despues["disponible"] = disponible
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "productos", "disponibilidad", p.ID, usuarioID, antes, despues)
	})
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:                p.ID.String(),
		Codigo:            p.Codigo,
		Nombre:            p.Nombre,
		Descripcion:       p.Descripcion,
		Precio:            p.Precio,
		Categoria:         p.Categoria,
		TiempoPreparacion: p.TiempoPreparacion,
		Imagen:            p.Imagen,
		Disponible:        p.Disponible,
		Stock:             p.Stock,
		StockMinimo:       p.StockMinimo,
	}
}
