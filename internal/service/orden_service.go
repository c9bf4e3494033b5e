package service

import (
	"context"
	"fmt"
	"time"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/infra"
	"taqueriapos/internal/model"
	"taqueriapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrdenService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error)
	Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error)
	Pagar(ctx context.Context, usuarioID, id uuid.UUID, req dto.PagarOrdenRequest) (*dto.OrdenResponse, error)
	Cancelar(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error
	ActualizarEstadoDetalle(ctx context.Context, ordenID, detalleID uuid.UUID, estado model.EstadoDetalle) error
	// Ticket generates the printable PDF for a paid order and returns its path.
	Ticket(ctx context.Context, id uuid.UUID) (string, error)
}

type ordenService struct {
	repo           repository.OrdenRepository
	mesaRepo       repository.MesaRepository
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoInventarioRepository
	auditoriaRepo  repository.AuditoriaRepository
	controlStock   bool
	ticketPath     string
}

func NewOrdenService(
	repo repository.OrdenRepository,
	mesaRepo repository.MesaRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoInventarioRepository,
	auditoriaRepo repository.AuditoriaRepository,
	controlStock bool,
	ticketPath string,
) OrdenService {
	return &ordenService{
		repo:           repo,
		mesaRepo:       mesaRepo,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		auditoriaRepo:  auditoriaRepo,
		controlStock:   controlStock,
		ticketPath:     ticketPath,
	}
}

// runTx executes fn inside a GORM transaction when db is available,
// or calls fn(nil) directly when db is nil (unit test mode).
func runTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if db == nil {
		return fn(nil)
	}
	if err := db.WithContext(ctx).Transaction(fn); err != nil {
		if _, ok := err.(*apierror.Error); ok {
			return err
		}
		return apierror.Transaction(err)
	}
	return nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────
// Full ACID transaction:
//   1. Validate mesa and every producto (pre-flight, outside TX)
//   2. BEGIN TX: next numero, create orden + detalles with price snapshots,
//      descontar stock + movimientos, mesa → ocupada, auditoría
//   3. COMMIT — any failure leaves no partial rows

func (s *ordenService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearOrdenRequest) (*dto.OrdenResponse, error) {
	mesaID, err := uuid.Parse(req.MesaID)
	if err != nil {
		return nil, apierror.Validation("mesa_id", "mesa_id inválido")
	}

	mesa, err := s.mesaRepo.FindByID(ctx, mesaID)
	if err != nil {
		return nil, apierror.NotFound("Mesa no encontrada")
	}
	if mesa.OrdenActualID != nil {
		return nil, apierror.InvalidState(fmt.Sprintf("La mesa %d ya tiene una orden activa", mesa.Numero))
	}

	comensales := req.Comensales
	if comensales < 1 {
		comensales = 1
	}

	// Resolve products and calculate the total (pre-flight, outside TX)
	type resolvedItem struct {
		productoID uuid.UUID
		nombre     string
		precio     decimal.Decimal
		cantidad   int
		notas      *string
	}

	var resolved []resolvedItem
	total := decimal.Zero
	for _, item := range req.Items {
		if item.Cantidad <= 0 {
			return nil, apierror.Validation("cantidad", "La cantidad debe ser mayor a cero")
		}
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, apierror.Validation("producto_id", "producto_id inválido")
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, apierror.NotFound(fmt.Sprintf("Producto %s no encontrado", item.ProductoID))
		}
		if !p.Disponible {
			return nil, apierror.Validation("items", fmt.Sprintf("El producto %s no está disponible", p.Nombre))
		}
		if s.controlStock && p.Stock < item.Cantidad {
			return nil, apierror.Constraint(fmt.Sprintf("Stock insuficiente para %s: hay %d, se pidieron %d",
				p.Nombre, p.Stock, item.Cantidad))
		}
		total = total.Add(p.Precio.Mul(decimal.NewFromInt(int64(item.Cantidad))))
		resolved = append(resolved, resolvedItem{
			productoID: pid,
			nombre:     p.Nombre,
			precio:     p.Precio,
			cantidad:   item.Cantidad,
			notas:      item.Notas,
		})
	}

	notas := ""
	if req.Notas != nil {
		notas = *req.Notas
	}

	var orden model.Orden
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		numero, err := s.repo.NextNumero(ctx, tx)
		if err != nil {
			return err
		}

		orden = model.Orden{
			Numero:     numero,
			MesaID:     mesaID,
			UsuarioID:  usuarioID,
			Comensales: comensales,
			Total:      total,
			Estado:     model.OrdenActiva,
			Notas:      notas,
		}
		for _, r := range resolved {
			orden.Detalles = append(orden.Detalles, model.OrdenDetalle{
				ProductoID:     r.productoID,
				Cantidad:       r.cantidad,
				PrecioUnitario: r.precio, // snapshot — never re-read from Producto
				Estado:         model.DetallePendiente,
				Notas:          r.notas,
			})
		}

		if err := s.repo.Create(ctx, tx, &orden); err != nil {
			return err
		}

		// Descontar stock y registrar movimientos — one ledger row per line
		if s.controlStock {
			for _, r := range resolved {
				stockAntes := 0
				if prod, err := s.productoRepo.FindByIDTx(tx, r.productoID); err == nil && prod != nil {
					stockAntes = prod.Stock
					if stockAntes < r.cantidad {
						return apierror.Constraint(fmt.Sprintf("Stock insuficiente para %s", r.nombre))
					}
				}
				if err := s.productoRepo.UpdateStockTx(tx, r.productoID, -r.cantidad); err != nil {
					return err
				}
				ordenRef := orden.ID
				mov := &model.MovimientoInventario{
					ProductoID:    r.productoID,
					Tipo:          model.MovimientoSalida,
					Cantidad:      -r.cantidad,
					StockAnterior: stockAntes,
					StockNuevo:    stockAntes - r.cantidad,
					Motivo:        fmt.Sprintf("Orden #%d", numero),
					OrdenID:       &ordenRef,
					UsuarioID:     usuarioID,
				}
				if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}

		// Mesa pasa a ocupada con la orden colgada
		antes := snapshotMesa(mesa)
		mesa.Estado = model.MesaOcupada
		mesa.OrdenActualID = &orden.ID
		if err := s.mesaRepo.UpdateTx(tx, mesa); err != nil {
			return err
		}
		if err := registrarAuditoriaTx(tx, s.auditoriaRepo, "mesas", "actualizar", mesa.ID, usuarioID, antes, snapshotMesa(mesa)); err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "ordenes", "crear", orden.ID, usuarioID, nil, snapshotOrden(&orden))
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := ordenToResponse(&orden)
	resp.MesaNumero = mesa.Numero
	if mesa.Mesero != nil {
		resp.MeseroNombre = mesa.Mesero.Nombre
	}
	for i, r := range resolved {
		resp.Detalles[i].Producto = r.nombre
	}
	return resp, nil
}

// ── Pagar ─────────────────────────────────────────────────────────────────────

func (s *ordenService) Pagar(ctx context.Context, usuarioID, id uuid.UUID, req dto.PagarOrdenRequest) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Orden no encontrada")
	}
	// State machine guard — rejects without mutation
	if orden.Estado.Terminal() {
		return nil, apierror.InvalidState(fmt.Sprintf("La orden #%d ya está %s", orden.Numero, orden.Estado))
	}

	single := req.Metodo != nil
	split := len(req.Pagos) > 0
	if single == split {
		return nil, apierror.Validation("metodo", "Indique un metodo de pago o un desglose de pagos, no ambos")
	}

	vuelto := decimal.Zero
	var metodo model.MetodoPago
	if single {
		metodo = model.MetodoPago(*req.Metodo)
		if !metodo.Valida() {
			return nil, apierror.Validation("metodo", "Metodo de pago desconocido")
		}
	} else {
		totalPagos := decimal.Zero
		for _, pago := range req.Pagos {
			if !model.MetodoPago(pago.Metodo).Valida() {
				return nil, apierror.Validation("pagos", "Metodo de pago desconocido")
			}
			if !pago.Monto.IsPositive() {
				return nil, apierror.Validation("pagos", "Cada monto debe ser mayor a cero")
			}
			totalPagos = totalPagos.Add(pago.Monto)
		}
		if totalPagos.LessThan(orden.Total) {
			return nil, apierror.Validation("pagos", "El monto total de pagos es insuficiente")
		}
		vuelto = totalPagos.Sub(orden.Total)
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		antes := snapshotOrden(orden)
		ahora := time.Now()
		orden.Estado = model.OrdenPagada
		orden.CerradaAt = &ahora
		if single {
			orden.MetodoPago = &metodo
		}
		if req.Nota != nil && *req.Nota != "" {
			orden.Notas = appendNota(orden.Notas, *req.Nota)
		}
		if err := s.repo.UpdateTx(tx, orden); err != nil {
			return err
		}

		for _, pago := range req.Pagos {
			row := &model.OrdenPago{
				OrdenID:  orden.ID,
				Comensal: pago.Comensal,
				Metodo:   model.MetodoPago(pago.Metodo),
				Monto:    pago.Monto,
			}
			if err := s.repo.CreatePagoTx(tx, row); err != nil {
				return err
			}
			orden.Pagos = append(orden.Pagos, *row)
		}

		if err := s.liberarMesaTx(tx, orden.MesaID, usuarioID); err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "ordenes", "pagar", orden.ID, usuarioID, antes, snapshotOrden(orden))
	})
	if txErr != nil {
		return nil, txErr
	}

	resp := ordenToResponse(orden)
	resp.Vuelto = vuelto
	return resp, nil
}

// ── Cancelar ──────────────────────────────────────────────────────────────────
// Mirror of the creation decrement: every non-cancelled detalle restores its
// cantidad with a matching entrada movement. All-or-nothing.

func (s *ordenService) Cancelar(ctx context.Context, usuarioID, id uuid.UUID, motivo string) error {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return apierror.NotFound("Orden no encontrada")
	}
	if orden.Estado.Terminal() {
		return apierror.InvalidState(fmt.Sprintf("La orden #%d ya está %s", orden.Numero, orden.Estado))
	}

	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if s.controlStock {
			for _, detalle := range orden.Detalles {
				if detalle.Cancelado {
					continue
				}
				stockAntes := 0
				if prod, err := s.productoRepo.FindByIDTx(tx, detalle.ProductoID); err == nil && prod != nil {
					stockAntes = prod.Stock
				}
				if err := s.productoRepo.UpdateStockTx(tx, detalle.ProductoID, detalle.Cantidad); err != nil {
					return err
				}
				motivoMov := fmt.Sprintf("Cancelación orden #%d", orden.Numero)
				if motivo != "" {
					motivoMov = fmt.Sprintf("%s: %s", motivoMov, motivo)
				}
				ordenRef := orden.ID
				mov := &model.MovimientoInventario{
					ProductoID:    detalle.ProductoID,
					Tipo:          model.MovimientoEntrada,
					Cantidad:      detalle.Cantidad,
					StockAnterior: stockAntes,
					StockNuevo:    stockAntes + detalle.Cantidad,
					Motivo:        motivoMov,
					OrdenID:       &ordenRef,
					UsuarioID:     usuarioID,
				}
				if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
					return err
				}
			}
		}

		antes := snapshotOrden(orden)
		ahora := time.Now()
		orden.Estado = model.OrdenCancelada
		orden.CerradaAt = &ahora
		orden.Notas = appendNota(orden.Notas, motivo)
		if err := s.repo.UpdateTx(tx, orden); err != nil {
			return err
		}

		if err := s.liberarMesaTx(tx, orden.MesaID, usuarioID); err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "ordenes", "cancelar", orden.ID, usuarioID, antes, snapshotOrden(orden))
	})
}

// liberarMesaTx frees the mesa when its order reaches a terminal state:
// disponible, sin mesero, sin orden actual. Reads and writes go through the
// tx handle: the base pool may be capped at one connection, which the open
// transaction already holds.
func (s *ordenService) liberarMesaTx(tx *gorm.DB, mesaID uuid.UUID, usuarioID uuid.UUID) error {
	mesa, err := s.mesaRepo.FindByIDTx(tx, mesaID)
	if err != nil {
		return err
	}
	antes := snapshotMesa(mesa)
	mesa.Estado = model.MesaDisponible
	mesa.MeseroID = nil
	mesa.Mesero = nil
	mesa.OrdenActualID = nil
	if err := s.mesaRepo.UpdateTx(tx, mesa); err != nil {
		return err
	}
	return registrarAuditoriaTx(tx, s.auditoriaRepo, "mesas", "actualizar", mesa.ID, usuarioID, antes, snapshotMesa(mesa))
}

// ── Lecturas ──────────────────────────────────────────────────────────────────

func (s *ordenService) Obtener(ctx context.Context, id uuid.UUID) (*dto.OrdenResponse, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Orden no encontrada")
	}
	return ordenToResponse(orden), nil
}

// Listar partitions orders into in-progress and history.
func (s *ordenService) Listar(ctx context.Context, filter dto.OrdenFilter) (*dto.OrdenListResponse, error) {
	ordenes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apierror.Transaction(err)
	}

	resp := &dto.OrdenListResponse{
		Activas:   []dto.OrdenResponse{},
		Historial: []dto.OrdenResponse{},
	}
	for i := range ordenes {
		item := ordenToResponse(&ordenes[i])
		if ordenes[i].Estado.Terminal() {
			resp.Historial = append(resp.Historial, *item)
		} else {
			resp.Activas = append(resp.Activas, *item)
		}
	}
	return resp, nil
}

// ── Detalle (flujo de cocina) ─────────────────────────────────────────────────

func (s *ordenService) ActualizarEstadoDetalle(ctx context.Context, ordenID, detalleID uuid.UUID, estado model.EstadoDetalle) error {
	if !estado.Valida() {
		return apierror.Validation("estado", "Estado de detalle desconocido")
	}
	orden, err := s.repo.FindByID(ctx, ordenID)
	if err != nil {
		return apierror.NotFound("Orden no encontrada")
	}
	if orden.Estado != model.OrdenActiva {
		return apierror.InvalidState(fmt.Sprintf("La orden #%d no está activa", orden.Numero))
	}

	var detalle *model.OrdenDetalle
	for i := range orden.Detalles {
		if orden.Detalles[i].ID == detalleID {
			detalle = &orden.Detalles[i]
			break
		}
	}
	if detalle == nil {
		return apierror.NotFound("Detalle no encontrado")
	}
	if !detalle.Estado.PuedeAvanzarA(estado) {
		return apierror.InvalidState(fmt.Sprintf("El detalle no puede pasar de %s a %s", detalle.Estado, estado))
	}

	detalle.Estado = estado
	return runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		return s.repo.UpdateDetalleTx(tx, detalle)
	})
}

// ── Ticket ────────────────────────────────────────────────────────────────────

func (s *ordenService) Ticket(ctx context.Context, id uuid.UUID) (string, error) {
	orden, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", apierror.NotFound("Orden no encontrada")
	}
	if orden.Estado != model.OrdenPagada {
		return "", apierror.InvalidState("Solo las ordenes pagadas tienen ticket")
	}
	path, err := infra.GenerateTicketPDF(orden, s.ticketPath)
	if err != nil {
		return "", apierror.Transaction(err)
	}
	return path, nil
}

// ── Conversión ────────────────────────────────────────────────────────────────

func ordenToResponse(o *model.Orden) *dto.OrdenResponse {
	detalles := make([]dto.DetalleOrdenResponse, 0, len(o.Detalles))
	for i := range o.Detalles {
		d := &o.Detalles[i]
		nombre := ""
		if d.Producto != nil {
			nombre = d.Producto.Nombre
		}
		detalles = append(detalles, dto.DetalleOrdenResponse{
			ID:             d.ID.String(),
			Producto:       nombre,
			Cantidad:       d.Cantidad,
			PrecioUnitario: d.PrecioUnitario,
			Subtotal:       d.Subtotal(),
			Estado:         string(d.Estado),
			Notas:          d.Notas,
			Cancelado:      d.Cancelado,
		})
	}

	pagos := make([]dto.PagoDivididoResponse, 0, len(o.Pagos))
	for _, p := range o.Pagos {
		pagos = append(pagos, dto.PagoDivididoResponse{
			Comensal: p.Comensal,
			Metodo:   string(p.Metodo),
			Monto:    p.Monto,
		})
	}

	resp := &dto.OrdenResponse{
		ID:         o.ID.String(),
		Numero:     o.Numero,
		Comensales: o.Comensales,
		Total:      o.Total,
		Estado:     string(o.Estado),
		Pagos:      pagos,
		Vuelto:     decimal.Zero,
		Notas:      o.Notas,
		Detalles:   detalles,
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
	if o.MetodoPago != nil {
		metodo := string(*o.MetodoPago)
		resp.MetodoPago = &metodo
	}
	if o.CerradaAt != nil {
		cerrada := o.CerradaAt.Format(time.RFC3339)
		resp.CerradaAt = &cerrada
	}
	if o.Mesa != nil {
		resp.MesaNumero = o.Mesa.Numero
		if o.Mesa.Mesero != nil {
			resp.MeseroNombre = o.Mesa.Mesero.Nombre
		}
	}
	if resp.MeseroNombre == "" && o.Usuario != nil {
		resp.MeseroNombre = o.Usuario.Nombre
	}
	return resp
}

// appendNota concatenates without ever overwriting what was already written.
func appendNota(existente, nueva string) string {
	if nueva == "" {
		return existente
	}
	if existente == "" {
		return nueva
	}
	return existente + "\n" + nueva
}
