package service

// orden_service_test.go
// Unit tests for the order lifecycle: creation with price snapshots and stock
// decrement, single and split payment, cancellation with stock restore, the
// terminal-state guards, and the kitchen pipeline on detalles.

import (
	"context"
	"testing"

	"taqueriapos/internal/apierror"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ordenFixture struct {
	svc            OrdenService
	ordenRepo      *stubOrdenRepo
	mesaRepo       *stubMesaRepo
	productoRepo   *stubProductoRepo
	movimientoRepo *stubMovimientoRepo
	auditoriaRepo  *stubAuditoriaRepo

	mesa      *model.Mesa
	taco      *model.Producto
	agua      *model.Producto
	usuarioID uuid.UUID
}

func newOrdenFixture(t *testing.T, controlStock bool) *ordenFixture {
	t.Helper()

	f := &ordenFixture{
		ordenRepo:      newStubOrdenRepo(),
		mesaRepo:       newStubMesaRepo(),
		productoRepo:   newStubProductoRepo(),
		movimientoRepo: newStubMovimientoRepo(),
		auditoriaRepo:  newStubAuditoriaRepo(),
		usuarioID:      uuid.New(),
	}
	f.svc = NewOrdenService(f.ordenRepo, f.mesaRepo, f.productoRepo, f.movimientoRepo, f.auditoriaRepo, controlStock, t.TempDir())

	f.mesa = &model.Mesa{ID: uuid.New(), Numero: 3, Capacidad: 4, Estado: model.MesaDisponible}
	require.NoError(t, f.mesaRepo.Create(context.Background(), f.mesa))

	f.taco = &model.Producto{ID: uuid.New(), Nombre: "Taco de pastor", Precio: decimal.RequireFromString("18.00"), Categoria: "tacos", Disponible: true, Stock: 50, StockMinimo: 10}
	f.agua = &model.Producto{ID: uuid.New(), Nombre: "Agua de horchata", Precio: decimal.RequireFromString("25.00"), Categoria: "bebidas", Disponible: true, Stock: 20, StockMinimo: 5}
	require.NoError(t, f.productoRepo.Create(context.Background(), f.taco))
	require.NoError(t, f.productoRepo.Create(context.Background(), f.agua))

	return f
}

func (f *ordenFixture) crearOrden(t *testing.T) *dto.OrdenResponse {
	t.Helper()
	resp, err := f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID:     f.mesa.ID.String(),
		Comensales: 2,
		Items: []dto.ItemOrdenRequest{
			{ProductoID: f.taco.ID.String(), Cantidad: 3},
			{ProductoID: f.agua.ID.String(), Cantidad: 2},
		},
	})
	require.NoError(t, err)
	return resp
}

// ── Crear ─────────────────────────────────────────────────────────────────────

func TestCrearOrden_TotalYSnapshotDePrecios(t *testing.T) {
	f := newOrdenFixture(t, true)
	resp := f.crearOrden(t)

	// 3×18 + 2×25 = 104
	assert.Equal(t, "104", resp.Total.String())
	assert.Equal(t, "activa", resp.Estado)
	assert.Equal(t, 1, resp.Numero)
	require.Len(t, resp.Detalles, 2)
	assert.Equal(t, "18", resp.Detalles[0].PrecioUnitario.String())

	// A later price change must not touch the stored line
	f.taco.Precio = decimal.RequireFromString("99.00")
	orden, err := f.ordenRepo.FindByID(context.Background(), uuid.MustParse(resp.ID))
	require.NoError(t, err)
	assert.Equal(t, "18", orden.Detalles[0].PrecioUnitario.String())
}

func TestCrearOrden_DescuentaStockYRegistraMovimientos(t *testing.T) {
	f := newOrdenFixture(t, true)
	f.crearOrden(t)

	assert.Equal(t, 47, f.taco.Stock)
	assert.Equal(t, 18, f.agua.Stock)

	require.Len(t, f.movimientoRepo.movimientos, 2)
	mov := f.movimientoRepo.movimientos[0]
	assert.Equal(t, model.MovimientoSalida, mov.Tipo)
	assert.Equal(t, -3, mov.Cantidad)
	assert.Equal(t, 50, mov.StockAnterior)
	assert.Equal(t, 47, mov.StockNuevo)
	assert.NotNil(t, mov.OrdenID)
	assert.Equal(t, "Orden #1", mov.Motivo)
}

func TestCrearOrden_MesaPasaAOcupada(t *testing.T) {
	f := newOrdenFixture(t, true)
	resp := f.crearOrden(t)

	assert.Equal(t, model.MesaOcupada, f.mesa.Estado)
	require.NotNil(t, f.mesa.OrdenActualID)
	assert.Equal(t, resp.ID, f.mesa.OrdenActualID.String())
}

func TestCrearOrden_MesaConOrdenActivaRechazada(t *testing.T) {
	f := newOrdenFixture(t, true)
	f.crearOrden(t)

	_, err := f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID: f.mesa.ID.String(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: f.taco.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestCrearOrden_MesaInexistente(t *testing.T) {
	f := newOrdenFixture(t, true)
	_, err := f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID: uuid.NewString(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: f.taco.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindNotFound))
}

func TestCrearOrden_CantidadCeroTodoONada(t *testing.T) {
	f := newOrdenFixture(t, true)
	_, err := f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID: f.mesa.ID.String(),
		Items: []dto.ItemOrdenRequest{
			{ProductoID: f.taco.ID.String(), Cantidad: 2},
			{ProductoID: f.agua.ID.String(), Cantidad: 0},
		},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	// Nothing was written: no order, no stock change, no ledger rows
	assert.Empty(t, f.ordenRepo.ordenes)
	assert.Equal(t, 50, f.taco.Stock)
	assert.Empty(t, f.movimientoRepo.movimientos)
	assert.Nil(t, f.mesa.OrdenActualID)
}

func TestCrearOrden_StockInsuficiente(t *testing.T) {
	f := newOrdenFixture(t, true)
	_, err := f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID: f.mesa.ID.String(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: f.agua.ID.String(), Cantidad: 21}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindConstraint))
	assert.Equal(t, 20, f.agua.Stock)
}

func TestCrearOrden_ProductoNoDisponible(t *testing.T) {
	f := newOrdenFixture(t, true)
	f.taco.Disponible = false

	_, err := f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID: f.mesa.ID.String(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: f.taco.ID.String(), Cantidad: 1}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestCrearOrden_SinControlStock(t *testing.T) {
	f := newOrdenFixture(t, false)
	f.agua.Stock = 0

	resp, err := f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID: f.mesa.ID.String(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: f.agua.ID.String(), Cantidad: 5}},
	})
	require.NoError(t, err)
	assert.Equal(t, "125", resp.Total.String())
	// Stock untouched, no ledger rows
	assert.Equal(t, 0, f.agua.Stock)
	assert.Empty(t, f.movimientoRepo.movimientos)
}

func TestCrearOrden_RegistraAuditoria(t *testing.T) {
	f := newOrdenFixture(t, true)
	f.crearOrden(t)

	var tablas []string
	for _, a := range f.auditoriaRepo.registros {
		tablas = append(tablas, a.Tabla)
	}
	assert.Contains(t, tablas, "mesas")
	assert.Contains(t, tablas, "ordenes")
}

// ── Pagar ─────────────────────────────────────────────────────────────────────

func TestPagarOrden_MetodoUnico(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)

	metodo := "efectivo"
	resp, err := f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{Metodo: &metodo})
	require.NoError(t, err)

	assert.Equal(t, "pagada", resp.Estado)
	require.NotNil(t, resp.MetodoPago)
	assert.Equal(t, "efectivo", *resp.MetodoPago)
	assert.NotNil(t, resp.CerradaAt)
	assert.True(t, resp.Vuelto.IsZero())

	// Mesa released inside the same operation
	assert.Equal(t, model.MesaDisponible, f.mesa.Estado)
	assert.Nil(t, f.mesa.OrdenActualID)
	assert.Nil(t, f.mesa.MeseroID)
}

func TestPagarOrden_PagoDividido(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)

	resp, err := f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{
		Pagos: []dto.PagoDivididoRequest{
			{Comensal: 1, Monto: decimal.RequireFromString("60.00"), Metodo: "efectivo"},
			{Comensal: 2, Monto: decimal.RequireFromString("50.00"), Metodo: "tarjeta"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "pagada", resp.Estado)
	// 110 paid against 104 → 6 de vuelto
	assert.Equal(t, "6", resp.Vuelto.String())
	require.Len(t, f.ordenRepo.pagos, 2)
	assert.Equal(t, model.PagoTarjeta, f.ordenRepo.pagos[1].Metodo)
}

func TestPagarOrden_PagoDivididoInsuficiente(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)

	_, err := f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{
		Pagos: []dto.PagoDivididoRequest{
			{Comensal: 1, Monto: decimal.RequireFromString("100.00"), Metodo: "efectivo"},
		},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	// Order stays open and the mesa stays taken
	orden, _ := f.ordenRepo.FindByID(context.Background(), ordenID)
	assert.Equal(t, model.OrdenActiva, orden.Estado)
	assert.NotNil(t, f.mesa.OrdenActualID)
}

func TestPagarOrden_PagoDivididoMontoNoPositivo(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)

	// A negative slice offset by a large one still covers the total,
	// but must not be persisted as a pago
	_, err := f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{
		Pagos: []dto.PagoDivididoRequest{
			{Comensal: 1, Monto: decimal.RequireFromString("-50.00"), Metodo: "efectivo"},
			{Comensal: 2, Monto: decimal.RequireFromString("200.00"), Metodo: "tarjeta"},
		},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	orden, _ := f.ordenRepo.FindByID(context.Background(), ordenID)
	assert.Equal(t, model.OrdenActiva, orden.Estado)
	assert.Empty(t, f.ordenRepo.pagos)

	_, err = f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{
		Pagos: []dto.PagoDivididoRequest{
			{Comensal: 1, Monto: decimal.Zero, Metodo: "efectivo"},
			{Comensal: 2, Monto: decimal.RequireFromString("104.00"), Metodo: "efectivo"},
		},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestPagarOrden_MetodoYDesgloseALaVez(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	metodo := "efectivo"

	_, err := f.svc.Pagar(context.Background(), f.usuarioID, uuid.MustParse(created.ID), dto.PagarOrdenRequest{
		Metodo: &metodo,
		Pagos:  []dto.PagoDivididoRequest{{Comensal: 1, Monto: decimal.RequireFromString("104.00"), Metodo: "efectivo"}},
	})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))

	_, err = f.svc.Pagar(context.Background(), f.usuarioID, uuid.MustParse(created.ID), dto.PagarOrdenRequest{})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindValidation))
}

func TestPagarOrden_YaTerminalRechazada(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)
	metodo := "efectivo"

	_, err := f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{Metodo: &metodo})
	require.NoError(t, err)

	// Second payment attempt against the same order
	_, err = f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{Metodo: &metodo})
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

// ── Cancelar ──────────────────────────────────────────────────────────────────

func TestCancelarOrden_ReponeStock(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)

	require.Equal(t, 47, f.taco.Stock)

	err := f.svc.Cancelar(context.Background(), f.usuarioID, ordenID, "cliente se retiró")
	require.NoError(t, err)

	// Stock back where it started, with matching entrada rows
	assert.Equal(t, 50, f.taco.Stock)
	assert.Equal(t, 20, f.agua.Stock)

	var entradas int
	for _, m := range f.movimientoRepo.movimientos {
		if m.Tipo == model.MovimientoEntrada {
			entradas++
			assert.Positive(t, m.Cantidad)
			assert.Contains(t, m.Motivo, "cliente se retiró")
		}
	}
	assert.Equal(t, 2, entradas)

	orden, _ := f.ordenRepo.FindByID(context.Background(), ordenID)
	assert.Equal(t, model.OrdenCancelada, orden.Estado)
	assert.NotNil(t, orden.CerradaAt)
	assert.Contains(t, orden.Notas, "cliente se retiró")

	assert.Equal(t, model.MesaDisponible, f.mesa.Estado)
	assert.Nil(t, f.mesa.OrdenActualID)
}

func TestCancelarOrden_SinMotivo(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)

	// The motivo is optional: cancelling without one still works
	err := f.svc.Cancelar(context.Background(), f.usuarioID, ordenID, "")
	require.NoError(t, err)

	orden, _ := f.ordenRepo.FindByID(context.Background(), ordenID)
	assert.Equal(t, model.OrdenCancelada, orden.Estado)
	assert.Empty(t, orden.Notas)

	assert.Equal(t, 50, f.taco.Stock)
	for _, m := range f.movimientoRepo.movimientos {
		if m.Tipo == model.MovimientoEntrada {
			assert.NotContains(t, m.Motivo, ": ")
		}
	}
}

func TestCancelarOrden_PagadaRechazada(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)
	metodo := "tarjeta"

	_, err := f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{Metodo: &metodo})
	require.NoError(t, err)

	err = f.svc.Cancelar(context.Background(), f.usuarioID, ordenID, "demasiado tarde")
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
	// No phantom restock after a completed sale
	assert.Equal(t, 47, f.taco.Stock)
}

// ── Detalles (cocina) ─────────────────────────────────────────────────────────

func TestActualizarEstadoDetalle_AvanceValido(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)
	detalleID := uuid.MustParse(created.Detalles[0].ID)

	require.NoError(t, f.svc.ActualizarEstadoDetalle(context.Background(), ordenID, detalleID, model.DetalleEnPreparacion))
	require.NoError(t, f.svc.ActualizarEstadoDetalle(context.Background(), ordenID, detalleID, model.DetalleListo))
	require.NoError(t, f.svc.ActualizarEstadoDetalle(context.Background(), ordenID, detalleID, model.DetalleEntregado))
}

func TestActualizarEstadoDetalle_RetrocesoRechazado(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)
	detalleID := uuid.MustParse(created.Detalles[0].ID)

	require.NoError(t, f.svc.ActualizarEstadoDetalle(context.Background(), ordenID, detalleID, model.DetalleListo))

	err := f.svc.ActualizarEstadoDetalle(context.Background(), ordenID, detalleID, model.DetallePendiente)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

func TestActualizarEstadoDetalle_OrdenNoActiva(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)
	detalleID := uuid.MustParse(created.Detalles[0].ID)

	require.NoError(t, f.svc.Cancelar(context.Background(), f.usuarioID, ordenID, "cerramos temprano"))

	err := f.svc.ActualizarEstadoDetalle(context.Background(), ordenID, detalleID, model.DetalleEnPreparacion)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))
}

// ── Ticket ────────────────────────────────────────────────────────────────────

func TestTicket_SoloOrdenesPagadas(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	ordenID := uuid.MustParse(created.ID)

	_, err := f.svc.Ticket(context.Background(), ordenID)
	require.Error(t, err)
	assert.True(t, apierror.IsKind(err, apierror.KindInvalidState))

	metodo := "efectivo"
	_, err = f.svc.Pagar(context.Background(), f.usuarioID, ordenID, dto.PagarOrdenRequest{Metodo: &metodo})
	require.NoError(t, err)

	path, err := f.svc.Ticket(context.Background(), ordenID)
	require.NoError(t, err)
	assert.FileExists(t, path)
}

// ── Listar ────────────────────────────────────────────────────────────────────

func TestListarOrdenes_ParticionaActivasEHistorial(t *testing.T) {
	f := newOrdenFixture(t, true)
	created := f.crearOrden(t)
	metodo := "efectivo"
	_, err := f.svc.Pagar(context.Background(), f.usuarioID, uuid.MustParse(created.ID), dto.PagarOrdenRequest{Metodo: &metodo})
	require.NoError(t, err)

	// Open a second order on a fresh mesa
	mesa2 := &model.Mesa{ID: uuid.New(), Numero: 4, Capacidad: 2, Estado: model.MesaDisponible}
	require.NoError(t, f.mesaRepo.Create(context.Background(), mesa2))
	_, err = f.svc.Crear(context.Background(), f.usuarioID, dto.CrearOrdenRequest{
		MesaID: mesa2.ID.String(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: f.taco.ID.String(), Cantidad: 1}},
	})
	require.NoError(t, err)

	resp, err := f.svc.Listar(context.Background(), dto.OrdenFilter{})
	require.NoError(t, err)
	assert.Len(t, resp.Activas, 1)
	assert.Len(t, resp.Historial, 1)
}
