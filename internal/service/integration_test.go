package service

// integration_test.go
// End-to-end service tests over a real in-memory SQLite database: the GORM
// repositories, the transaction wrapper and the raw aggregation queries all
// run for real here, unlike the stub-based unit tests.

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"taqueriapos/internal/dto"
	"taqueriapos/internal/infra"
	"taqueriapos/internal/model"
	"taqueriapos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type integrationEnv struct {
	db  *gorm.DB
	svc OrdenService

	ordenRepo     repository.OrdenRepository
	mesaRepo      repository.MesaRepository
	productoRepo  repository.ProductoRepository
	dashboardRepo repository.DashboardRepository

	mesa      *model.Mesa
	taco      *model.Producto
	usuarioID uuid.UUID
}

func newIntegrationEnv(t *testing.T) *integrationEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))

	return newIntegrationEnvWithDB(t, db)
}

func newIntegrationEnvWithDB(t *testing.T, db *gorm.DB) *integrationEnv {
	t.Helper()

	e := &integrationEnv{
		db:            db,
		ordenRepo:     repository.NewOrdenRepository(db),
		mesaRepo:      repository.NewMesaRepository(db),
		productoRepo:  repository.NewProductoRepository(db),
		dashboardRepo: repository.NewDashboardRepository(db),
	}
	movimientoRepo := repository.NewMovimientoInventarioRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)
	e.svc = NewOrdenService(e.ordenRepo, e.mesaRepo, e.productoRepo, movimientoRepo, auditoriaRepo, true, t.TempDir())

	usuario := &model.Usuario{Username: "cajero1", Nombre: "Ana Caja", PasswordHash: "x", Rol: model.RolCajero, Activo: true}
	require.NoError(t, db.Create(usuario).Error)
	e.usuarioID = usuario.ID

	e.mesa = &model.Mesa{Numero: 1, Capacidad: 4, Estado: model.MesaDisponible}
	require.NoError(t, e.mesaRepo.Create(context.Background(), e.mesa))

	e.taco = &model.Producto{Nombre: "Taco de pastor", Precio: decimal.RequireFromString("18.00"), Categoria: "tacos", Disponible: true, Stock: 50, StockMinimo: 10}
	require.NoError(t, e.productoRepo.Create(context.Background(), e.taco))

	return e
}

func (e *integrationEnv) crearOrden(t *testing.T, cantidad int) *dto.OrdenResponse {
	t.Helper()
	resp, err := e.svc.Crear(context.Background(), e.usuarioID, dto.CrearOrdenRequest{
		MesaID: e.mesa.ID.String(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: e.taco.ID.String(), Cantidad: cantidad}},
	})
	require.NoError(t, err)
	return resp
}

func TestIntegracion_CicloCompletoDeOrden(t *testing.T) {
	e := newIntegrationEnv(t)
	ctx := context.Background()

	created := e.crearOrden(t, 4)
	ordenID := uuid.MustParse(created.ID)

	// Stock persisted, not just mutated in memory
	p, err := e.productoRepo.FindByID(ctx, e.taco.ID)
	require.NoError(t, err)
	assert.Equal(t, 46, p.Stock)

	// Mesa row reflects the open order
	mesa, err := e.mesaRepo.FindByID(ctx, e.mesa.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MesaOcupada, mesa.Estado)
	require.NotNil(t, mesa.OrdenActualID)

	// Split payment across two diners
	_, err = e.svc.Pagar(ctx, e.usuarioID, ordenID, dto.PagarOrdenRequest{
		Pagos: []dto.PagoDivididoRequest{
			{Comensal: 1, Monto: decimal.RequireFromString("40.00"), Metodo: "efectivo"},
			{Comensal: 2, Monto: decimal.RequireFromString("32.00"), Metodo: "tarjeta"},
		},
	})
	require.NoError(t, err)

	orden, err := e.ordenRepo.FindByID(ctx, ordenID)
	require.NoError(t, err)
	assert.Equal(t, model.OrdenPagada, orden.Estado)
	require.NotNil(t, orden.CerradaAt)
	assert.Len(t, orden.Pagos, 2)

	mesa, err = e.mesaRepo.FindByID(ctx, e.mesa.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MesaDisponible, mesa.Estado)
	assert.Nil(t, mesa.OrdenActualID)
}

func TestIntegracion_NumeracionSecuencial(t *testing.T) {
	e := newIntegrationEnv(t)
	ctx := context.Background()
	metodo := "efectivo"

	for esperado := 1; esperado <= 3; esperado++ {
		resp := e.crearOrden(t, 1)
		assert.Equal(t, esperado, resp.Numero)
		_, err := e.svc.Pagar(ctx, e.usuarioID, uuid.MustParse(resp.ID), dto.PagarOrdenRequest{Metodo: &metodo})
		require.NoError(t, err)
	}
}

func TestIntegracion_CancelarReponeStockEnDB(t *testing.T) {
	e := newIntegrationEnv(t)
	ctx := context.Background()

	created := e.crearOrden(t, 5)
	require.NoError(t, e.svc.Cancelar(ctx, e.usuarioID, uuid.MustParse(created.ID), "pedido equivocado"))

	p, err := e.productoRepo.FindByID(ctx, e.taco.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, p.Stock)

	// The ledger holds both sides of the story
	var movimientos []model.MovimientoInventario
	require.NoError(t, e.db.Order("created_at").Find(&movimientos).Error)
	require.Len(t, movimientos, 2)
	assert.Equal(t, model.MovimientoSalida, movimientos[0].Tipo)
	assert.Equal(t, -5, movimientos[0].Cantidad)
	assert.Equal(t, model.MovimientoEntrada, movimientos[1].Tipo)
	assert.Equal(t, 5, movimientos[1].Cantidad)
}

func TestIntegracion_StockInsuficienteNoDejaFilas(t *testing.T) {
	e := newIntegrationEnv(t)
	ctx := context.Background()

	_, err := e.svc.Crear(ctx, e.usuarioID, dto.CrearOrdenRequest{
		MesaID: e.mesa.ID.String(),
		Items:  []dto.ItemOrdenRequest{{ProductoID: e.taco.ID.String(), Cantidad: 51}},
	})
	require.Error(t, err)

	var ordenes int64
	e.db.Model(&model.Orden{}).Count(&ordenes)
	assert.Zero(t, ordenes)

	var movimientos int64
	e.db.Model(&model.MovimientoInventario{}).Count(&movimientos)
	assert.Zero(t, movimientos)

	p, _ := e.productoRepo.FindByID(ctx, e.taco.ID)
	assert.Equal(t, 50, p.Stock)
}

func TestIntegracion_AuditoriaPersistida(t *testing.T) {
	e := newIntegrationEnv(t)

	e.crearOrden(t, 2)

	var registros []model.Auditoria
	require.NoError(t, e.db.Find(&registros).Error)
	require.NotEmpty(t, registros)

	tablas := make(map[string]bool)
	for _, a := range registros {
		tablas[a.Tabla] = true
	}
	assert.True(t, tablas["ordenes"])
	assert.True(t, tablas["mesas"])
}

func TestIntegracion_VentasDelDia(t *testing.T) {
	e := newIntegrationEnv(t)
	ctx := context.Background()
	metodo := "efectivo"

	resp := e.crearOrden(t, 2)
	_, err := e.svc.Pagar(ctx, e.usuarioID, uuid.MustParse(resp.ID), dto.PagarOrdenRequest{Metodo: &metodo})
	require.NoError(t, err)

	// A cancelled order must not count as a sale
	resp2 := e.crearOrden(t, 1)
	require.NoError(t, e.svc.Cancelar(ctx, e.usuarioID, uuid.MustParse(resp2.ID), "mesa desocupada"))

	total, pagadas, err := e.dashboardRepo.VentasDelDia(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pagadas)
	assert.Equal(t, "36", total.String())

	canceladas, err := e.dashboardRepo.CanceladasDelDia(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), canceladas)

	porMetodo, err := e.dashboardRepo.VentasPorMetodo(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "36", porMetodo["efectivo"].String())
}

// Over infra.NewDatabase the pool is capped at one connection, so any
// repository call that bypasses the open transaction blocks on the pool
// forever. Every in-transaction mutation must finish under that cap.
func TestIntegracion_ConfiguracionDeProduccion(t *testing.T) {
	db, err := infra.NewDatabase(filepath.Join(t.TempDir(), "pos.db"))
	require.NoError(t, err)
	e := newIntegrationEnvWithDB(t, db)
	ctx := context.Background()

	pagar := func(id uuid.UUID) error {
		metodo := "efectivo"
		done := make(chan error, 1)
		go func() {
			_, err := e.svc.Pagar(ctx, e.usuarioID, id, dto.PagarOrdenRequest{Metodo: &metodo})
			done <- err
		}()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			t.Fatal("Pagar no termino con el pool de una conexion")
			return nil
		}
	}

	resp := e.crearOrden(t, 2)
	require.NoError(t, pagar(uuid.MustParse(resp.ID)))

	mesa, err := e.mesaRepo.FindByID(ctx, e.mesa.ID)
	require.NoError(t, err)
	assert.Equal(t, model.MesaDisponible, mesa.Estado)

	resp2 := e.crearOrden(t, 1)
	require.NoError(t, e.svc.Cancelar(ctx, e.usuarioID, uuid.MustParse(resp2.ID), "cliente se fue"))

	productoSvc := NewProductoService(e.productoRepo, repository.NewMovimientoInventarioRepository(e.db), repository.NewAuditoriaRepository(e.db))
	require.NoError(t, productoSvc.CambiarDisponibilidad(ctx, e.usuarioID, e.taco.ID, false))

	p, err := e.productoRepo.FindByID(ctx, e.taco.ID)
	require.NoError(t, err)
	assert.False(t, p.Disponible)
}

func TestIntegracion_FiltroDeOrdenesPorEstado(t *testing.T) {
	e := newIntegrationEnv(t)
	ctx := context.Background()
	metodo := "tarjeta"

	resp := e.crearOrden(t, 1)
	_, err := e.svc.Pagar(ctx, e.usuarioID, uuid.MustParse(resp.ID), dto.PagarOrdenRequest{Metodo: &metodo})
	require.NoError(t, err)
	e.crearOrden(t, 1)

	listado, err := e.svc.Listar(ctx, dto.OrdenFilter{Estado: "pagada"})
	require.NoError(t, err)
	assert.Empty(t, listado.Activas)
	assert.Len(t, listado.Historial, 1)
}
