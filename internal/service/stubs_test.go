package service

// stubs_test.go
// In-memory repository stubs shared by the service unit tests. DB() returns
// nil so runTx executes the transaction body directly, without GORM.

import (
	"context"
	"errors"
	"time"

	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"
	"taqueriapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ── MesaRepository stub ───────────────────────────────────────────────────────

type stubMesaRepo struct {
	mesas map[uuid.UUID]*model.Mesa
}

func newStubMesaRepo() *stubMesaRepo {
	return &stubMesaRepo{mesas: make(map[uuid.UUID]*model.Mesa)}
}

func (r *stubMesaRepo) Create(_ context.Context, m *model.Mesa) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	r.mesas[m.ID] = m
	return nil
}

func (r *stubMesaRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Mesa, error) {
	m, ok := r.mesas[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return m, nil
}

func (r *stubMesaRepo) FindByNumero(_ context.Context, numero int) (*model.Mesa, error) {
	for _, m := range r.mesas {
		if m.Numero == numero {
			return m, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubMesaRepo) List(_ context.Context) ([]model.Mesa, error) {
	var out []model.Mesa
	for _, m := range r.mesas {
		out = append(out, *m)
	}
	return out, nil
}

func (r *stubMesaRepo) Update(_ context.Context, m *model.Mesa) error {
	r.mesas[m.ID] = m
	return nil
}

func (r *stubMesaRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Mesa, error) {
	return r.FindByID(context.Background(), id)
}

func (r *stubMesaRepo) UpdateTx(_ *gorm.DB, m *model.Mesa) error {
	r.mesas[m.ID] = m
	return nil
}

func (r *stubMesaRepo) DB() *gorm.DB { return nil }

var _ repository.MesaRepository = (*stubMesaRepo)(nil)

// ── ProductoRepository stub ───────────────────────────────────────────────────

type stubProductoRepo struct {
	productos map[uuid.UUID]*model.Producto
}

func newStubProductoRepo() *stubProductoRepo {
	return &stubProductoRepo{productos: make(map[uuid.UUID]*model.Producto)}
}

func (r *stubProductoRepo) Create(_ context.Context, p *model.Producto) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProductoRepo) FindByCodigo(_ context.Context, codigo string) (*model.Producto, error) {
	for _, p := range r.productos {
		if p.Codigo != nil && *p.Codigo == codigo {
			return p, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubProductoRepo) List(_ context.Context, _ dto.ProductoFilter) ([]model.Producto, int64, error) {
	var out []model.Producto
	for _, p := range r.productos {
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *stubProductoRepo) ListDisponibles(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Disponible {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) Update(_ context.Context, p *model.Producto) error {
	r.productos[p.ID] = p
	return nil
}

func (r *stubProductoRepo) SetDisponibilidad(_ context.Context, id uuid.UUID, disponible bool) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Disponible = disponible
	return nil
}

func (r *stubProductoRepo) StockBajo(_ context.Context) ([]model.Producto, error) {
	var out []model.Producto
	for _, p := range r.productos {
		if p.Stock <= p.StockMinimo {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *stubProductoRepo) FindByIDTx(_ *gorm.DB, id uuid.UUID) (*model.Producto, error) {
	p, ok := r.productos[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return p, nil
}

func (r *stubProductoRepo) UpdateStockTx(_ *gorm.DB, id uuid.UUID, delta int) error {
	p, ok := r.productos[id]
	if !ok {
		return errors.New("record not found")
	}
	p.Stock += delta
	return nil
}

func (r *stubProductoRepo) SetDisponibilidadTx(_ *gorm.DB, id uuid.UUID, disponible bool) error {
	return r.SetDisponibilidad(context.Background(), id, disponible)
}

func (r *stubProductoRepo) DB() *gorm.DB { return nil }

var _ repository.ProductoRepository = (*stubProductoRepo)(nil)

// ── OrdenRepository stub ──────────────────────────────────────────────────────

type stubOrdenRepo struct {
	ordenes map[uuid.UUID]*model.Orden
	pagos   []model.OrdenPago
	numero  int
}

func newStubOrdenRepo() *stubOrdenRepo {
	return &stubOrdenRepo{ordenes: make(map[uuid.UUID]*model.Orden)}
}

func (r *stubOrdenRepo) Create(_ context.Context, _ *gorm.DB, o *model.Orden) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	for i := range o.Detalles {
		if o.Detalles[i].ID == uuid.Nil {
			o.Detalles[i].ID = uuid.New()
		}
		o.Detalles[i].OrdenID = o.ID
	}
	o.CreatedAt = time.Now()
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Orden, error) {
	o, ok := r.ordenes[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return o, nil
}

func (r *stubOrdenRepo) List(_ context.Context, _ dto.OrdenFilter) ([]model.Orden, error) {
	var out []model.Orden
	for _, o := range r.ordenes {
		out = append(out, *o)
	}
	return out, nil
}

func (r *stubOrdenRepo) NextNumero(_ context.Context, _ *gorm.DB) (int, error) {
	r.numero++
	return r.numero, nil
}

func (r *stubOrdenRepo) UpdateTx(_ *gorm.DB, o *model.Orden) error {
	r.ordenes[o.ID] = o
	return nil
}

func (r *stubOrdenRepo) UpdateDetalleTx(_ *gorm.DB, d *model.OrdenDetalle) error {
	o, ok := r.ordenes[d.OrdenID]
	if !ok {
		return errors.New("record not found")
	}
	for i := range o.Detalles {
		if o.Detalles[i].ID == d.ID {
			o.Detalles[i] = *d
			return nil
		}
	}
	return errors.New("record not found")
}

func (r *stubOrdenRepo) CreatePagoTx(_ *gorm.DB, p *model.OrdenPago) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	r.pagos = append(r.pagos, *p)
	return nil
}

func (r *stubOrdenRepo) DB() *gorm.DB { return nil }

var _ repository.OrdenRepository = (*stubOrdenRepo)(nil)

// ── MovimientoInventarioRepository stub ───────────────────────────────────────

type stubMovimientoRepo struct {
	movimientos []model.MovimientoInventario
}

func newStubMovimientoRepo() *stubMovimientoRepo { return &stubMovimientoRepo{} }

func (r *stubMovimientoRepo) Create(_ context.Context, m *model.MovimientoInventario) error {
	return r.CreateTx(nil, m)
}

func (r *stubMovimientoRepo) CreateTx(_ *gorm.DB, m *model.MovimientoInventario) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()
	r.movimientos = append(r.movimientos, *m)
	return nil
}

func (r *stubMovimientoRepo) List(_ context.Context, filter repository.MovimientoFilter) ([]model.MovimientoInventario, int64, error) {
	var out []model.MovimientoInventario
	for _, m := range r.movimientos {
		if filter.ProductoID != nil && m.ProductoID != *filter.ProductoID {
			continue
		}
		if filter.Tipo != "" && string(m.Tipo) != filter.Tipo {
			continue
		}
		out = append(out, m)
	}
	return out, int64(len(out)), nil
}

var _ repository.MovimientoInventarioRepository = (*stubMovimientoRepo)(nil)

// ── AuditoriaRepository stub ──────────────────────────────────────────────────

type stubAuditoriaRepo struct {
	registros []model.Auditoria
}

func newStubAuditoriaRepo() *stubAuditoriaRepo { return &stubAuditoriaRepo{} }

func (r *stubAuditoriaRepo) CreateTx(_ *gorm.DB, a *model.Auditoria) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	r.registros = append(r.registros, *a)
	return nil
}

func (r *stubAuditoriaRepo) List(_ context.Context, filter repository.AuditoriaFilter) ([]model.Auditoria, int64, error) {
	var out []model.Auditoria
	for _, a := range r.registros {
		if filter.Tabla != "" && a.Tabla != filter.Tabla {
			continue
		}
		out = append(out, a)
	}
	return out, int64(len(out)), nil
}

var _ repository.AuditoriaRepository = (*stubAuditoriaRepo)(nil)

// ── UsuarioRepository stub ────────────────────────────────────────────────────

type stubUsuarioRepo struct {
	usuarios map[uuid.UUID]*model.Usuario
	// touchErr forces TouchUltimoAcceso to fail when set
	touchErr error
}

func newStubUsuarioRepo() *stubUsuarioRepo {
	return &stubUsuarioRepo{usuarios: make(map[uuid.UUID]*model.Usuario)}
}

func (r *stubUsuarioRepo) Create(_ context.Context, u *model.Usuario) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Usuario, error) {
	u, ok := r.usuarios[id]
	if !ok {
		return nil, errors.New("record not found")
	}
	return u, nil
}

func (r *stubUsuarioRepo) FindByUsername(_ context.Context, username string) (*model.Usuario, error) {
	for _, u := range r.usuarios {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errors.New("record not found")
}

func (r *stubUsuarioRepo) List(_ context.Context, incluirInactivos bool) ([]model.Usuario, error) {
	var out []model.Usuario
	for _, u := range r.usuarios {
		if !incluirInactivos && !u.Activo {
			continue
		}
		out = append(out, *u)
	}
	return out, nil
}

func (r *stubUsuarioRepo) Update(_ context.Context, u *model.Usuario) error {
	r.usuarios[u.ID] = u
	return nil
}

func (r *stubUsuarioRepo) SetActivo(_ context.Context, id uuid.UUID, activo bool) error {
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("record not found")
	}
	u.Activo = activo
	return nil
}

func (r *stubUsuarioRepo) TouchUltimoAcceso(_ context.Context, id uuid.UUID, t time.Time) error {
	if r.touchErr != nil {
		return r.touchErr
	}
	u, ok := r.usuarios[id]
	if !ok {
		return errors.New("record not found")
	}
	u.UltimoAcceso = &t
	return nil
}

var _ repository.UsuarioRepository = (*stubUsuarioRepo)(nil)
