package model

// Closed enumerations. Every state/role/method that crosses the API boundary
// is one of these typed variants; handlers and services check membership with
// Valida() instead of comparing free-form strings at each call site.

// RolUsuario — system role of a Usuario.
type RolUsuario string

const (
	RolAdmin    RolUsuario = "admin"
	RolMesero   RolUsuario = "mesero"
	RolCocinero RolUsuario = "cocinero"
	RolCajero   RolUsuario = "cajero"
)

func (r RolUsuario) Valida() bool {
	switch r {
	case RolAdmin, RolMesero, RolCocinero, RolCajero:
		return true
	}
	return false
}

// EstadoMesa — lifecycle of a physical table.
type EstadoMesa string

const (
	MesaDisponible    EstadoMesa = "disponible"
	MesaOcupada       EstadoMesa = "ocupada"
	MesaEnServicio    EstadoMesa = "en_servicio"
	MesaMantenimiento EstadoMesa = "mantenimiento"
)

func (e EstadoMesa) Valida() bool {
	switch e {
	case MesaDisponible, MesaOcupada, MesaEnServicio, MesaMantenimiento:
		return true
	}
	return false
}

// EstadoOrden — order state machine: activa → {pagada, cancelada}.
type EstadoOrden string

const (
	OrdenActiva    EstadoOrden = "activa"
	OrdenPagada    EstadoOrden = "pagada"
	OrdenCancelada EstadoOrden = "cancelada"
)

// Terminal reports whether no further transition is permitted.
func (e EstadoOrden) Terminal() bool {
	return e == OrdenPagada || e == OrdenCancelada
}

// EstadoDetalle — kitchen flow of a line item, forward-only.
type EstadoDetalle string

const (
	DetallePendiente     EstadoDetalle = "pendiente"
	DetalleEnPreparacion EstadoDetalle = "en_preparacion"
	DetalleListo         EstadoDetalle = "listo"
	DetalleEntregado     EstadoDetalle = "entregado"
)

// orden returns the position of the state in the kitchen flow.
func (e EstadoDetalle) orden() int {
	switch e {
	case DetallePendiente:
		return 0
	case DetalleEnPreparacion:
		return 1
	case DetalleListo:
		return 2
	case DetalleEntregado:
		return 3
	}
	return -1
}

func (e EstadoDetalle) Valida() bool { return e.orden() >= 0 }

// PuedeAvanzarA reports whether the transition e → destino moves forward.
func (e EstadoDetalle) PuedeAvanzarA(destino EstadoDetalle) bool {
	return destino.Valida() && destino.orden() > e.orden()
}

// MetodoPago — accepted payment methods.
type MetodoPago string

const (
	PagoEfectivo      MetodoPago = "efectivo"
	PagoTarjeta       MetodoPago = "tarjeta"
	PagoTransferencia MetodoPago = "transferencia"
)

func (m MetodoPago) Valida() bool {
	switch m {
	case PagoEfectivo, PagoTarjeta, PagoTransferencia:
		return true
	}
	return false
}

// TipoMovimiento — classification of an inventory ledger entry.
type TipoMovimiento string

const (
	MovimientoEntrada TipoMovimiento = "entrada"
	MovimientoSalida  TipoMovimiento = "salida"
	MovimientoAjuste  TipoMovimiento = "ajuste"
)
