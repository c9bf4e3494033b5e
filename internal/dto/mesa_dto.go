package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearMesaRequest struct {
	Numero    int     `json:"numero"    validate:"required,min=1"`
	Capacidad int     `json:"capacidad" validate:"required,min=1,max=30"`
	Ubicacion *string `json:"ubicacion"`
}

type ActualizarMesaRequest struct {
	Capacidad *int    `json:"capacidad" validate:"omitempty,min=1,max=30"`
	Ubicacion *string `json:"ubicacion"`
}

type AsignarMeseroRequest struct {
	MeseroID string `json:"mesero_id" validate:"required,uuid"`
}

type CambiarEstadoMesaRequest struct {
	Estado string `json:"estado" validate:"required,oneof=disponible ocupada en_servicio mantenimiento"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MesaResponse struct {
	ID            string  `json:"id"`
	Numero        int     `json:"numero"`
	Capacidad     int     `json:"capacidad"`
	Estado        string  `json:"estado"`
	Ubicacion     *string `json:"ubicacion"`
	MeseroID      *string `json:"mesero_id"`
	MeseroNombre  *string `json:"mesero_nombre"`
	OrdenActualID *string `json:"orden_actual_id"`
}
