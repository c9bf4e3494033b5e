package service

import (
	"encoding/json"
	"fmt"

	"taqueriapos/internal/model"
	"taqueriapos/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// registrarAuditoriaTx writes one audit row inside the caller's transaction.
// antes is nil on creation; snapshots are serialized key/value maps of the
// fields the mutation touched.
func registrarAuditoriaTx(tx *gorm.DB, repo repository.AuditoriaRepository, tabla, accion string,
	registroID, usuarioID uuid.UUID, antes, despues map[string]interface{}) error {

	serializa := func(snap map[string]interface{}) string {
		if snap == nil {
			return ""
		}
		b, err := json.Marshal(snap)
		if err != nil {
			return fmt.Sprintf("%v", snap)
		}
		return string(b)
	}

	return repo.CreateTx(tx, &model.Auditoria{
		Tabla:      tabla,
		Accion:     accion,
		RegistroID: registroID,
		UsuarioID:  usuarioID,
		Antes:      serializa(antes),
		Despues:    serializa(despues),
	})
}

func snapshotMesa(m *model.Mesa) map[string]interface{} {
	snap := map[string]interface{}{
		"numero": m.Numero,
		"estado": string(m.Estado),
	}
	if m.MeseroID != nil {
		snap["mesero_id"] = m.MeseroID.String()
	} else {
		snap["mesero_id"] = nil
	}
	if m.OrdenActualID != nil {
		snap["orden_actual_id"] = m.OrdenActualID.String()
	} else {
		snap["orden_actual_id"] = nil
	}
	return snap
}

func snapshotOrden(o *model.Orden) map[string]interface{} {
	snap := map[string]interface{}{
		"numero": o.Numero,
		"estado": string(o.Estado),
		"total":  o.Total.StringFixed(2),
	}
	if o.MetodoPago != nil {
		snap["metodo_pago"] = string(*o.MetodoPago)
	}
	return snap
}

func snapshotProducto(p *model.Producto) map[string]interface{} {
	return map[string]interface{}{
		"nombre":     p.Nombre,
		"precio":     p.Precio.StringFixed(2),
		"categoria":  p.Categoria,
		"disponible": p.Disponible,
		"stock":      p.Stock,
	}
}
