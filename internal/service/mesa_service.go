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

type MesaService interface {
	Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearMesaRequest) (*dto.MesaResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.MesaResponse, error)
	Listar(ctx context.Context) ([]dto.MesaResponse, error)
	Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error)
	// AsignarMesero sets the table's server without touching its estado.
	AsignarMesero(ctx context.Context, usuarioID, mesaID, meseroID uuid.UUID) (*dto.MesaResponse, error)
	// CambiarEstado transitions the table; disponible always clears the mesero.
	CambiarEstado(ctx context.Context, usuarioID, mesaID uuid.UUID, estado model.EstadoMesa) (*dto.MesaResponse, error)
}

type mesaService struct {
	repo          repository.MesaRepository
	usuarioRepo   repository.UsuarioRepository
	auditoriaRepo repository.AuditoriaRepository
}

func NewMesaService(
	repo repository.MesaRepository,
	usuarioRepo repository.UsuarioRepository,
	auditoriaRepo repository.AuditoriaRepository,
) MesaService {
	return &mesaService{repo: repo, usuarioRepo: usuarioRepo, auditoriaRepo: auditoriaRepo}
}

func (s *mesaService) Crear(ctx context.Context, usuarioID uuid.UUID, req dto.CrearMesaRequest) (*dto.MesaResponse, error) {
	if _, err := s.repo.FindByNumero(ctx, req.Numero); err == nil {
		return nil, apierror.Constraint(fmt.Sprintf("Ya existe la mesa %d", req.Numero))
	}

	mesa := &model.Mesa{
		Numero:    req.Numero,
		Capacidad: req.Capacidad,
		Estado:    model.MesaDisponible,
		Ubicacion: req.Ubicacion,
	}
	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if tx == nil {
			if err := s.repo.Create(ctx, mesa); err != nil {
				return err
			}
		} else if err := tx.Create(mesa).Error; err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "mesas", "crear", mesa.ID, usuarioID, nil, snapshotMesa(mesa))
	})
	if txErr != nil {
		return nil, txErr
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) Obtener(ctx context.Context, id uuid.UUID) (*dto.MesaResponse, error) {
	mesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Mesa no encontrada")
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) Listar(ctx context.Context) ([]dto.MesaResponse, error) {
	mesas, err := s.repo.List(ctx)
	if err != nil {
		return nil, apierror.Transaction(err)
	}
	resp := make([]dto.MesaResponse, 0, len(mesas))
	for i := range mesas {
		resp = append(resp, *mesaToResponse(&mesas[i]))
	}
	return resp, nil
}

func (s *mesaService) Actualizar(ctx context.Context, usuarioID, id uuid.UUID, req dto.ActualizarMesaRequest) (*dto.MesaResponse, error) {
	mesa, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, apierror.NotFound("Mesa no encontrada")
	}

	antes := snapshotMesa(mesa)
	if req.Capacidad != nil {
		mesa.Capacidad = *req.Capacidad
	}
	if req.Ubicacion != nil {
		mesa.Ubicacion = req.Ubicacion
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, mesa); err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "mesas", "actualizar", mesa.ID, usuarioID, antes, snapshotMesa(mesa))
	})
	if txErr != nil {
		return nil, txErr
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) AsignarMesero(ctx context.Context, usuarioID, mesaID, meseroID uuid.UUID) (*dto.MesaResponse, error) {
	mesa, err := s.repo.FindByID(ctx, mesaID)
	if err != nil {
		return nil, apierror.NotFound("Mesa no encontrada")
	}
	mesero, err := s.usuarioRepo.FindByID(ctx, meseroID)
	if err != nil {
		return nil, apierror.NotFound("Usuario no encontrado")
	}
	if !mesero.Activo {
		return nil, apierror.Validation("mesero_id", "El usuario está inactivo")
	}
	if mesero.Rol != model.RolMesero {
		return nil, apierror.Validation("mesero_id", fmt.Sprintf("%s no tiene rol de mesero", mesero.Nombre))
	}

	antes := snapshotMesa(mesa)
	mesa.MeseroID = &meseroID
	mesa.Mesero = mesero

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, mesa); err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "mesas", "asignar_mesero", mesa.ID, usuarioID, antes, snapshotMesa(mesa))
	})
	if txErr != nil {
		return nil, txErr
	}
	return mesaToResponse(mesa), nil
}

func (s *mesaService) CambiarEstado(ctx context.Context, usuarioID, mesaID uuid.UUID, estado model.EstadoMesa) (*dto.MesaResponse, error) {
	if !estado.Valida() {
		return nil, apierror.Validation("estado", "Estado de mesa desconocido")
	}
	mesa, err := s.repo.FindByID(ctx, mesaID)
	if err != nil {
		return nil, apierror.NotFound("Mesa no encontrada")
	}

	antes := snapshotMesa(mesa)
	mesa.Estado = estado
	// Una mesa disponible no tiene dueño
	if estado == model.MesaDisponible {
		mesa.MeseroID = nil
		mesa.Mesero = nil
	}

	txErr := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateTx(tx, mesa); err != nil {
			return err
		}
		return registrarAuditoriaTx(tx, s.auditoriaRepo, "mesas", "cambiar_estado", mesa.ID, usuarioID, antes, snapshotMesa(mesa))
	})
	if txErr != nil {
		return nil, txErr
	}
	return mesaToResponse(mesa), nil
}

func mesaToResponse(m *model.Mesa) *dto.MesaResponse {
	resp := &dto.MesaResponse{
		ID:        m.ID.String(),
		Numero:    m.Numero,
		Capacidad: m.Capacidad,
		Estado:    string(m.Estado),
		Ubicacion: m.Ubicacion,
	}
	if m.MeseroID != nil {
		id := m.MeseroID.String()
		resp.MeseroID = &id
	}
	if m.Mesero != nil {
		resp.MeseroNombre = &m.Mesero.Nombre
	}
	if m.OrdenActualID != nil {
		id := m.OrdenActualID.String()
		resp.OrdenActualID = &id
	}
	return resp
}
