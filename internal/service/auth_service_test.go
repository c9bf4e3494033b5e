package service

import (
	"context"
	"errors"
	"testing"

	"taqueriapos/internal/config"
	"taqueriapos/internal/dto"
	"taqueriapos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newAuthFixture(t *testing.T) (AuthService, *stubUsuarioRepo) {
	t.Helper()
	repo := newStubUsuarioRepo()
	cfg := &config.Config{
		JWTSecret:          "secreto-de-prueba",
		JWTExpirationHours: 8,
		JWTRefreshHours:    168,
	}
	return NewAuthService(repo, cfg), repo
}

func seedUsuario(t *testing.T, repo *stubUsuarioRepo, username, password string, rol model.RolUsuario, activo bool) *model.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.Usuario{
		ID:           uuid.New(),
		Username:     username,
		Nombre:       "Usuario de Prueba",
		PasswordHash: string(hash),
		Rol:          rol,
		Activo:       activo,
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin_CredencialesValidas(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedUsuario(t, repo, "cajero1", "1234", model.RolCajero, true)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "1234"})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 8*3600, resp.ExpiresIn)
	assert.Equal(t, "cajero", resp.User.Rol)

	// Last access stamped on success
	assert.NotNil(t, u.UltimoAcceso)
}

func TestLogin_FalloAlEstamparUltimoAcceso(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUsuario(t, repo, "cajero1", "1234", model.RolCajero, true)
	repo.touchErr = errors.New("disco lleno")

	// The stamp is best effort: its failure never blocks the login
	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "1234"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUsuario(t, repo, "cajero1", "1234", model.RolCajero, true)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cajero1", Password: "4321"})
	require.Error(t, err)
	assert.Equal(t, "Credenciales invalidas", err.Error())
}

func TestLogin_UsuarioInactivoRechazado(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUsuario(t, repo, "exmesero", "1234", model.RolMesero, false)

	// Same message as a wrong password — does not reveal the account state
	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "exmesero", Password: "1234"})
	require.Error(t, err)
	assert.Equal(t, "Credenciales invalidas", err.Error())
}

func TestRefresh_EmiteNuevosTokens(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUsuario(t, repo, "admin", "1234", model.RolAdmin, true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin", Password: "1234"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
}

func TestRefresh_TokenBasuraRechazado(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.Refresh(context.Background(), "no-es-un-jwt")
	require.Error(t, err)
}

func TestRefresh_UsuarioDesactivadoDespuesDelLogin(t *testing.T) {
	svc, repo := newAuthFixture(t)
	u := seedUsuario(t, repo, "mesero2", "1234", model.RolMesero, true)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "mesero2", Password: "1234"})
	require.NoError(t, err)

	u.Activo = false
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	require.Error(t, err)
}

func TestCrearUsuario_UsernameDuplicado(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "nuevo", Nombre: "Nuevo Mesero", Password: "1234", Rol: "mesero",
	})
	require.NoError(t, err)

	_, err = svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "nuevo", Nombre: "Otro", Password: "1234", Rol: "cajero",
	})
	require.Error(t, err)
}

func TestCrearUsuario_RolDesconocido(t *testing.T) {
	svc, _ := newAuthFixture(t)

	_, err := svc.CrearUsuario(context.Background(), dto.CrearUsuarioRequest{
		Username: "raro", Nombre: "Rol Raro", Password: "1234", Rol: "gerente",
	})
	require.Error(t, err)
}

func TestListarUsuarios_FiltraInactivos(t *testing.T) {
	svc, repo := newAuthFixture(t)
	seedUsuario(t, repo, "activo1", "1234", model.RolMesero, true)
	seedUsuario(t, repo, "inactivo1", "1234", model.RolMesero, false)

	soloActivos, err := svc.ListarUsuarios(context.Background(), false)
	require.NoError(t, err)
	assert.Len(t, soloActivos, 1)

	todos, err := svc.ListarUsuarios(context.Background(), true)
	require.NoError(t, err)
	assert.Len(t, todos, 2)
}
