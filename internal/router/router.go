package router

import (
	"time"

	"taqueriapos/internal/config"
	"taqueriapos/internal/handler"
	"taqueriapos/internal/infra"
	"taqueriapos/internal/middleware"
	"taqueriapos/internal/repository"
	"taqueriapos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	mailer := infra.NewMailer(cfg)

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	mesaRepo := repository.NewMesaRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ordenRepo := repository.NewOrdenRepository(db)
	movimientoRepo := repository.NewMovimientoInventarioRepository(db)
	auditoriaRepo := repository.NewAuditoriaRepository(db)
	dashboardRepo := repository.NewDashboardRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, movimientoRepo, auditoriaRepo)
	inventarioSvc := service.NewInventarioService(productoRepo, movimientoRepo)
	mesaSvc := service.NewMesaService(mesaRepo, usuarioRepo, auditoriaRepo)
	ordenSvc := service.NewOrdenService(ordenRepo, mesaRepo, productoRepo, movimientoRepo, auditoriaRepo, cfg.ControlStock, cfg.TicketStoragePath)
	dashboardSvc := service.NewDashboardService(dashboardRepo, inventarioSvc)
	reporteSvc := service.NewReporteService(dashboardRepo, mailer, cfg.ReportEmailTo)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	inventarioH := handler.NewInventarioHandler(inventarioSvc)
	mesasH := handler.NewMesasHandler(mesaSvc)
	ordenesH := handler.NewOrdenesHandler(ordenSvc)
	dashboardH := handler.NewDashboardHandler(dashboardSvc)
	reportesH := handler.NewReportesHandler(reporteSvc)
	menuH := handler.NewMenuHandler(productoRepo, rdb)
	auditoriaH := handler.NewAuditoriaHandler(auditoriaRepo)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Public menu board — no auth required
	r.GET("/v1/menu", menuH.GetMenu)

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: admin, mesero, cocinero, cajero — declared per-endpoint
		v1.POST("/ordenes", middleware.RequireRole("mesero", "cajero", "admin"), ordenesH.Crear)
		v1.GET("/ordenes", middleware.RequireRole("mesero", "cocinero", "cajero", "admin"), ordenesH.Listar)
		v1.GET("/ordenes/:id", middleware.RequireRole("mesero", "cocinero", "cajero", "admin"), ordenesH.Obtener)
		v1.POST("/ordenes/:id/pagar", middleware.RequireRole("cajero", "admin"), ordenesH.Pagar)
		v1.POST("/ordenes/:id/cancelar", middleware.RequireRole("cajero", "admin"), ordenesH.Cancelar)
		v1.PATCH("/ordenes/:id/detalles/:detalleId", middleware.RequireRole("mesero", "cocinero", "admin"), ordenesH.ActualizarDetalle)
		v1.GET("/ordenes/:id/ticket", middleware.RequireRole("cajero", "admin"), ordenesH.Ticket)

		// Mesas — everyone on the floor reads, admin writes
		v1.GET("/mesas", middleware.RequireRole("mesero", "cocinero", "cajero", "admin"), mesasH.Listar)
		v1.GET("/mesas/:id", middleware.RequireRole("mesero", "cocinero", "cajero", "admin"), mesasH.Obtener)
		v1.PATCH("/mesas/:id/mesero", middleware.RequireRole("mesero", "admin"), mesasH.AsignarMesero)
		v1.PATCH("/mesas/:id/estado", middleware.RequireRole("mesero", "cajero", "admin"), mesasH.CambiarEstado)
		mesas := v1.Group("/mesas", middleware.RequireRole("admin"))
		{
			mesas.POST("", mesasH.Crear)
			mesas.PUT("/:id", mesasH.Actualizar)
		}

		// Productos — floor reads the catalog, admin writes
		v1.GET("/productos", middleware.RequireRole("mesero", "cocinero", "cajero", "admin"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("mesero", "cocinero", "cajero", "admin"), productosH.ObtenerPorID)
		v1.PATCH("/productos/:id/stock", middleware.RequireRole("cajero", "admin"), productosH.AjustarStock)
		v1.PATCH("/productos/:id/disponibilidad", middleware.RequireRole("cocinero", "admin"), productosH.CambiarDisponibilidad)
		prods := v1.Group("/productos", middleware.RequireRole("admin"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
		}

		inv := v1.Group("/inventario", middleware.RequireRole("admin", "cajero"))
		{
			inv.GET("/movimientos", inventarioH.Movimientos)
			inv.GET("/alertas", inventarioH.Alertas)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("admin"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}

		v1.GET("/dashboard/resumen", middleware.RequireRole("admin", "cajero"), dashboardH.Resumen)
		v1.GET("/reportes/cierre", middleware.RequireRole("admin"), reportesH.CierreDelDia)
		v1.GET("/auditoria", middleware.RequireRole("admin"), auditoriaH.Listar)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
