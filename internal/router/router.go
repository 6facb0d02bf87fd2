package router

import (
	"time"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/config"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/handler"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/middleware"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/repository"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/service"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/worker"

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

	// ── Repositories ─────────────────────────────────────────────────────────
	usuarioRepo := repository.NewUsuarioRepository(db)
	productoRepo := repository.NewProductoRepository(db)
	ventaRepo := repository.NewVentaRepository(db)
	transaccionRepo := repository.NewTransaccionRepository(db)
	empleadoRepo := repository.NewEmpleadoRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	movimientoStockRepo := repository.NewMovimientoStockRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(usuarioRepo, cfg)
	productoSvc := service.NewProductoService(productoRepo, movimientoStockRepo, rdb)
	ventaSvc := service.NewVentaService(ventaRepo, productoRepo, movimientoStockRepo, rdb)
	clienteSvc := service.NewClienteService(clienteRepo)
	empleadoSvc := service.NewEmpleadoService(empleadoRepo)
	finanzasSvc := service.NewFinanzasService(
		ventaRepo, transaccionRepo, empleadoRepo, productoRepo,
		rdb, dispatcher, cfg.AlertaEmail,
		time.Duration(cfg.ResumenCacheTTLSeconds)*time.Second,
	)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usuariosH := handler.NewUsuariosHandler(authSvc)
	productosH := handler.NewProductosHandler(productoSvc)
	ventasH := handler.NewVentasHandler(ventaSvc)
	clientesH := handler.NewClientesHandler(clienteSvc)
	empleadosH := handler.NewEmpleadosHandler(empleadoSvc)
	finanzasH := handler.NewFinanzasHandler(finanzasSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))

	// Auth (public)
	auth := r.Group("/v1/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		auth.POST("/refresh", authH.Refresh)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	v1 := r.Group("/v1", jwtMW)
	{
		// Roles: cajero, supervisor, administrador — declared per-endpoint
		v1.POST("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.RegistrarVenta)
		v1.GET("/ventas", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ListarVentas)
		v1.GET("/ventas/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), ventasH.ObtenerPorID)
		v1.DELETE("/ventas/:id", middleware.RequireRole("supervisor", "administrador"), ventasH.CancelarVenta)

		// Catálogo — lectura para todos los roles
		v1.GET("/productos", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.Listar)
		v1.GET("/productos/:id", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.ObtenerPorID)
		v1.GET("/productos/barcode/:codigo", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.ObtenerPorBarcode)
		v1.GET("/productos/categorias", middleware.RequireRole("cajero", "supervisor", "administrador"), productosH.ListarCategorias)
		// Inventario — supervisores hacia arriba
		v1.GET("/inventario/bajo-stock", middleware.RequireRole("supervisor", "administrador"), productosH.ListarBajoStock)
		v1.GET("/inventario/stats", middleware.RequireRole("supervisor", "administrador"), productosH.Stats)
		v1.PATCH("/productos/:id/stock", middleware.RequireRole("supervisor", "administrador"), productosH.AjustarStock)
		// Write operations — administrador only
		prods := v1.Group("/productos", middleware.RequireRole("administrador"))
		{
			prods.POST("", productosH.Crear)
			prods.PUT("/:id", productosH.Actualizar)
			prods.DELETE("/:id", productosH.Desactivar)
			prods.PATCH("/:id/reactivar", productosH.Reactivar)
		}

		// Finanzas — el agregador es de supervisores hacia arriba;
		// gastos y nómina, solo administrador
		v1.GET("/finanzas/resumen", middleware.RequireRole("supervisor", "administrador"), finanzasH.Resumen)
		v1.GET("/finanzas/alertas", middleware.RequireRole("supervisor", "administrador"), finanzasH.Alertas)
		finanzas := v1.Group("/finanzas", middleware.RequireRole("administrador"))
		{
			finanzas.POST("/gastos", finanzasH.CrearGasto)
			finanzas.GET("/gastos", finanzasH.ListarGastos)
			finanzas.DELETE("/gastos/:id", finanzasH.EliminarGasto)
			finanzas.POST("/nomina", finanzasH.ProcesarNomina)
		}

		empleados := v1.Group("/empleados", middleware.RequireRole("administrador"))
		{
			empleados.POST("", empleadosH.Crear)
			empleados.GET("", empleadosH.Listar)
			empleados.PUT("/:id", empleadosH.Actualizar)
			empleados.DELETE("/:id", empleadosH.Eliminar)
		}

		clientes := v1.Group("/clientes", middleware.RequireRole("cajero", "supervisor", "administrador"))
		{
			clientes.POST("", clientesH.Crear)
			clientes.GET("", clientesH.Listar)
			clientes.GET("/:id", clientesH.ObtenerPorID)
			clientes.PUT("/:id", clientesH.Actualizar)
		}
		v1.DELETE("/clientes/:id", middleware.RequireRole("supervisor", "administrador"), clientesH.Desactivar)

		// Reportes
		reportes := v1.Group("/reportes", middleware.RequireRole("supervisor", "administrador"))
		{
			reportes.GET("/ventas/stats", ventasH.Stats)
			reportes.GET("/top-productos", ventasH.TopProductos)
			reportes.GET("/financiero", finanzasH.Resumen)
		}

		usuarios := v1.Group("/usuarios", middleware.RequireRole("administrador"))
		{
			usuarios.POST("", usuariosH.Crear)
			usuarios.GET("", usuariosH.Listar)
			usuarios.PUT("/:id", usuariosH.Actualizar)
			usuarios.DELETE("/:id", usuariosH.Desactivar)
			usuarios.PATCH("/:id/reactivar", usuariosH.Reactivar)
		}
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
