package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/repository"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/worker"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const resumenCacheKey = "finanzas:resumen"

// FondosInsuficientesError se devuelve cuando el efectivo disponible no
// alcanza para cubrir la nómina completa. La nómina no se paga parcialmente.
type FondosInsuficientesError struct {
	Requerido  decimal.Decimal
	Disponible decimal.Decimal
}

func (e *FondosInsuficientesError) Error() string {
	return fmt.Sprintf("Fondos insuficientes para pagar la nómina. Necesario: $%s, Disponible: $%s",
		e.Requerido.StringFixed(2), e.Disponible.StringFixed(2))
}

// FinanzasService agrega ventas, costos y gastos en el resumen financiero,
// deriva alertas y ejecuta la nómina semanal.
type FinanzasService interface {
	ObtenerResumen(ctx context.Context) (*dto.ResumenFinanciero, error)
	Alertas(ctx context.Context) ([]dto.Alerta, error)

	ProcesarNomina(ctx context.Context) (*dto.NominaResponse, error)

	CrearGasto(ctx context.Context, req dto.CrearGastoRequest) (*dto.GastoResponse, error)
	ListarGastos(ctx context.Context) ([]dto.GastoResponse, error)
	EliminarGasto(ctx context.Context, id uuid.UUID) error
}

type finanzasService struct {
	ventaRepo    repository.VentaRepository
	transRepo    repository.TransaccionRepository
	empleadoRepo repository.EmpleadoRepository
	productoRepo repository.ProductoRepository
	rdb          *redis.Client
	dispatcher   *worker.Dispatcher
	alertaEmail  string
	cacheTTL     time.Duration

	// Serializa ProcesarNomina: dos requests concurrentes no pueden pagar
	// la misma nómina dos veces.
	nominaMu sync.Mutex
}

func NewFinanzasService(
	ventaRepo repository.VentaRepository,
	transRepo repository.TransaccionRepository,
	empleadoRepo repository.EmpleadoRepository,
	productoRepo repository.ProductoRepository,
	rdb *redis.Client,
	dispatcher *worker.Dispatcher,
	alertaEmail string,
	cacheTTL time.Duration,
) FinanzasService {
	return &finanzasService{
		ventaRepo:    ventaRepo,
		transRepo:    transRepo,
		empleadoRepo: empleadoRepo,
		productoRepo: productoRepo,
		rdb:          rdb,
		dispatcher:   dispatcher,
		alertaEmail:  alertaEmail,
		cacheTTL:     cacheTTL,
	}
}

// ── Resumen ──────────────────────────────────────────────────────────────────

func (s *finanzasService) ObtenerResumen(ctx context.Context) (*dto.ResumenFinanciero, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, resumenCacheKey).Bytes(); err == nil {
			var resumen dto.ResumenFinanciero
			if err := json.Unmarshal(cached, &resumen); err == nil {
				return &resumen, nil
			}
		}
	}

	resumen, err := s.calcularResumen(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(resumen); err == nil {
			if err := s.rdb.Set(ctx, resumenCacheKey, data, s.cacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("finanzas: no se pudo cachear el resumen")
			}
		}
	}
	return resumen, nil
}

// calcularResumen siempre va a la base, nunca al cache.
func (s *finanzasService) calcularResumen(ctx context.Context) (*dto.ResumenFinanciero, error) {
	ventas, err := s.ventaRepo.ListCompletadas(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando ventas: %w", err)
	}
	gastos, err := s.transRepo.ListGastos(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando gastos: %w", err)
	}
	costos, err := s.productoRepo.MapaCostos(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando costos: %w", err)
	}

	resumen := CalcularMetricas(ventas, gastos, costos, time.Now())
	return &resumen, nil
}

func (s *finanzasService) Alertas(ctx context.Context) ([]dto.Alerta, error) {
	resumen, err := s.ObtenerResumen(ctx)
	if err != nil {
		return nil, err
	}
	return VerificarAlertas(*resumen), nil
}

func (s *finanzasService) invalidarResumen(ctx context.Context) {
	invalidarResumenCache(ctx, s.rdb)
}

// invalidarResumenCache borra el resumen cacheado. Lo usan todos los
// servicios cuya escritura altera las métricas (ventas, gastos, nómina).
func invalidarResumenCache(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	if err := rdb.Del(ctx, resumenCacheKey).Err(); err != nil {
		log.Warn().Err(err).Msg("finanzas: no se pudo invalidar el cache del resumen")
	}
}

// notificarAlertas recalcula el estado tras una mutación y encola un email
// si hay alertas activas. Best-effort: un fallo aquí nunca revierte la
// operación que lo disparó.
func (s *finanzasService) notificarAlertas(ctx context.Context) {
	if s.dispatcher == nil || s.alertaEmail == "" {
		return
	}
	resumen, err := s.calcularResumen(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("finanzas: no se pudo recalcular el resumen para alertas")
		return
	}
	alertas := VerificarAlertas(*resumen)
	if len(alertas) == 0 {
		return
	}

	var b strings.Builder
	b.WriteString("Alertas financieras NutriAla:\n\n")
	for _, a := range alertas {
		fmt.Fprintf(&b, "- [%s] %s: $%s\n", a.Tipo, a.Mensaje, a.Detalle.StringFixed(2))
	}

	payload := worker.NotificacionPayload{
		ToEmail: s.alertaEmail,
		Subject: "Alertas financieras - NutriAla",
		Body:    b.String(),
	}
	if err := s.dispatcher.EnqueueNotificacion(ctx, payload); err != nil {
		log.Warn().Err(err).Msg("finanzas: no se pudo encolar la notificación de alertas")
	}
}

// ── Nómina ───────────────────────────────────────────────────────────────────
// Todo o nada: un solo gasto "Sueldos" por el total + actualización de cada
// empleado, dentro de una única transacción. Si el efectivo no alcanza no se
// modifica nada.

func (s *finanzasService) ProcesarNomina(ctx context.Context) (*dto.NominaResponse, error) {
	s.nominaMu.Lock()
	defer s.nominaMu.Unlock()

	empleados, err := s.empleadoRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cargando empleados: %w", err)
	}
	if len(empleados) == 0 {
		return nil, errors.New("No hay empleados registrados para pagar")
	}

	total := decimal.Zero
	for _, e := range empleados {
		total = total.Add(e.SalarioSemanal)
	}

	// Siempre contra datos frescos, nunca contra el cache.
	resumen, err := s.calcularResumen(ctx)
	if err != nil {
		return nil, err
	}
	if resumen.EfectivoDisponible.LessThan(total) {
		return nil, &FondosInsuficientesError{
			Requerido:  total,
			Disponible: resumen.EfectivoDisponible,
		}
	}

	now := time.Now()
	err = runTx(ctx, s.empleadoRepo.DB(), func(tx *gorm.DB) error {
		gasto := &model.TransaccionFinanciera{
			Tipo:        "gasto",
			Categoria:   model.CategoriaSueldos,
			Monto:       total.Neg(),
			Descripcion: "Pago de nómina - " + now.Format("02/01/2006"),
			Fecha:       now,
		}
		if err := s.transRepo.CreateTx(tx, gasto); err != nil {
			return fmt.Errorf("registrando gasto de nómina: %w", err)
		}

		for i := range empleados {
			e := &empleados[i]
			pago := now
			e.UltimoPago = &pago
			e.ProximoPago = now.AddDate(0, 0, 7)
			e.TotalPagado = e.TotalPagado.Add(e.SalarioSemanal)
			if err := s.empleadoRepo.UpdateTx(tx, e); err != nil {
				return fmt.Errorf("actualizando empleado %s: %w", e.Nombre, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("monto", total.StringFixed(2)).
		Int("empleados", len(empleados)).
		Msg("nómina procesada")

	s.invalidarResumen(ctx)
	s.notificarAlertas(ctx)

	return &dto.NominaResponse{
		MontoPagado: total,
		Empleados:   len(empleados),
		FechaPago:   now.Format("2006-01-02T15:04:05Z"),
	}, nil
}

// ── Gastos ───────────────────────────────────────────────────────────────────

func (s *finanzasService) CrearGasto(ctx context.Context, req dto.CrearGastoRequest) (*dto.GastoResponse, error) {
	magnitud := req.Monto.Abs()
	if magnitud.IsZero() {
		return nil, errors.New("El monto del gasto no puede ser cero")
	}

	fecha := time.Now()
	if req.Fecha != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.Fecha, time.Local)
		if err != nil {
			return nil, fmt.Errorf("fecha inválida: %w", err)
		}
		fecha = parsed
	}

	// Los gastos se guardan con monto negativo; el agregador consume el
	// valor absoluto.
	gasto := &model.TransaccionFinanciera{
		Tipo:        "gasto",
		Categoria:   req.Categoria,
		Monto:       magnitud.Neg(),
		Descripcion: req.Descripcion,
		Fecha:       fecha,
	}
	if err := s.transRepo.Create(ctx, gasto); err != nil {
		return nil, err
	}

	s.invalidarResumen(ctx)
	s.notificarAlertas(ctx)

	return gastoToResponse(gasto), nil
}

func (s *finanzasService) ListarGastos(ctx context.Context) ([]dto.GastoResponse, error) {
	gastos, err := s.transRepo.ListGastos(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.GastoResponse, 0, len(gastos))
	for i := range gastos {
		out = append(out, *gastoToResponse(&gastos[i]))
	}
	return out, nil
}

func (s *finanzasService) EliminarGasto(ctx context.Context, id uuid.UUID) error {
	if _, err := s.transRepo.FindByID(ctx, id); err != nil {
		return errors.New("Gasto no encontrado")
	}
	if err := s.transRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidarResumen(ctx)
	return nil
}

func gastoToResponse(t *model.TransaccionFinanciera) *dto.GastoResponse {
	return &dto.GastoResponse{
		ID:          t.ID.String(),
		Descripcion: t.Descripcion,
		Monto:       t.MontoAbsoluto(),
		Categoria:   t.Categoria,
		Fecha:       t.Fecha.Format("2006-01-02"),
		CreatedAt:   t.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
