package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type VentaService interface {
	RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error)
	CancelarVenta(ctx context.Context, id uuid.UUID) error
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error)
	ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error)
	Stats(ctx context.Context) (*dto.VentaStatsResponse, error)
	TopProductos(ctx context.Context, limit int) ([]dto.TopProductoResponse, error)
}

type ventaService struct {
	repo           repository.VentaRepository
	productoRepo   repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	rdb            *redis.Client
}

func NewVentaService(
	repo repository.VentaRepository,
	productoRepo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	rdb *redis.Client,
) VentaService {
	return &ventaService{
		repo:           repo,
		productoRepo:   productoRepo,
		movimientoRepo: movimientoRepo,
		rdb:            rdb,
	}
}

// ── RegistrarVenta ────────────────────────────────────────────────────────────
// Checkout completo en una transacción:
//  1. Resolver productos y congelar precio de venta vigente
//  2. Verificar stock
//  3. BEGIN TX: crear venta+items, descontar stock, registrar movimientos
//  4. COMMIT

func (s *ventaService) RegistrarVenta(ctx context.Context, usuarioID uuid.UUID, req dto.RegistrarVentaRequest) (*dto.VentaResponse, error) {
	type resolvedItem struct {
		producto *model.Producto
		cantidad int
		subtotal decimal.Decimal
	}

	var resolved []resolvedItem
	total := decimal.Zero

	for _, item := range req.Items {
		pid, err := uuid.Parse(item.ProductoID)
		if err != nil {
			return nil, fmt.Errorf("producto_id inválido: %w", err)
		}
		p, err := s.productoRepo.FindByID(ctx, pid)
		if err != nil {
			return nil, fmt.Errorf("producto %s no encontrado", item.ProductoID)
		}
		if !p.Activo {
			return nil, fmt.Errorf("producto %s está inactivo y no puede venderse", p.Nombre)
		}
		if p.StockActual < item.Cantidad {
			return nil, fmt.Errorf("stock insuficiente para %s: disponible %d, solicitado %d",
				p.Nombre, p.StockActual, item.Cantidad)
		}
		subtotal := p.PrecioVenta.Mul(decimal.NewFromInt(int64(item.Cantidad)))
		total = total.Add(subtotal)
		resolved = append(resolved, resolvedItem{producto: p, cantidad: item.Cantidad, subtotal: subtotal})
	}

	var clienteID *uuid.UUID
	if req.ClienteID != nil {
		cid, err := uuid.Parse(*req.ClienteID)
		if err != nil {
			return nil, fmt.Errorf("cliente_id inválido: %w", err)
		}
		clienteID = &cid
	}

	venta := &model.Venta{
		UsuarioID: usuarioID,
		ClienteID: clienteID,
		Total:     total,
		Estado:    "completada",
	}
	for _, ri := range resolved {
		venta.Items = append(venta.Items, model.VentaItem{
			ProductoID:     ri.producto.ID,
			Cantidad:       ri.cantidad,
			PrecioUnitario: ri.producto.PrecioVenta,
			Subtotal:       ri.subtotal,
		})
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.Create(ctx, tx, venta); err != nil {
			return fmt.Errorf("creando venta: %w", err)
		}
		for _, ri := range resolved {
			if err := s.productoRepo.UpdateStockTx(tx, ri.producto.ID, -ri.cantidad); err != nil {
				return fmt.Errorf("descontando stock de %s: %w", ri.producto.Nombre, err)
			}
			mov := &model.MovimientoStock{
				ProductoID:    ri.producto.ID,
				Tipo:          "venta",
				Cantidad:      -ri.cantidad,
				StockAnterior: ri.producto.StockActual,
				StockNuevo:    ri.producto.StockActual - ri.cantidad,
				Motivo:        "Venta registrada",
				ReferenciaID:  &venta.ID,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return fmt.Errorf("registrando movimiento de stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("venta_id", venta.ID.String()).
		Str("total", total.StringFixed(2)).
		Int("items", len(venta.Items)).
		Msg("venta registrada")

	invalidarResumenCache(ctx, s.rdb)
	return ventaToResponse(venta), nil
}

// ── CancelarVenta ─────────────────────────────────────────────────────────────
// Marca la venta como cancelada y devuelve el stock de cada línea. Las ventas
// canceladas quedan fuera de toda agregación financiera.

func (s *ventaService) CancelarVenta(ctx context.Context, id uuid.UUID) error {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return errors.New("Venta no encontrada")
	}
	if venta.Estado == "cancelada" {
		return errors.New("La venta ya está cancelada")
	}

	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.UpdateEstadoTx(tx, venta.ID, "cancelada"); err != nil {
			return fmt.Errorf("cancelando venta: %w", err)
		}
		for _, item := range venta.Items {
			if err := s.productoRepo.UpdateStockTx(tx, item.ProductoID, item.Cantidad); err != nil {
				return fmt.Errorf("restaurando stock: %w", err)
			}
			p, err := s.productoRepo.FindByID(ctx, item.ProductoID)
			stockAnterior, stockNuevo := 0, item.Cantidad
			if err == nil {
				stockNuevo = p.StockActual
				stockAnterior = stockNuevo - item.Cantidad
			}
			mov := &model.MovimientoStock{
				ProductoID:    item.ProductoID,
				Tipo:          "restore_cancelacion",
				Cantidad:      item.Cantidad,
				StockAnterior: stockAnterior,
				StockNuevo:    stockNuevo,
				Motivo:        "Cancelación de venta",
				ReferenciaID:  &venta.ID,
			}
			if err := s.movimientoRepo.CreateTx(tx, mov); err != nil {
				return fmt.Errorf("registrando movimiento de stock: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info().Str("venta_id", venta.ID.String()).Msg("venta cancelada, stock restaurado")
	invalidarResumenCache(ctx, s.rdb)
	return nil
}

// ── Consultas ─────────────────────────────────────────────────────────────────

func (s *ventaService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.VentaResponse, error) {
	venta, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("Venta no encontrada")
	}
	return ventaToResponse(venta), nil
}

func (s *ventaService) ListVentas(ctx context.Context, filter dto.VentaFilter) (*dto.VentaListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	ventas, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.VentaListResponse{
		Ventas:      make([]dto.VentaResponse, 0, len(ventas)),
		TotalVentas: total,
		Pagina:      filter.Page,
	}
	for i := range ventas {
		resp.Ventas = append(resp.Ventas, *ventaToResponse(&ventas[i]))
	}
	resp.TotalPaginas = (total + int64(filter.Limit) - 1) / int64(filter.Limit)
	return resp, nil
}

func (s *ventaService) Stats(ctx context.Context) (*dto.VentaStatsResponse, error) {
	ventas, err := s.repo.ListCompletadas(ctx)
	if err != nil {
		return nil, err
	}

	ingresos := decimal.Zero
	for _, v := range ventas {
		ingresos = ingresos.Add(v.Total)
	}

	ticket := decimal.Zero
	if len(ventas) > 0 {
		ticket = ingresos.Div(decimal.NewFromInt(int64(len(ventas))))
	}

	return &dto.VentaStatsResponse{
		TotalVentas:     int64(len(ventas)),
		IngresosTotales: ingresos,
		TicketPromedio:  ticket.Round(2),
	}, nil
}

func (s *ventaService) TopProductos(ctx context.Context, limit int) ([]dto.TopProductoResponse, error) {
	if limit < 1 {
		limit = 5
	}
	ventas, err := s.repo.ListCompletadas(ctx)
	if err != nil {
		return nil, err
	}

	type acumulado struct {
		unidades int
		ingresos decimal.Decimal
	}
	porProducto := make(map[uuid.UUID]*acumulado)
	for _, v := range ventas {
		for _, item := range v.Items {
			acc, ok := porProducto[item.ProductoID]
			if !ok {
				acc = &acumulado{ingresos: decimal.Zero}
				porProducto[item.ProductoID] = acc
			}
			acc.unidades += item.Cantidad
			acc.ingresos = acc.ingresos.Add(item.Subtotal)
		}
	}

	out := make([]dto.TopProductoResponse, 0, len(porProducto))
	for pid, acc := range porProducto {
		nombre := pid.String()
		if p, err := s.productoRepo.FindByID(ctx, pid); err == nil {
			nombre = p.Nombre
		}
		out = append(out, dto.TopProductoResponse{
			ProductoID:       pid.String(),
			Nombre:           nombre,
			UnidadesVendidas: acc.unidades,
			IngresosTotales:  acc.ingresos,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UnidadesVendidas != out[j].UnidadesVendidas {
			return out[i].UnidadesVendidas > out[j].UnidadesVendidas
		}
		return out[i].Nombre < out[j].Nombre
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func ventaToResponse(v *model.Venta) *dto.VentaResponse {
	resp := &dto.VentaResponse{
		ID:        v.ID.String(),
		Total:     v.Total,
		Estado:    v.Estado,
		CreatedAt: v.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	for _, item := range v.Items {
		nombre := ""
		if item.Producto != nil {
			nombre = item.Producto.Nombre
		}
		resp.Items = append(resp.Items, dto.ItemVentaResponse{
			ProductoID:     item.ProductoID.String(),
			Producto:       nombre,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
			Subtotal:       item.Subtotal,
		})
	}
	return resp
}
