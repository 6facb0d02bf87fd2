package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// ProductoService defines the business logic contract for products.
type ProductoService interface {
	Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error)
	ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error)
	ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error)
	Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error)
	Desactivar(ctx context.Context, id uuid.UUID) error
	Reactivar(ctx context.Context, id uuid.UUID) error
	ListarCategorias(ctx context.Context) ([]string, error)
	ListarBajoStock(ctx context.Context) ([]dto.ProductoResponse, error)
	Stats(ctx context.Context) (*dto.InventarioStatsResponse, error)
	AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error)
}

type productoService struct {
	repo           repository.ProductoRepository
	movimientoRepo repository.MovimientoStockRepository
	rdb            *redis.Client
}

func NewProductoService(
	repo repository.ProductoRepository,
	movimientoRepo repository.MovimientoStockRepository,
	rdb *redis.Client,
) ProductoService {
	return &productoService{repo: repo, movimientoRepo: movimientoRepo, rdb: rdb}
}

func (s *productoService) Crear(ctx context.Context, req dto.CrearProductoRequest) (*dto.ProductoResponse, error) {
	if _, err := s.repo.FindByBarcode(ctx, req.CodigoBarras); err == nil {
		return nil, fmt.Errorf("ya existe un producto con código de barras %s", req.CodigoBarras)
	}

	categoria := req.Categoria
	if categoria == "" {
		categoria = "General"
	}
	stockMinimo := req.StockMinimo
	if stockMinimo == 0 {
		stockMinimo = 5
	}

	p := &model.Producto{
		CodigoBarras: req.CodigoBarras,
		Nombre:       req.Nombre,
		Descripcion:  req.Descripcion,
		Categoria:    categoria,
		PrecioCosto:  req.PrecioCosto,
		PrecioVenta:  req.PrecioVenta,
		StockActual:  req.StockActual,
		StockMinimo:  stockMinimo,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	invalidarResumenCache(ctx, s.rdb)
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorID(ctx context.Context, id uuid.UUID) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) ObtenerPorBarcode(ctx context.Context, barcode string) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByBarcode(ctx, barcode)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}
	return productoToResponse(p), nil
}

func (s *productoService) Listar(ctx context.Context, filter dto.ProductoFilter) (*dto.ProductoListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}

	productos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := &dto.ProductoListResponse{
		Data:  make([]dto.ProductoResponse, 0, len(productos)),
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}
	for i := range productos {
		resp.Data = append(resp.Data, *productoToResponse(&productos[i]))
	}
	return resp, nil
}

func (s *productoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarProductoRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}

	if req.Nombre != "" {
		p.Nombre = req.Nombre
	}
	if req.Descripcion != nil {
		p.Descripcion = req.Descripcion
	}
	if req.Categoria != "" {
		p.Categoria = req.Categoria
	}
	if req.PrecioCosto != nil {
		p.PrecioCosto = *req.PrecioCosto
	}
	if req.PrecioVenta != nil {
		p.PrecioVenta = *req.PrecioVenta
	}
	if req.StockMinimo != nil {
		p.StockMinimo = *req.StockMinimo
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	// Un cambio de precio de costo altera el COGS de las próximas consultas.
	invalidarResumenCache(ctx, s.rdb)
	return productoToResponse(p), nil
}

func (s *productoService) Desactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("Producto no encontrado")
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *productoService) Reactivar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("Producto no encontrado")
	}
	return s.repo.Reactivar(ctx, id)
}

func (s *productoService) ListarCategorias(ctx context.Context) ([]string, error) {
	return s.repo.ListCategorias(ctx)
}

func (s *productoService) ListarBajoStock(ctx context.Context) ([]dto.ProductoResponse, error) {
	productos, err := s.repo.ListBajoStock(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductoResponse, 0, len(productos))
	for i := range productos {
		out = append(out, *productoToResponse(&productos[i]))
	}
	return out, nil
}

func (s *productoService) Stats(ctx context.Context) (*dto.InventarioStatsResponse, error) {
	return s.repo.Stats(ctx)
}

// AjustarStock aplica un ajuste manual y deja rastro en movimientos_stock.
func (s *productoService) AjustarStock(ctx context.Context, id uuid.UUID, req dto.AjustarStockRequest) (*dto.ProductoResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("Producto no encontrado")
	}
	if p.StockActual+req.Delta < 0 {
		return nil, fmt.Errorf("el ajuste dejaría stock negativo: actual %d, delta %d", p.StockActual, req.Delta)
	}

	if err := s.repo.AjustarStock(ctx, id, req.Delta); err != nil {
		return nil, err
	}

	mov := &model.MovimientoStock{
		ProductoID:    p.ID,
		Tipo:          "ajuste_manual",
		Cantidad:      req.Delta,
		StockAnterior: p.StockActual,
		StockNuevo:    p.StockActual + req.Delta,
		Motivo:        req.Motivo,
	}
	if err := s.movimientoRepo.Create(ctx, mov); err != nil {
		log.Warn().Err(err).Str("producto_id", p.ID.String()).Msg("no se pudo registrar el movimiento de stock")
	}

	p.StockActual += req.Delta
	return productoToResponse(p), nil
}

func productoToResponse(p *model.Producto) *dto.ProductoResponse {
	return &dto.ProductoResponse{
		ID:           p.ID.String(),
		CodigoBarras: p.CodigoBarras,
		Nombre:       p.Nombre,
		Descripcion:  p.Descripcion,
		Categoria:    p.Categoria,
		PrecioCosto:  p.PrecioCosto,
		PrecioVenta:  p.PrecioVenta,
		StockActual:  p.StockActual,
		StockMinimo:  p.StockMinimo,
		Activo:       p.Activo,
	}
}
