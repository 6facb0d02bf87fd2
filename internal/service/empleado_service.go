package service

import (
	"context"
	"errors"
	"time"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/model"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmpleadoService administra la plantilla. Dar de alta un empleado registra
// el compromiso de pago, no un gasto: el gasto recién existe cuando la
// nómina se procesa.
type EmpleadoService interface {
	Crear(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error)
	Listar(ctx context.Context) ([]dto.EmpleadoResponse, error)
	Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
}

type empleadoService struct {
	repo repository.EmpleadoRepository
}

func NewEmpleadoService(repo repository.EmpleadoRepository) EmpleadoService {
	return &empleadoService{repo: repo}
}

func (s *empleadoService) Crear(ctx context.Context, req dto.CrearEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	now := time.Now()
	puesto := req.Puesto
	if puesto == "" {
		puesto = "Empleado"
	}

	e := &model.Empleado{
		Nombre:            req.Nombre,
		Puesto:            puesto,
		SalarioSemanal:    req.SalarioSemanal,
		FechaContratacion: now,
		UltimoPago:        nil, // sin pagos hasta la primera nómina
		ProximoPago:       now.AddDate(0, 0, 7),
		TotalPagado:       decimal.Zero,
		Activo:            true,
	}
	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return empleadoToResponse(e), nil
}

func (s *empleadoService) Listar(ctx context.Context) ([]dto.EmpleadoResponse, error) {
	empleados, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmpleadoResponse, 0, len(empleados))
	for i := range empleados {
		out = append(out, *empleadoToResponse(&empleados[i]))
	}
	return out, nil
}

func (s *empleadoService) Actualizar(ctx context.Context, id uuid.UUID, req dto.ActualizarEmpleadoRequest) (*dto.EmpleadoResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.New("Empleado no encontrado")
	}

	if req.Nombre != "" {
		e.Nombre = req.Nombre
	}
	if req.Puesto != "" {
		e.Puesto = req.Puesto
	}
	if req.SalarioSemanal != nil {
		e.SalarioSemanal = *req.SalarioSemanal
	}

	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	return empleadoToResponse(e), nil
}

func (s *empleadoService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return errors.New("Empleado no encontrado")
	}
	return s.repo.Delete(ctx, id)
}

func empleadoToResponse(e *model.Empleado) *dto.EmpleadoResponse {
	resp := &dto.EmpleadoResponse{
		ID:                e.ID.String(),
		Nombre:            e.Nombre,
		Puesto:            e.Puesto,
		SalarioSemanal:    e.SalarioSemanal,
		FechaContratacion: e.FechaContratacion.Format("2006-01-02"),
		ProximoPago:       e.ProximoPago.Format("2006-01-02"),
		TotalPagado:       e.TotalPagado,
	}
	if e.UltimoPago != nil {
		ultimo := e.UltimoPago.Format("2006-01-02")
		resp.UltimoPago = &ultimo
	}
	return resp
}
