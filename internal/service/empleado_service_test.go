package service

import (
	"context"
	"testing"
	"time"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearEmpleadoSinPagosPrevios(t *testing.T) {
	repo := newStubEmpleadoRepo()
	svc := NewEmpleadoService(repo)

	resp, err := svc.Crear(context.Background(), dto.CrearEmpleadoRequest{
		Nombre:         "Carla",
		SalarioSemanal: decimal.NewFromInt(900),
	})
	require.NoError(t, err)

	assert.Equal(t, "Carla", resp.Nombre)
	assert.Equal(t, "Empleado", resp.Puesto) // puesto por defecto
	assert.Nil(t, resp.UltimoPago)
	assert.True(t, resp.TotalPagado.IsZero())

	id := uuid.MustParse(resp.ID)
	e, err := repo.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, e.UltimoPago)
	assert.True(t, e.ProximoPago.After(time.Now().AddDate(0, 0, 6)))
}

func TestActualizarEmpleadoSalario(t *testing.T) {
	repo := newStubEmpleadoRepo()
	svc := NewEmpleadoService(repo)

	resp, err := svc.Crear(context.Background(), dto.CrearEmpleadoRequest{
		Nombre:         "Dario",
		Puesto:         "Cajero",
		SalarioSemanal: decimal.NewFromInt(700),
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	nuevo := decimal.NewFromInt(850)
	actualizado, err := svc.Actualizar(context.Background(), id, dto.ActualizarEmpleadoRequest{
		SalarioSemanal: &nuevo,
	})
	require.NoError(t, err)
	assert.True(t, actualizado.SalarioSemanal.Equal(nuevo))
	assert.Equal(t, "Cajero", actualizado.Puesto) // campos no enviados no cambian
}

func TestEliminarEmpleadoLoExcluyeDeLaNomina(t *testing.T) {
	repo := newStubEmpleadoRepo()
	svc := NewEmpleadoService(repo)

	resp, err := svc.Crear(context.Background(), dto.CrearEmpleadoRequest{
		Nombre:         "Elena",
		SalarioSemanal: decimal.NewFromInt(600),
	})
	require.NoError(t, err)
	id := uuid.MustParse(resp.ID)

	require.NoError(t, svc.Eliminar(context.Background(), id))

	lista, err := svc.Listar(context.Background())
	require.NoError(t, err)
	assert.Empty(t, lista)
}

func TestActualizarEmpleadoInexistente(t *testing.T) {
	svc := NewEmpleadoService(newStubEmpleadoRepo())
	_, err := svc.Actualizar(context.Background(), uuid.New(), dto.ActualizarEmpleadoRequest{Nombre: "X"})
	assert.Error(t, err)
}
