package handler

import (
	"errors"
	"net/http"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/apierror"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/dto"
	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type FinanzasHandler struct{ svc service.FinanzasService }

func NewFinanzasHandler(svc service.FinanzasService) *FinanzasHandler {
	return &FinanzasHandler{svc: svc}
}

// Resumen godoc
// @Summary      Resumen financiero
// @Description  Snapshot derivado de ventas completadas y gastos: ingresos, COGS, ganancias por período y efectivo disponible.
// @Tags         finanzas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.ResumenFinanciero
// @Failure      500  {object} apierror.APIError
// @Router       /v1/finanzas/resumen [get]
func (h *FinanzasHandler) Resumen(c *gin.Context) {
	resumen, err := h.svc.ObtenerResumen(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular el resumen financiero"))
		return
	}
	c.JSON(http.StatusOK, resumen)
}

// Alertas godoc
// @Summary      Alertas financieras activas
// @Description  Efectivo disponible bajo y ganancias mensuales negativas, en ese orden.
// @Tags         finanzas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array} dto.Alerta
// @Failure      500  {object} apierror.APIError
// @Router       /v1/finanzas/alertas [get]
func (h *FinanzasHandler) Alertas(c *gin.Context) {
	alertas, err := h.svc.Alertas(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al calcular alertas"))
		return
	}
	if alertas == nil {
		alertas = []dto.Alerta{}
	}
	c.JSON(http.StatusOK, alertas)
}

// ProcesarNomina godoc
// @Summary      Procesar nómina semanal
// @Description  Paga a todos los empleados activos en una sola operación atómica. Falla sin modificar nada si el efectivo no alcanza.
// @Tags         finanzas
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object} dto.NominaResponse
// @Failure      409  {object} apierror.APIError "Fondos insuficientes"
// @Failure      400  {object} apierror.APIError
// @Router       /v1/finanzas/nomina [post]
func (h *FinanzasHandler) ProcesarNomina(c *gin.Context) {
	resp, err := h.svc.ProcesarNomina(c.Request.Context())
	if err != nil {
		var fondosErr *service.FondosInsuficientesError
		if errors.As(err, &fondosErr) {
			c.JSON(http.StatusConflict, apierror.New(err.Error()))
			return
		}
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CrearGasto godoc
// @Summary      Registrar gasto administrativo
// @Tags         finanzas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CrearGastoRequest true "Detalle del gasto"
// @Success      201  {object} dto.GastoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /v1/finanzas/gastos [post]
func (h *FinanzasHandler) CrearGasto(c *gin.Context) {
	var req dto.CrearGastoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CrearGasto(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *FinanzasHandler) ListarGastos(c *gin.Context) {
	gastos, err := h.svc.ListarGastos(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Error al listar gastos"))
		return
	}
	c.JSON(http.StatusOK, gastos)
}

func (h *FinanzasHandler) EliminarGasto(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("ID invalido"))
		return
	}
	if err := h.svc.EliminarGasto(c.Request.Context(), id); err != nil {
		c.JSON(http.StatusNotFound, apierror.New(err.Error()))
		return
	}
	c.Status(http.StatusNoContent)
}
