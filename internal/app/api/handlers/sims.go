package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/nusatel/simfleet/internal/app/api/middleware"
	"github.com/nusatel/simfleet/internal/app/service/lifecycle"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/response"
)

// dateFormat is the wire format for civil dates. Full RFC3339 timestamps are
// accepted too; the time-of-day part is dropped on normalization.
const dateFormat = "2006-01-02"

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.ParseInLocation(dateFormat, s, calendar.Location); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}

func parseDatePtr(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := parseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// writeServiceError maps service errors onto the response envelope. Domain
// rejections (validation, transitions, conflicts) are client errors; anything
// else is a server error.
func writeServiceError(c *gin.Context, err error) {
	var ve *lifecycle.ValidationError
	var te *lifecycle.TransitionError
	switch {
	case errors.As(err, &ve), errors.As(err, &te),
		errors.Is(err, lifecycle.ErrSimNotFound),
		errors.Is(err, lifecycle.ErrPhoneNumberTaken),
		errors.Is(err, lifecycle.ErrIMEIOccupied):
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
	default:
		c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
	}
}

type createSimRequest struct {
	PhoneNumber     string          `json:"phone_number"`
	ICCID           *string         `json:"iccid"`
	Provider        string          `json:"provider"`
	MonthlyCost     decimal.Decimal `json:"monthly_cost"`
	FreePulsaMonths int             `json:"free_pulsa_months"`
	BillingCycleDay *int            `json:"billing_cycle_day"`
	CurrentIMEI     *string         `json:"current_imei"`
	CustomerID      *string         `json:"customer_id"`
	Notes           string          `json:"notes"`
}

// @Summary      Create SIM
// @Description  Registers a new SIM card in WAREHOUSE status.
// @Tags         Sims
// @Accept       json
// @Produce      json
// @Param        request body createSimRequest true "SIM creation request"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims [post]
func ApiCreateSim(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sim, err := svc.Create(c.Request.Context(), lifecycle.CreateInput{
			PhoneNumber:     req.PhoneNumber,
			ICCID:           req.ICCID,
			Provider:        req.Provider,
			MonthlyCost:     req.MonthlyCost,
			FreePulsaMonths: req.FreePulsaMonths,
			BillingCycleDay: req.BillingCycleDay,
			CurrentIMEI:     req.CurrentIMEI,
			CustomerID:      req.CustomerID,
			Notes:           req.Notes,
		}, middleware.Actor(c))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

// @Summary      Get SIM
// @Tags         Sims
// @Produce      json
// @Param        id path string true "SIM ID"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims/{id} [get]
func ApiGetSim(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sim, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

// @Summary      List SIMs
// @Tags         Sims
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.SimCard]
// @Router       /api/v1/sims [get]
func ApiListSims(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sims, err := svc.List(c.Request.Context())
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sims))
	}
}

type activateSimRequest struct {
	ActivationDate string `json:"activation_date" binding:"required"`
}

// @Summary      Activate SIM
// @Tags         Lifecycle
// @Accept       json
// @Produce      json
// @Param        id path string true "SIM ID"
// @Param        request body activateSimRequest true "Activation request"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims/{id}/activate [post]
func ApiActivateSim(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req activateSimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		date, err := parseDate(req.ActivationDate)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sim, err := svc.Activate(c.Request.Context(), c.Param("id"), date, middleware.Actor(c))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

type installSimRequest struct {
	InstallationDate             string  `json:"installation_date" binding:"required"`
	IMEI                         string  `json:"imei" binding:"required"`
	FreePulsaMonths              *int    `json:"free_pulsa_months"`
	BillingCycleDay              *int    `json:"billing_cycle_day"`
	UseInstallDateAsBillingCycle bool    `json:"use_install_date_as_billing_cycle"`
	CustomerID                   *string `json:"customer_id"`
}

// @Summary      Install SIM
// @Description  Installs a SIM on a device. Any other live SIM holding the IMEI is auto-deactivated in the same transaction.
// @Tags         Lifecycle
// @Accept       json
// @Produce      json
// @Param        id path string true "SIM ID"
// @Param        request body installSimRequest true "Installation request"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims/{id}/install [post]
func ApiInstallSim(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req installSimRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		date, err := parseDate(req.InstallationDate)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sim, err := svc.Install(c.Request.Context(), c.Param("id"), lifecycle.InstallInput{
			Date:                         date,
			IMEI:                         req.IMEI,
			FreePulsaMonths:              req.FreePulsaMonths,
			BillingCycleDay:              req.BillingCycleDay,
			UseInstallDateAsBillingCycle: req.UseInstallDateAsBillingCycle,
			CustomerID:                   req.CustomerID,
		}, middleware.Actor(c))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

type gracePeriodRequest struct {
	StartDate string  `json:"start_date" binding:"required"`
	DueDate   *string `json:"due_date"`
}

// @Summary      Enter Grace Period
// @Tags         Lifecycle
// @Accept       json
// @Produce      json
// @Param        id path string true "SIM ID"
// @Param        request body gracePeriodRequest true "Grace period request"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims/{id}/grace-period [post]
func ApiEnterGracePeriod(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req gracePeriodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		start, err := parseDate(req.StartDate)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		due, err := parseDatePtr(req.DueDate)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sim, err := svc.EnterGracePeriod(c.Request.Context(), c.Param("id"), start, due, middleware.Actor(c))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

type reactivateRequest struct {
	ActivationDate *string `json:"activation_date"`
}

// @Summary      Reactivate SIM from Grace Period
// @Tags         Lifecycle
// @Accept       json
// @Produce      json
// @Param        id path string true "SIM ID"
// @Param        request body reactivateRequest false "Reactivation request"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims/{id}/reactivate [post]
func ApiReactivateSim(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req reactivateRequest
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		date, err := parseDatePtr(req.ActivationDate)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sim, err := svc.ReactivateFromGracePeriod(c.Request.Context(), c.Param("id"), date, middleware.Actor(c))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

// @Summary      Mark SIM as Billing
// @Tags         Lifecycle
// @Produce      json
// @Param        id path string true "SIM ID"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims/{id}/billing [post]
func ApiMarkBilling(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sim, err := svc.MarkBilling(c.Request.Context(), c.Param("id"), middleware.Actor(c))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

type deactivateRequest struct {
	DeactivationDate string `json:"deactivation_date" binding:"required"`
	Reason           string `json:"reason"`
}

// @Summary      Deactivate SIM
// @Tags         Lifecycle
// @Accept       json
// @Produce      json
// @Param        id path string true "SIM ID"
// @Param        request body deactivateRequest true "Deactivation request"
// @Success      200  {object}  response.APIResponse[models.SimCard]
// @Router       /api/v1/sims/{id}/deactivate [post]
func ApiDeactivateSim(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req deactivateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		date, err := parseDate(req.DeactivationDate)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		sim, err := svc.Deactivate(c.Request.Context(), c.Param("id"), date, req.Reason, middleware.Actor(c))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(sim))
	}
}

// @Summary      SIM Burden
// @Description  Returns the overlap-1/overlap-2 cost picture for a SIM.
// @Tags         Costs
// @Produce      json
// @Param        id path string true "SIM ID"
// @Success      200  {object}  response.APIResponse[burden.DailyBurden]
// @Router       /api/v1/sims/{id}/burden [get]
func ApiSimBurden(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		b, err := svc.Burden(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(b))
	}
}

// @Summary      SIM Grace Period Cost
// @Tags         Costs
// @Produce      json
// @Param        id path string true "SIM ID"
// @Success      200  {object}  response.APIResponse[burden.GracePeriodCost]
// @Router       /api/v1/sims/{id}/grace-cost [get]
func ApiSimGraceCost(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		g, err := svc.GraceCost(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(g))
	}
}

// @Summary      SIM Free Pulsa Cost
// @Tags         Costs
// @Produce      json
// @Param        id path string true "SIM ID"
// @Success      200  {object}  response.APIResponse[burden.FreePulsaCost]
// @Router       /api/v1/sims/{id}/free-pulsa [get]
func ApiSimFreePulsa(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		f, err := svc.FreePulsa(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(f))
	}
}

// @Summary      SIM Status History
// @Tags         Sims
// @Produce      json
// @Param        id path string true "SIM ID"
// @Success      200  {object}  response.APIResponse[[]models.StatusHistory]
// @Router       /api/v1/sims/{id}/history [get]
func ApiSimHistory(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.History(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

func RegisterSimRoutes(r gin.IRouter, svc *lifecycle.Service) {
	r.GET("/sims", ApiListSims(svc))
	r.POST("/sims", ApiCreateSim(svc))
	r.GET("/sims/:id", ApiGetSim(svc))
	r.GET("/sims/:id/history", ApiSimHistory(svc))
	r.GET("/sims/:id/burden", ApiSimBurden(svc))
	r.GET("/sims/:id/grace-cost", ApiSimGraceCost(svc))
	r.GET("/sims/:id/free-pulsa", ApiSimFreePulsa(svc))

	r.POST("/sims/:id/activate", ApiActivateSim(svc))
	r.POST("/sims/:id/install", ApiInstallSim(svc))
	r.POST("/sims/:id/grace-period", ApiEnterGracePeriod(svc))
	r.POST("/sims/:id/reactivate", ApiReactivateSim(svc))
	r.POST("/sims/:id/billing", ApiMarkBilling(svc))
	r.POST("/sims/:id/deactivate", ApiDeactivateSim(svc))
}
