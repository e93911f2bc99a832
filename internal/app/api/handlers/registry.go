package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nusatel/simfleet/internal/app/service/registry"
	"github.com/nusatel/simfleet/pkg/response"
)

// @Summary      Register Device
// @Tags         Registry
// @Accept       json
// @Produce      json
// @Param        request body registry.DeviceInput true "Device"
// @Success      200  {object}  response.APIResponse[models.Device]
// @Router       /api/v1/devices [post]
func ApiCreateDevice(svc *registry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registry.DeviceInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		d, err := svc.SaveDevice(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(d))
	}
}

// @Summary      List Devices
// @Tags         Registry
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Device]
// @Router       /api/v1/devices [get]
func ApiListDevices(svc *registry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.ListDevices(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

// @Summary      Register Customer
// @Tags         Registry
// @Accept       json
// @Produce      json
// @Param        request body registry.CustomerInput true "Customer"
// @Success      200  {object}  response.APIResponse[models.Customer]
// @Router       /api/v1/customers [post]
func ApiCreateCustomer(svc *registry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registry.CustomerInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		cust, err := svc.SaveCustomer(c.Request.Context(), req)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(cust))
	}
}

// @Summary      List Customers
// @Tags         Registry
// @Produce      json
// @Success      200  {object}  response.APIResponse[[]models.Customer]
// @Router       /api/v1/customers [get]
func ApiListCustomers(svc *registry.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rows, err := svc.ListCustomers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeError, err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(rows))
	}
}

func RegisterRegistryRoutes(r gin.IRouter, svc *registry.Service) {
	r.GET("/devices", ApiListDevices(svc))
	r.POST("/devices", ApiCreateDevice(svc))
	r.GET("/customers", ApiListCustomers(svc))
	r.POST("/customers", ApiCreateCustomer(svc))
}
