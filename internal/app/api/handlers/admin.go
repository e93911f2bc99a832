package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nusatel/simfleet/internal/app/service/lifecycle"
	"github.com/nusatel/simfleet/internal/store"
	"github.com/nusatel/simfleet/pkg/response"
	"github.com/nusatel/simfleet/pkg/types"
)

type ListSimsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// @Summary      List SIMs (Admin)
// @Description  Paginated and filterable listing over the whole fleet.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body ListSimsRequest true "List request with filters, pagination, and sorting"
// @Success      200  {object}  response.APIResponse[store.ScanSimsResult]
// @Router       /api/v1/admin/list_sims [post]
func ApiAdminListSims(svc *lifecycle.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListSimsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := svc.ScanSims(c.Request.Context(), &store.ScanSimsRequest{
			Filters:   req.Filters,
			From:      req.From,
			Size:      req.Size,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
		})
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminRoutes(r gin.IRouter, svc *lifecycle.Service) {
	r.POST("/list_sims", ApiAdminListSims(svc))
}
