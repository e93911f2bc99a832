package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nusatel/simfleet/internal/app/service/lifecycle"
	"github.com/nusatel/simfleet/internal/store"
	"github.com/nusatel/simfleet/pkg/calendar"
	"github.com/nusatel/simfleet/pkg/config"
	"github.com/nusatel/simfleet/pkg/response"
)

func newTestRouter() (*gin.Engine, *lifecycle.Service) {
	gin.SetMode(gin.TestMode)
	svc := lifecycle.NewService(&config.Config{}, store.NewMemory(), zap.NewNop().Sugar())
	r := gin.New()
	RegisterSimRoutes(r.Group("/api/v1"), svc)
	return r, svc
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterSimRoutes_RegistersEndpoints(t *testing.T) {
	r, _ := newTestRouter()

	routes := r.Routes()
	contains := func(target string) bool {
		for _, rt := range routes {
			if rt.Method+" "+rt.Path == target {
				return true
			}
		}
		return false
	}

	require.True(t, contains("GET /api/v1/sims"))
	require.True(t, contains("POST /api/v1/sims"))
	require.True(t, contains("POST /api/v1/sims/:id/activate"))
	require.True(t, contains("POST /api/v1/sims/:id/install"))
	require.True(t, contains("POST /api/v1/sims/:id/grace-period"))
	require.True(t, contains("POST /api/v1/sims/:id/reactivate"))
	require.True(t, contains("POST /api/v1/sims/:id/billing"))
	require.True(t, contains("POST /api/v1/sims/:id/deactivate"))
	require.True(t, contains("GET /api/v1/sims/:id/burden"))
	require.True(t, contains("GET /api/v1/sims/:id/grace-cost"))
	require.True(t, contains("GET /api/v1/sims/:id/free-pulsa"))
	require.True(t, contains("GET /api/v1/sims/:id/history"))
}

func TestCreateAndActivateSim_EndToEnd(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodPost, "/api/v1/sims", gin.H{
		"phone_number": "0811111111",
		"provider":     "Telkomsel",
		"monthly_cost": "150000",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var created struct {
		Code response.APIResponseCode `json:"code"`
		Data struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.Equal(t, response.APIResponseCodeOK, created.Code)
	require.Equal(t, "WAREHOUSE", created.Data.Status)

	w = doJSON(t, r, http.MethodPost, "/api/v1/sims/"+created.Data.ID+"/activate", gin.H{
		"activation_date": "2026-01-15",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var activated struct {
		Code response.APIResponseCode `json:"code"`
		Data struct {
			Status         string     `json:"status"`
			ActivationDate *time.Time `json:"activation_date"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &activated))
	require.Equal(t, response.APIResponseCodeOK, activated.Code)
	require.Equal(t, "ACTIVATED", activated.Data.Status)
	require.NotNil(t, activated.Data.ActivationDate)
	require.Equal(t,
		time.Date(2026, time.January, 15, 0, 0, 0, 0, calendar.Location).Format("2006-01-02"),
		activated.Data.ActivationDate.In(calendar.Location).Format("2006-01-02"))
}

func TestCreateSim_BadDateRejected(t *testing.T) {
	r, svc := newTestRouter()

	sim, err := svc.Create(
		httptest.NewRequest(http.MethodGet, "/", nil).Context(),
		lifecycle.CreateInput{PhoneNumber: "0811111111"},
		"tester")
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodPost, "/api/v1/sims/"+sim.ID+"/activate", gin.H{
		"activation_date": "January 15th",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code response.APIResponseCode `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, response.APIResponseCodeBadRequest, resp.Code)
}

func TestGetSim_NotFound(t *testing.T) {
	r, _ := newTestRouter()

	w := doJSON(t, r, http.MethodGet, "/api/v1/sims/missing", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Code response.APIResponseCode `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Equal(t, response.APIResponseCodeBadRequest, resp.Code)
}
