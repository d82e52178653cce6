package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/askarbek/maintdesk/internal/model"
	"github.com/askarbek/maintdesk/internal/service"
)

type stubStores struct {
	requests  map[uuid.UUID]model.MaintenanceRequest
	equipment map[uuid.UUID]model.Equipment
	teams     map[uuid.UUID]model.MaintenanceTeam
}

func (s *stubStores) Create(_ context.Context, req *model.MaintenanceRequest) error {
	s.requests[req.ID] = *req
	return nil
}

func (s *stubStores) GetByID(_ context.Context, id uuid.UUID) (*model.MaintenanceRequest, error) {
	req, ok := s.requests[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &req, nil
}

func (s *stubStores) List(_ context.Context, _ model.RequestFilter) ([]model.MaintenanceRequest, error) {
	out := []model.MaintenanceRequest{}
	for _, req := range s.requests {
		out = append(out, req)
	}
	return out, nil
}

func (s *stubStores) ListOpenByEquipment(_ context.Context, _ uuid.UUID) ([]model.MaintenanceRequest, error) {
	return nil, nil
}

func (s *stubStores) ListPreventiveInRange(_ context.Context, _, _ time.Time) ([]model.MaintenanceRequest, error) {
	return nil, nil
}

func (s *stubStores) Update(_ context.Context, _ uuid.UUID, _ model.RequestUpdate) error {
	return nil
}

func (s *stubStores) ApplyStageChange(_ context.Context, change model.StageChange) (bool, error) {
	req, ok := s.requests[change.RequestID]
	if !ok || req.Stage != change.From {
		return false, nil
	}
	req.Stage = change.To
	req.CompletedAt = change.CompletedAt
	if change.DurationHours != nil {
		req.DurationHours = change.DurationHours
	}
	s.requests[change.RequestID] = req
	return true, nil
}

func (s *stubStores) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	req, ok := s.requests[id]
	if !ok || req.Stage != model.StageNew {
		return false, nil
	}
	delete(s.requests, id)
	return true, nil
}

type stubEquipment struct{ *stubStores }

func (s stubEquipment) GetByID(_ context.Context, id uuid.UUID) (*model.Equipment, error) {
	eq, ok := s.equipment[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &eq, nil
}

func (s stubEquipment) GetBySerial(_ context.Context, serial string) (*model.Equipment, error) {
	for _, eq := range s.equipment {
		if eq.SerialNumber == serial {
			return &eq, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTeams struct{ *stubStores }

func (s stubTeams) GetByID(_ context.Context, id uuid.UUID) (*model.MaintenanceTeam, error) {
	team, ok := s.teams[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &team, nil
}

type stubExporter struct{}

func (stubExporter) Generate(model.CalendarPage) ([]byte, error) { return []byte("xlsx"), nil }

type stubWorkOrder struct{}

func (stubWorkOrder) Generate(model.WorkOrderDocument) ([]byte, error) { return []byte("pdf"), nil }

func testPrincipal(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("principal", model.Principal{UserID: uuid.New(), Role: role})
		c.Next()
	}
}

func newTestServer(t *testing.T, role model.Role) (*gin.Engine, *stubStores) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	stores := &stubStores{
		requests:  map[uuid.UUID]model.MaintenanceRequest{},
		equipment: map[uuid.UUID]model.Equipment{},
		teams:     map[uuid.UUID]model.MaintenanceTeam{},
	}
	log := zerolog.Nop()
	requests := service.NewRequestService(stores, stubEquipment{stores}, stubTeams{stores}, stubExporter{}, stubWorkOrder{}, log)
	handler := NewHandler(requests, nil, nil, log)
	return NewRouter(handler, testPrincipal(role), "test", []string{"*"}), stores
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestUpdateRequestStatusEndpoint(t *testing.T) {
	router, stores := newTestServer(t, model.RoleAdmin)
	id := uuid.New()
	stores.requests[id] = model.MaintenanceRequest{ID: id, Subject: "x", RequestType: model.TypeCorrective, Stage: model.StageNew}

	t.Run("legal transition", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/requests/"+id.String()+"/status",
			gin.H{"stage": "IN_PROGRESS"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "IN_PROGRESS", resp["stage"])
	})

	t.Run("illegal transition reports allowed moves", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/requests/"+id.String()+"/status",
			gin.H{"stage": "NEW"})
		require.Equal(t, http.StatusBadRequest, rec.Code)

		var resp struct {
			Error        string   `json:"error"`
			CurrentStage string   `json:"current_stage"`
			TargetStage  string   `json:"target_stage"`
			Allowed      []string `json:"allowed"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "IN_PROGRESS", resp.CurrentStage)
		assert.Equal(t, "NEW", resp.TargetStage)
		assert.ElementsMatch(t, []string{"REPAIRED", "SCRAP"}, resp.Allowed)
		assert.Contains(t, resp.Error, "invalid status transition")
	})

	t.Run("repaired without duration", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/requests/"+id.String()+"/status",
			gin.H{"stage": "REPAIRED"})
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "duration hours")
	})

	t.Run("unknown request", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/requests/"+uuid.NewString()+"/status",
			gin.H{"stage": "IN_PROGRESS"})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPatch, "/api/v1/requests/not-a-uuid/status",
			gin.H{"stage": "IN_PROGRESS"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestCreateRequestEndpoint(t *testing.T) {
	router, stores := newTestServer(t, model.RoleManager)
	eq := model.Equipment{ID: uuid.New(), Name: "Mill", SerialNumber: "M-1", Category: "Machining"}
	scrapped := model.Equipment{ID: uuid.New(), Name: "Old press", SerialNumber: "P-9", IsScrapped: true}
	stores.equipment[eq.ID] = eq
	stores.equipment[scrapped.ID] = scrapped

	t.Run("created", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/requests", gin.H{
			"subject":      "Chip conveyor jam",
			"request_type": "CORRECTIVE",
			"equipment_id": eq.ID.String(),
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var resp map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "NEW", resp["stage"])
		assert.Equal(t, eq.Category, resp["category"])
	})

	t.Run("scrapped equipment", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/requests", gin.H{
			"subject":      "Anything",
			"request_type": "CORRECTIVE",
			"equipment_id": scrapped.ID.String(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "scrapped")
	})

	t.Run("unknown equipment", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/requests", gin.H{
			"subject":      "Anything",
			"request_type": "CORRECTIVE",
			"equipment_id": uuid.NewString(),
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("past scheduled date", func(t *testing.T) {
		yesterday := time.Now().UTC().AddDate(0, 0, -1).Format("2006-01-02")
		rec := doJSON(t, router, http.MethodPost, "/api/v1/requests", gin.H{
			"subject":        "Anything",
			"request_type":   "PREVENTIVE",
			"equipment_id":   eq.ID.String(),
			"scheduled_date": yesterday,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "past")
	})

	t.Run("missing subject rejected by binding", func(t *testing.T) {
		rec := doJSON(t, router, http.MethodPost, "/api/v1/requests", gin.H{
			"request_type": "CORRECTIVE",
			"equipment_id": eq.ID.String(),
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestDeleteRequestEndpoint(t *testing.T) {
	router, stores := newTestServer(t, model.RoleAdmin)
	fresh := uuid.New()
	started := uuid.New()
	stores.requests[fresh] = model.MaintenanceRequest{ID: fresh, Stage: model.StageNew}
	stores.requests[started] = model.MaintenanceRequest{ID: started, Stage: model.StageInProgress}

	rec := doJSON(t, router, http.MethodDelete, "/api/v1/requests/"+started.String(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "NEW")

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/requests/"+fresh.String(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/requests/"+fresh.String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCalendarEndpoint(t *testing.T) {
	router, _ := newTestServer(t, model.RoleTechnician)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/requests/calendar/view?month=13&year=2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/requests/calendar/view?month=abc&year=2026", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/requests/calendar/view?month=5&year=2027", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, float64(0), resp["count"])
}

func TestRoleEnforcement(t *testing.T) {
	router, stores := newTestServer(t, model.RoleEmployee)
	id := uuid.New()
	stores.requests[id] = model.MaintenanceRequest{ID: id, Stage: model.StageNew}

	// Employees may file requests but not move them through the workflow.
	rec := doJSON(t, router, http.MethodPatch, "/api/v1/requests/"+id.String()+"/status",
		gin.H{"stage": "IN_PROGRESS"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, router, http.MethodDelete, "/api/v1/requests/"+id.String(), nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
