package leave_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hr-leave/internal/leave"
	leaveerrors "hr-leave/internal/leave/errors"

	balanceerrors "hr-leave/internal/balance/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	createFn            func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	updateFn            func(ctx context.Context, id, userID string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error)
	reviewFn            func(ctx context.Context, id, reviewerID string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error)
	cancelFn            func(ctx context.Context, id, userID string) error
	getAllFn            func(ctx context.Context) ([]leave.LeaveResponse, error)
	getByIDFn           func(ctx context.Context, id string) (leave.LeaveResponse, error)
	getByUserFn         func(ctx context.Context, userID string) ([]leave.LeaveResponse, error)
	getByManagerFn      func(ctx context.Context, managerID string) ([]leave.LeaveResponse, error)
	getPendingByManager func(ctx context.Context, managerID string) ([]leave.LeaveResponse, error)
}

func (f *fakeLeaveService) Create(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.createFn(ctx, userID, req)
}

func (f *fakeLeaveService) Update(ctx context.Context, id, userID string, req leave.UpdateLeaveRequest) (leave.LeaveResponse, error) {
	return f.updateFn(ctx, id, userID, req)
}

func (f *fakeLeaveService) Review(ctx context.Context, id, reviewerID string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
	return f.reviewFn(ctx, id, reviewerID, req)
}

func (f *fakeLeaveService) Cancel(ctx context.Context, id, userID string) error {
	return f.cancelFn(ctx, id, userID)
}

func (f *fakeLeaveService) GetAll(ctx context.Context) ([]leave.LeaveResponse, error) {
	return f.getAllFn(ctx)
}

func (f *fakeLeaveService) GetByID(ctx context.Context, id string) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, id)
}

func (f *fakeLeaveService) GetByUser(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
	return f.getByUserFn(ctx, userID)
}

func (f *fakeLeaveService) GetByManager(ctx context.Context, managerID string) ([]leave.LeaveResponse, error) {
	return f.getByManagerFn(ctx, managerID)
}

func (f *fakeLeaveService) GetPendingByManager(ctx context.Context, managerID string) ([]leave.LeaveResponse, error) {
	return f.getPendingByManager(ctx, managerID)
}

func newLeaveRouter(svc leave.Service, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Set("role", "EMPLOYEE")
	})

	h := leave.NewHandler(svc)
	r.POST("/leave-requests", h.Create)
	r.GET("/leave-requests", h.GetAll)
	r.GET("/leave-requests/mine", h.GetMine)
	r.GET("/leave-requests/:id", h.GetByID)
	r.PUT("/leave-requests/:id", h.Update)
	r.POST("/leave-requests/:id/review", h.Review)
	r.POST("/leave-requests/:id/cancel", h.Cancel)
	return r
}

func TestLeaveHandler_Create(t *testing.T) {
	actorID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, uid)
				assert.Equal(t, "ANNUAL", req.Type)
				return leave.LeaveResponse{
					ID:     uuid.New().String(),
					UserID: uid,
					Type:   req.Type,
					Days:   req.Days,
					Status: leave.StatusPending,
				}, nil
			},
		}
		router := newLeaveRouter(svc, actorID)

		body := `{"type":"ANNUAL","start_date":"2026-10-05","end_date":"2026-10-09","days":5,"reason":"Family event"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("missing fields fail binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be reached on binding failure")
				return leave.LeaveResponse{}, nil
			},
		}
		router := newLeaveRouter(svc, actorID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{"type":"ANNUAL"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
	})

	t.Run("insufficient balance maps to 422", func(t *testing.T) {
		svc := &fakeLeaveService{
			createFn: func(ctx context.Context, uid string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, balanceerrors.ErrInsufficientBalance
			},
		}
		router := newLeaveRouter(svc, actorID)

		body := `{"type":"ANNUAL","start_date":"2026-10-05","end_date":"2026-10-09","days":30,"reason":"Long trip"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "INSUFFICIENT_BALANCE", env.Error.Code)
	})
}

func TestLeaveHandler_Review(t *testing.T) {
	actorID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("approve", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, id, reviewerID string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, requestID, id)
				assert.Equal(t, actorID, reviewerID)
				assert.Equal(t, "APPROVED", req.Decision)
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		router := newLeaveRouter(svc, actorID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests/"+requestID+"/review",
			strings.NewReader(`{"decision":"APPROVED","comments":"ok"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("decision outside the enum fails binding", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, id, reviewerID string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				t.Fatal("service must not be reached on binding failure")
				return leave.LeaveResponse{}, nil
			},
		}
		router := newLeaveRouter(svc, actorID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests/"+requestID+"/review",
			strings.NewReader(`{"decision":"CANCELLED"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("already decided maps to 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			reviewFn: func(ctx context.Context, id, reviewerID string, req leave.ReviewLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrNotPending
			},
		}
		router := newLeaveRouter(svc, actorID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests/"+requestID+"/review",
			strings.NewReader(`{"decision":"REJECTED"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestLeaveHandler_Cancel(t *testing.T) {
	actorID := uuid.New().String()
	requestID := uuid.New().String()

	t.Run("success", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, id, userID string) error {
				assert.Equal(t, requestID, id)
				assert.Equal(t, actorID, userID)
				return nil
			},
		}
		router := newLeaveRouter(svc, actorID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests/"+requestID+"/cancel", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
	})

	t.Run("already started maps to 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, id, userID string) error {
				return leaveerrors.ErrAlreadyStarted
			},
		}
		router := newLeaveRouter(svc, actorID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests/"+requestID+"/cancel", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("foreign request maps to 403", func(t *testing.T) {
		svc := &fakeLeaveService{
			cancelFn: func(ctx context.Context, id, userID string) error {
				return leaveerrors.ErrNotRequestOwner
			},
		}
		router := newLeaveRouter(svc, actorID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests/"+requestID+"/cancel", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestLeaveHandler_GetMine(t *testing.T) {
	actorID := uuid.New().String()

	svc := &fakeLeaveService{
		getByUserFn: func(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
			assert.Equal(t, actorID, userID)
			return []leave.LeaveResponse{{ID: uuid.New().String(), UserID: userID}}, nil
		},
	}
	router := newLeaveRouter(svc, actorID)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/leave-requests/mine", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	assert.True(t, env.Ok)

	var list []leave.LeaveResponse
	assert.NoError(t, json.Unmarshal(env.Data, &list))
	assert.Len(t, list, 1)
}
