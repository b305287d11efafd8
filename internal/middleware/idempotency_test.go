package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"hr-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func setupIdempotencyTest(t *testing.T, userID string) (*gin.Engine, redismock.ClientMock, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rdb, mock := redismock.NewClientMock()

	handlerCalls := 0
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
	})
	r.POST("/leave-requests", middleware.Idempotency(rdb), func(c *gin.Context) {
		handlerCalls++
		c.JSON(http.StatusCreated, gin.H{"ok": true, "data": gin.H{"id": uuid.New().String()}})
	})
	return r, mock, &handlerCalls
}

func TestIdempotency(t *testing.T) {
	userID := uuid.New().String()

	t.Run("requests without a key pass through", func(t *testing.T) {
		router, mock, calls := setupIdempotencyTest(t, userID)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("first request locks, executes and caches", func(t *testing.T) {
		router, mock, calls := setupIdempotencyTest(t, userID)

		key := "abc-123"
		cacheKey := "idemp:/leave-requests:" + userID + ":" + key
		lockKey := cacheKey + ":lock"

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.Regexp().ExpectSet(cacheKey, `.*"status":201.*`, 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", key)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 1, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cached response is replayed without reaching the handler", func(t *testing.T) {
		router, mock, calls := setupIdempotencyTest(t, userID)

		key := "abc-123"
		cacheKey := "idemp:/leave-requests:" + userID + ":" + key

		cached, err := json.Marshal(map[string]any{
			"status": http.StatusCreated,
			"body":   map[string]any{"ok": true},
		})
		assert.NoError(t, err)
		mock.ExpectGet(cacheKey).SetVal(string(cached))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", key)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, 0, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected with 409", func(t *testing.T) {
		router, mock, calls := setupIdempotencyTest(t, userID)

		key := "abc-123"
		cacheKey := "idemp:/leave-requests:" + userID + ":" + key
		lockKey := cacheKey + ":lock"

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", strings.NewReader(`{}`))
		req.Header.Set("Idempotency-Key", key)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 0, *calls)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
