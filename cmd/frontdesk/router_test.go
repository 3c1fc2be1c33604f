package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-frontdesk/internal/common/cache"
	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
	"github.com/dumeirei/hotel-frontdesk/internal/common/crypto"
	"github.com/dumeirei/hotel-frontdesk/internal/common/database"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/metrics"
	"github.com/dumeirei/hotel-frontdesk/internal/models"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	crypto.SetBcryptCost(bcrypt.MinCost)
	cache.SetClient(nil)
	os.Exit(m.Run())
}

type apiResponse struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	engine *gin.Engine
	db     *gorm.DB
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	t.Chdir(t.TempDir())

	cfg, err := config.New("")
	require.NoError(t, err)
	cfg.RateLimit.Enabled = false
	cfg.Metrics.Path = "/metrics"
	cfg.JWT.Secret = "router-test-secret"

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	require.NoError(t, database.Seed(context.Background(), db, &cfg.Business.FrontDesk))

	engine := gin.New()
	setupRouter(engine, cfg, zap.NewNop(), db, nil, metrics.Init("router_test"))
	return &testServer{engine: engine, db: db}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var resp apiResponse
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func (s *testServer) login(t *testing.T, username, password string) string {
	t.Helper()
	w, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Privilege string `json:"privilege"`
		Token     struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"token"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	require.NotEmpty(t, data.Token.AccessToken)
	return data.Token.AccessToken
}

func (s *testServer) roomID(t *testing.T, number string) int64 {
	t.Helper()
	var room models.Room
	require.NoError(t, s.db.Where("number = ?", number).First(&room).Error)
	return room.ID
}

func (s *testServer) roomStatus(t *testing.T, id int64) string {
	t.Helper()
	var room models.Room
	require.NoError(t, s.db.First(&room, id).Error)
	return room.Status
}

func TestHealthEndpoints(t *testing.T) {
	s := setupTestServer(t)

	t.Run("健康检查", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"ok"`)
	})

	t.Run("就绪检查_未启用Redis", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/ready", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"redis":"disabled"`)
		assert.Contains(t, w.Body.String(), `"database":"ok"`)
	})

	t.Run("指标端点", func(t *testing.T) {
		s.do(t, http.MethodGet, "/ping", "", nil)
		w, _ := s.do(t, http.MethodGet, "/metrics", "", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "router_test_http_requests_total")
	})

	t.Run("未知路由", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAuthFlow(t *testing.T) {
	s := setupTestServer(t)

	t.Run("默认管理员登录", func(t *testing.T) {
		token := s.login(t, "admin", "1234")

		w, resp := s.do(t, http.MethodGet, "/api/v1/auth/profile", token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(resp.Data), models.PrivilegeAdministrator)
	})

	t.Run("密码错误", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{
			"username": "admin",
			"password": "wrong",
		})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, errors.ErrPasswordError.Code, resp.Code)
	})

	t.Run("未登录访问受保护接口", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, "/api/v1/rooms", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("普通员工不能访问管理接口", func(t *testing.T) {
		adminToken := s.login(t, "admin", "1234")
		w, _ := s.do(t, http.MethodPost, "/api/v1/admin/employees", adminToken, gin.H{
			"name":      "María",
			"surname":   "López",
			"position":  "Recepcionista",
			"username":  "maria",
			"password":  "secreto",
			"privilege": models.PrivilegeEmployee,
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		staffToken := s.login(t, "maria", "secreto")

		w, _ = s.do(t, http.MethodGet, "/api/v1/rooms", staffToken, nil)
		assert.Equal(t, http.StatusOK, w.Code)

		w, _ = s.do(t, http.MethodGet, "/api/v1/admin/employees", staffToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w, _ = s.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/rooms/%d", s.roomID(t, "101")), staffToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestReservationFlow(t *testing.T) {
	s := setupTestServer(t)
	token := s.login(t, "admin", "1234")
	roomID := s.roomID(t, "201")

	var created struct {
		ID            int64   `json:"id"`
		ReservationNo string  `json:"reservation_no"`
		Nights        int     `json:"nights"`
		Total         float64 `json:"total"`
		Status        string  `json:"status"`
	}

	t.Run("创建预订", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, "/api/v1/reservations", token, gin.H{
			"guest": gin.H{
				"name":    "Juan",
				"surname": "Pérez",
				"phone":   "5512345678",
			},
			"room_id":   roomID,
			"check_in":  "2024-01-01",
			"check_out": "2024-01-04",
		})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		require.NoError(t, json.Unmarshal(resp.Data, &created))

		assert.Equal(t, 3, created.Nights)
		assert.Equal(t, 4500.0, created.Total)
		assert.Equal(t, models.ReservationStatusActive, created.Status)
		assert.True(t, strings.HasPrefix(created.ReservationNo, "R"))
		assert.Equal(t, models.RoomStatusOccupied, s.roomStatus(t, roomID))
	})

	t.Run("房间已占用不能重复预订", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, "/api/v1/reservations", token, gin.H{
			"guest_id":  1,
			"room_id":   roomID,
			"check_in":  "2024-02-01",
			"check_out": "2024-02-02",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, errors.ErrRoomNotAvailable.Code, resp.Code)
	})

	t.Run("入住日期不早于退房日期", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, "/api/v1/reservations", token, gin.H{
			"guest_id":  1,
			"room_id":   s.roomID(t, "202"),
			"check_in":  "2024-01-04",
			"check_out": "2024-01-04",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, errors.ErrInvalidDateRange.Code, resp.Code)
	})

	t.Run("确认单二维码", func(t *testing.T) {
		w, _ := s.do(t, http.MethodGet, fmt.Sprintf("/api/v1/reservations/%d/qrcode", created.ID), token, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
		assert.NotEmpty(t, w.Body.Bytes())
	})

	t.Run("退房", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/checkout", created.ID), token, nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Contains(t, string(resp.Data), models.ReservationStatusFinalized)
		assert.Equal(t, models.RoomStatusCleaning, s.roomStatus(t, roomID))
	})

	t.Run("已退房的预订不能取消", func(t *testing.T) {
		w, resp := s.do(t, http.MethodPost, fmt.Sprintf("/api/v1/reservations/%d/cancel", created.ID), token, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, errors.ErrReservationNotActive.Code, resp.Code)
	})

	t.Run("看板统计", func(t *testing.T) {
		w, resp := s.do(t, http.MethodGet, "/api/v1/admin/dashboard/stats", token, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var stats struct {
			Cleaning           int64 `json:"cleaning"`
			ActiveReservations int64 `json:"active_reservations"`
			Guests             int64 `json:"guests"`
		}
		require.NoError(t, json.Unmarshal(resp.Data, &stats))
		assert.Equal(t, int64(2), stats.Cleaning)
		assert.Equal(t, int64(0), stats.ActiveReservations)
		assert.Equal(t, int64(1), stats.Guests)
	})

	t.Run("预订不存在", func(t *testing.T) {
		w, resp := s.do(t, http.MethodGet, "/api/v1/reservations/999", token, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, errors.ErrReservationNotFound.Code, resp.Code)
	})
}
