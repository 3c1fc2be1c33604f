package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// readyTimeout 单次就绪检查的总超时
const readyTimeout = 3 * time.Second

// HealthResponse /health 与 /ready 的响应体
type HealthResponse struct {
	Status    string            `json:"status"`
	Version   string            `json:"version"`
	Timestamp int64             `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// dependency 就绪检查项，check 为 nil 表示未启用
type dependency struct {
	name  string
	check func(ctx context.Context) error
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok", Version: version, Timestamp: time.Now().Unix()})
}

func pingHandler(c *gin.Context) {
	c.String(http.StatusOK, "pong")
}

// readyHandler 数据库必检，Redis 未启用时记为 disabled
func readyHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	deps := []dependency{{name: "database", check: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}}

	redisDep := dependency{name: "redis"}
	if redisClient != nil {
		redisDep.check = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}
	deps = append(deps, redisDep)

	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()

		resp := HealthResponse{Status: "ready", Version: version, Checks: make(map[string]string, len(deps))}
		code := http.StatusOK
		for _, d := range deps {
			switch {
			case d.check == nil:
				resp.Checks[d.name] = "disabled"
			case d.check(ctx) != nil:
				resp.Checks[d.name] = "unavailable"
				resp.Status = "not ready"
				code = http.StatusServiceUnavailable
			default:
				resp.Checks[d.name] = "ok"
			}
		}
		resp.Timestamp = time.Now().Unix()
		c.JSON(code, resp)
	}
}
