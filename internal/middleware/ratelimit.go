// Package middleware 提供 HTTP 中间件
package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"github.com/dumeirei/hotel-frontdesk/internal/common/cache"
	"github.com/dumeirei/hotel-frontdesk/internal/common/errors"
	"github.com/dumeirei/hotel-frontdesk/internal/common/response"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	RedisClient *redis.Client
	KeyPrefix   string                    // Redis 键前缀
	Limit       int                       // 窗口内允许的次数
	Window      time.Duration             // 时间窗口
	KeyFunc     func(*gin.Context) string // 自定义键生成函数
	Message     string
}

// RateLimit 基于 Redis 固定窗口的限流中间件
func RateLimit(config *RateLimitConfig) gin.HandlerFunc {
	message := config.Message
	if message == "" {
		message = "请求过于频繁，请稍后再试"
	}

	return func(c *gin.Context) {
		var key string
		if config.KeyFunc != nil {
			key = config.KeyPrefix + config.KeyFunc(c)
		} else {
			key = config.KeyPrefix + c.ClientIP()
		}

		ctx := c.Request.Context()

		count, err := config.RedisClient.Incr(ctx, key).Result()
		if err != nil {
			// Redis 错误时放行
			c.Next()
			return
		}

		// 首次请求设置过期时间
		if count == 1 {
			config.RedisClient.Expire(ctx, key, config.Window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))

		if int(count) > config.Limit {
			ttl, _ := config.RedisClient.TTL(ctx, key).Result()
			if ttl < 0 {
				ttl = config.Window
			}
			c.Header("X-RateLimit-Remaining", "0")
			c.Header("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(ttl).Unix(), 10))
			c.Header("Retry-After", strconv.Itoa(int(ttl.Seconds())))

			tooManyRequests(c, message)
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(config.Limit-int(count)))
		c.Next()
	}
}

// LocalLimiter 进程内令牌桶限流器，按键分别限流
type LocalLimiter struct {
	mu       sync.Mutex
	limiters map[string]*localEntry
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter 创建进程内限流器
func NewLocalLimiter(limit rate.Limit, burst int) *LocalLimiter {
	if burst < 1 {
		burst = 1
	}
	return &LocalLimiter{
		limiters: make(map[string]*localEntry),
		limit:    limit,
		burst:    burst,
		ttl:      10 * time.Minute,
	}
}

// Allow 判断键是否允许通过
func (l *LocalLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	entry, ok := l.limiters[key]
	if !ok {
		// 键过多时清理长时间未访问的条目
		if len(l.limiters) >= 10000 {
			for k, e := range l.limiters {
				if now.Sub(e.lastSeen) > l.ttl {
					delete(l.limiters, k)
				}
			}
		}
		entry = &localEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now
	return entry.limiter.Allow()
}

// LocalRateLimit 进程内限流中间件
func LocalRateLimit(limiter *LocalLimiter, keyFunc func(*gin.Context) string, message string) gin.HandlerFunc {
	if message == "" {
		message = "请求过于频繁，请稍后再试"
	}
	return func(c *gin.Context) {
		key := c.ClientIP()
		if keyFunc != nil {
			key = keyFunc(c)
		}
		if !limiter.Allow(key) {
			tooManyRequests(c, message)
			return
		}
		c.Next()
	}
}

// APIRateLimit API 接口限流，Redis 可用时按秒级固定窗口，否则使用进程内令牌桶
func APIRateLimit(redisClient *redis.Client, requestsPerSecond, burst int) gin.HandlerFunc {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 20
	}
	if burst < requestsPerSecond {
		burst = requestsPerSecond
	}

	keyFunc := func(c *gin.Context) string {
		if employeeID := GetEmployeeID(c); employeeID > 0 {
			return fmt.Sprintf("api:employee:%d", employeeID)
		}
		return "api:ip:" + c.ClientIP()
	}

	if redisClient == nil {
		return LocalRateLimit(NewLocalLimiter(rate.Limit(requestsPerSecond), burst), keyFunc, "")
	}
	return RateLimit(&RateLimitConfig{
		RedisClient: redisClient,
		KeyPrefix:   cache.KeyPrefixRateLimit,
		Limit:       burst,
		Window:      time.Second,
		KeyFunc:     keyFunc,
	})
}

// LoginRateLimit 登录限流，按客户端 IP 每分钟限制次数
func LoginRateLimit(redisClient *redis.Client, perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		perMinute = 10
	}
	const message = "登录尝试过于频繁，请稍后再试"

	if redisClient == nil {
		limiter := NewLocalLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
		return LocalRateLimit(limiter, nil, message)
	}
	return RateLimit(&RateLimitConfig{
		RedisClient: redisClient,
		KeyPrefix:   cache.KeyPrefixLogin,
		Limit:       perMinute,
		Window:      time.Minute,
		Message:     message,
	})
}

func tooManyRequests(c *gin.Context, message string) {
	response.ErrorWithStatus(c, http.StatusTooManyRequests, errors.ErrRateLimitExceed.Code, message)
}
