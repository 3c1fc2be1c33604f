package middleware

import (
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
)

// 默认不记录的探活路径
var probePaths = []string{"/health", "/ping", "/ready"}

// AccessLog 访问日志中间件，skipPaths 追加到探活路径之后
// 不记录请求体，客人资料与密码只出现在请求体中
func AccessLog(log *zap.Logger, skipPaths ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(probePaths)+len(skipPaths))
	for _, p := range append(probePaths, skipPaths...) {
		if p != "" {
			skip[p] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			logger.RequestID(GetRequestID(c)),
			logger.Method(c.Request.Method),
			logger.Path(path),
			logger.StatusCode(status),
			logger.Latency(time.Since(start)),
			logger.IP(c.ClientIP()),
		}
		if query := redactQuery(c.Request.URL.Query()); query != "" {
			fields = append(fields, logger.String("query", query))
		}
		if id := GetEmployeeID(c); id > 0 {
			fields = append(fields,
				logger.EmployeeID(id),
				logger.String("username", GetUsername(c)),
				logger.String("privilege", GetPrivilege(c)),
			)
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logger.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			log.Error("HTTP Request", fields...)
		case status >= 400:
			log.Warn("HTTP Request", fields...)
		default:
			log.Info("HTTP Request", fields...)
		}
	}
}

// redactQuery 查询参数中的令牌不写入日志
func redactQuery(q url.Values) string {
	if q.Has("token") {
		q.Set("token", "***")
	}
	return q.Encode()
}
