// Package logger 提供基于 zap 的结构化日志
package logger

import (
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dumeirei/hotel-frontdesk/internal/common/config"
)

// 输出目标
const (
	OutputStdout = "stdout"
	OutputFile   = "file"
	OutputBoth   = "both"
)

var (
	log   *zap.Logger
	sugar *zap.SugaredLogger
)

// Init 按配置初始化全局日志器
func Init(cfg *config.LoggerConfig) error {
	core := zapcore.NewCore(newEncoder(cfg.Format), newWriteSyncer(cfg), getLogLevel(cfg.Level))

	options := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Caller {
		options = append(options, zap.AddCaller(), zap.AddCallerSkip(1))
	}

	SetLogger(zap.New(core, options...))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     customTimeEncoder,
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

// newWriteSyncer 文件输出使用 lumberjack 按大小滚动
func newWriteSyncer(cfg *config.LoggerConfig) zapcore.WriteSyncer {
	var writers []zapcore.WriteSyncer

	toFile := cfg.FilePath != "" && (cfg.Output == OutputFile || cfg.Output == OutputBoth)
	if !toFile || cfg.Output == OutputBoth {
		writers = append(writers, zapcore.AddSync(os.Stdout))
	}
	if toFile {
		writers = append(writers, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}))
	}
	return zapcore.NewMultiWriteSyncer(writers...)
}

// SetLogger 替换全局日志器，测试中用于注入 observer
func SetLogger(l *zap.Logger) {
	log = l
	sugar = l.Sugar()
}

func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

// getLogLevel 无法识别的级别按 info 处理
func getLogLevel(level string) zapcore.Level {
	l, err := zapcore.ParseLevel(level)
	if err != nil || l < zapcore.DebugLevel || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return l
}

// GetLogger 获取全局日志器，未初始化时使用开发模式配置
func GetLogger() *zap.Logger {
	if log == nil {
		l, _ := zap.NewDevelopment()
		SetLogger(l)
	}
	return log
}

// GetSugar 获取 Sugar 日志器
func GetSugar() *zap.SugaredLogger {
	GetLogger()
	return sugar
}

// Sync 刷新缓冲
func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}

func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { GetLogger().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { GetLogger().Fatal(msg, fields...) }

// With 返回带字段的日志器
func With(fields ...zap.Field) *zap.Logger {
	return GetLogger().With(fields...)
}

// WithFields 返回带键值对的 Sugar 日志器
func WithFields(args ...interface{}) *zap.SugaredLogger {
	return GetSugar().With(args...)
}

// Named 返回命名日志器
func Named(name string) *zap.Logger {
	return GetLogger().Named(name)
}

// 常用字段构造函数
var (
	String  = zap.String
	Int     = zap.Int
	Int64   = zap.Int64
	Float64 = zap.Float64
	Bool    = zap.Bool
	Any     = zap.Any
	Err     = zap.Error
)

func RequestID(id string) zap.Field       { return zap.String("request_id", id) }
func EmployeeID(id int64) zap.Field       { return zap.Int64("employee_id", id) }
func RoomID(id int64) zap.Field           { return zap.Int64("room_id", id) }
func GuestID(id int64) zap.Field          { return zap.Int64("guest_id", id) }
func ReservationID(id int64) zap.Field    { return zap.Int64("reservation_id", id) }
func ReservationNo(no string) zap.Field   { return zap.String("reservation_no", no) }
func Status(status string) zap.Field      { return zap.String("status", status) }
func Module(name string) zap.Field        { return zap.String("module", name) }
func Action(name string) zap.Field        { return zap.String("action", name) }
func Latency(d time.Duration) zap.Field   { return zap.Duration("latency", d) }
func StatusCode(code int) zap.Field       { return zap.Int("status_code", code) }
func Method(method string) zap.Field      { return zap.String("method", method) }
func Path(path string) zap.Field          { return zap.String("path", path) }
func IP(ip string) zap.Field              { return zap.String("ip", ip) }

// Contact 联系方式字段，调用方负责脱敏
func Contact(masked string) zap.Field { return zap.String("contact", masked) }
