package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"game-portal-cms/internal/pkg/config"
)

// 未初始化时为 Nop，测试中可直接调用包级函数
var (
	Log       = zap.NewNop()
	log       = zap.NewNop()
	logWriter = &LogWriter{zapcore.AddSync(os.Stdout)}
)

// customTimeEncoder 自定义时间格式编码器
// 输出格式: 2006-01-02 15:04:05.000
func customTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

// customCallerEncoder 输出相对于 go.mod 所在目录的路径，支持IDE点击跳转
// 格式: internal/pkg/logger/logger.go:45
func customCallerEncoder(caller zapcore.EntryCaller, enc zapcore.PrimitiveArrayEncoder) {
	if !caller.Defined {
		enc.AppendString("undefined")
		return
	}

	if root := moduleRoot(); root != "" {
		if rel, err := filepath.Rel(root, caller.File); err == nil && !strings.HasPrefix(rel, "..") {
			enc.AppendString(fmt.Sprintf("%s:%d", rel, caller.Line))
			return
		}
	}

	enc.AppendString(caller.TrimmedPath())
}

// moduleRoot 向上查找 go.mod，最多10层
func moduleRoot() string {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return ""
	}

	dir := filepath.Dir(currentFile)
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

func parseLevel(level string) zapcore.Level {
	switch level {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Init 初始化日志
func Init(cfg *config.LogConfig) error {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		NameKey:          "logger",
		CallerKey:        "caller",
		MessageKey:       "msg",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       customTimeEncoder,
		EncodeDuration:   zapcore.SecondsDurationEncoder,
		EncodeCaller:     customCallerEncoder,
		ConsoleSeparator: " ",
	}

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	} else {
		encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	}

	var writeSyncer zapcore.WriteSyncer
	if cfg.Output != "file" || cfg.FilePath == "" {
		writeSyncer = zapcore.AddSync(os.Stdout)
	} else {
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o755); err != nil {
			return fmt.Errorf("创建日志目录失败: %w", err)
		}
		// 按大小滚动
		writeSyncer = zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
	}

	core := zapcore.NewCore(encoder, writeSyncer, parseLevel(cfg.Level))

	Log = zap.New(core, zap.AddCaller())
	log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	logWriter = &LogWriter{writeSyncer}

	return nil
}

// Close 关闭日志
func Close() error {
	err1 := Log.Sync()
	err2 := log.Sync()
	if err1 != nil || err2 != nil {
		return fmt.Errorf("close log error: %v, %v", err1, err2)
	}
	return nil
}

// Debug 输出Debug日志
func Debug(msg string, fields ...zap.Field) {
	log.Debug(msg, fields...)
}

// Info 输出Info日志
func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

// Warn 输出Warn日志
func Warn(msg string, fields ...zap.Field) {
	log.Warn(msg, fields...)
}

// Error 输出Error日志
func Error(msg string, fields ...zap.Field) {
	log.Error(msg, fields...)
}

// Fatal 输出Fatal日志
func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}
