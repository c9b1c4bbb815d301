package logger

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// LogWriter 适配 gorm logger.Writer，SQL 日志与业务日志写入同一输出
type LogWriter struct {
	zapcore.WriteSyncer
}

func (l *LogWriter) Printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(l.WriteSyncer, format+"\n", args...)
	_ = l.WriteSyncer.Sync()
}

func GetWriter() *LogWriter {
	return logWriter
}
