// This is a wrapper for the zap framework
// no SugaredLogger, Only Logger
// example:
//
//	Log().Debug("debug log test")
//	Log().Info("info log test")
//	Log().Fatal("fatal log test")
package log

import (
	"os"
	"sync"
	"time"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	defaultLogFileName = "./logs"

	defaultLevel = zap.NewAtomicLevelAt(zapcore.FatalLevel)

	log *zap.Logger

	logOnce sync.Once
)

// singleton pattern
func Log() *zap.Logger {
	logOnce.Do(func() {
		core := zapcore.NewCore(getEncoder(), getLogWriter(), defaultLevel)
		log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(0))
	})
	return log
}

// SetLevel lowers or raises the file-log threshold; the default records
// fatal errors only.
func SetLevel(level zapcore.Level) {
	defaultLevel.SetLevel(level)
}

func Debug(msg string, fields ...zap.Field) {
	Log().Debug(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	Log().Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log().Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log().Error(msg, fields...)
}

func Fatal(msg string, fields ...zap.Field) {
	Log().Fatal(msg, fields...)
}

func getEncoder() zapcore.Encoder {
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.LineEnding = zapcore.DefaultLineEnding
	encoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	encoderConfig.EncodeTime = timeEncoder
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeName = zapcore.FullNameEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05"))
}

func getLogWriter() zapcore.WriteSyncer {
	lumberJackLogger := &lumberjack.Logger{
		Filename:   defaultLogFileName,
		MaxSize:    60,
		MaxBackups: 6,
		MaxAge:     60,
		Compress:   false,
	}
	return zapcore.NewMultiWriteSyncer(zapcore.AddSync(os.Stderr), zapcore.AddSync(lumberJackLogger))
}
