package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	defaultLogDirName    = "logs"
	defaultLogFilename   = "storefront.log"
	defaultLogMaxSizeMB  = 100
	defaultLogMaxBackups = 7
	defaultLogMaxAgeDays = 30
)

// Options 日志输出配置
type Options struct {
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
	// Console release 模式下额外输出到 stdout（容器环境采集）
	Console bool
	// Service 写入每条日志的 service 字段
	Service string
}

// L 全局结构化日志实例
var L *zap.Logger

var bootstrapLogger = sync.OnceValue(func() *zap.Logger {
	return zap.New(
		zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(false)), zapcore.Lock(os.Stdout), zap.InfoLevel),
		zap.AddCaller(), zap.AddCallerSkip(1),
	)
})

// Init 初始化全局日志并替换 zap 全局实例
func Init(mode string, options Options) *zap.Logger {
	L = New(mode, options)
	zap.ReplaceGlobals(L)
	return L
}

// New debug 模式输出彩色控制台；其余模式写滚动 JSON 文件，文件不可写时退回 stdout
func New(mode string, options Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), "debug")
	opts := []zap.Option{zap.AddCaller(), zap.AddCallerSkip(1)}
	if service := strings.TrimSpace(options.Service); service != "" {
		opts = append(opts, zap.Fields(zap.String("service", service)))
	}
	return zap.New(buildCore(debug, options), opts...)
}

func buildCore(debug bool, options Options) zapcore.Core {
	if debug {
		return zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig(true)), zapcore.Lock(os.Stdout), zap.DebugLevel)
	}
	encoder := zapcore.NewJSONEncoder(encoderConfig(false))
	stdout := zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), zap.InfoLevel)
	sink, err := rollingFile(options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, writing to stdout: %v\n", err)
		return stdout
	}
	file := zapcore.NewCore(encoder, sink, zap.InfoLevel)
	if options.Console {
		return zapcore.NewTee(file, stdout)
	}
	return file
}

func encoderConfig(color bool) zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.MessageKey = "message"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeDuration = zapcore.MillisDurationEncoder
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	if color {
		cfg.EncodeLevel = zapcore.LowercaseColorLevelEncoder
	}
	return cfg
}

// rollingFile 启动时先探测目标文件可写，避免运行期静默丢日志
func rollingFile(options Options) (zapcore.WriteSyncer, error) {
	path, err := logFilePath(options)
	if err != nil {
		return nil, err
	}
	probe, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	_ = probe.Close()
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    positiveOr(options.MaxSizeMB, defaultLogMaxSizeMB),
		MaxBackups: positiveOr(options.MaxBackups, defaultLogMaxBackups),
		MaxAge:     positiveOr(options.MaxAgeDays, defaultLogMaxAgeDays),
		Compress:   options.Compress,
	}), nil
}

// logFilePath 未配置目录时使用工作目录下的 logs/，目录不存在时创建
func logFilePath(options Options) (string, error) {
	dir := strings.TrimSpace(options.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(wd, defaultLogDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	name := strings.TrimSpace(options.Filename)
	if name == "" {
		name = defaultLogFilename
	}
	return filepath.Join(dir, name), nil
}

func positiveOr(value, fallback int) int {
	if value > 0 {
		return value
	}
	return fallback
}

// Z 未初始化时返回输出到 stdout 的引导日志
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	return bootstrapLogger()
}

// S SugaredLogger
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// SW 附带固定字段的 SugaredLogger
func SW(kv ...interface{}) *zap.SugaredLogger {
	return S().With(kv...)
}

// StdLogger 供 gorm 等只接受标准库 logger 的组件使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

func Debugw(message string, kv ...interface{}) { S().Debugw(message, kv...) }

func Infow(message string, kv ...interface{}) { S().Infow(message, kv...) }

func Warnw(message string, kv ...interface{}) { S().Warnw(message, kv...) }

func Errorw(message string, kv ...interface{}) { S().Errorw(message, kv...) }
