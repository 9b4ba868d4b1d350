package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log 全局日志实例。进程启动时由 InitLogger 按配置重建，
// 未初始化时也可用（stdout、info 级别），测试不需要显式初始化。
var Log *logrus.Logger

// lineFormatter 单行日志格式: [TIME] [LEVL] [file:line] msg
type lineFormatter struct{}

func (f *lineFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	caller := "-"
	if entry.HasCaller() {
		caller = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	// 级别统一裁成 4 字符宽，保持列对齐
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	var sb strings.Builder
	sb.WriteString("[")
	sb.WriteString(entry.Time.Format("2006-01-02 15:04:05"))
	sb.WriteString("] [")
	sb.WriteString(level)
	sb.WriteString("] [")
	sb.WriteString(caller)
	sb.WriteString("] ")
	sb.WriteString(entry.Message)
	sb.WriteString("\n")
	return []byte(sb.String()), nil
}

// InitLogger 按配置初始化全局日志。level 无法解析时回退 info；
// file 非空时同时写 stdout 与日志文件
func InitLogger(level, file string) error {
	lg := newBase()

	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	lg.SetLevel(parsed)

	out, err := buildOutput(file)
	if err != nil {
		return err
	}
	lg.SetOutput(out)

	Log = lg
	return nil
}

// buildOutput 组装日志输出；需要时创建日志目录
func buildOutput(file string) (io.Writer, error) {
	if file == "" {
		return os.Stdout, nil
	}
	if dir := filepath.Dir(file); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create log directory failed: %w", err)
		}
	}
	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		return nil, fmt.Errorf("open log file failed: %w", err)
	}
	return io.MultiWriter(os.Stdout, f), nil
}

func newBase() *logrus.Logger {
	lg := logrus.New()
	lg.SetReportCaller(true)
	lg.SetFormatter(&lineFormatter{})
	lg.SetLevel(logrus.InfoLevel)
	return lg
}

func init() {
	Log = newBase()
}
