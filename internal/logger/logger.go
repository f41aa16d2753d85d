package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger/LogEntry/Fields 暴露底层类型，避免调用方直接依赖 logrus 包。
type Logger = logrus.Logger
type LogEntry = logrus.Entry
type Fields = logrus.Fields

// DefaultLogPath 默认日志文件路径。TUI 占用终端，日志只能写文件。
const DefaultLogPath = "logs/chatlist.log"

// Configure 设置全局日志格式与 caller 输出。
func Configure() {
	root().SetReportCaller(true)
	root().SetFormatter(PlainFormatter{})
}

// SetupFile 将全局日志输出重定向到 logPath（为空时用 DefaultLogPath），返回文件供调用方关闭。
func SetupFile(logPath string) (io.Closer, string, error) {
	if logPath == "" {
		logPath = DefaultLogPath
	}
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return nil, "", err
	}
	f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, "", err
	}
	root().SetOutput(f)
	return f, logPath, nil
}

// Discard 丢弃全局日志输出，日志文件不可用时使用。
func Discard() {
	root().SetOutput(io.Discard)
}

// SetLevel 按名称设置日志级别，无法识别时返回错误且不修改当前级别。
func SetLevel(level string) error {
	if strings.TrimSpace(level) == "" {
		return nil
	}
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("parse log level %q: %w", level, err)
	}
	root().SetLevel(lvl)
	return nil
}

// Named 为组件创建带 component 字段的入口。
func Named(component string) *LogEntry {
	entry := logrus.NewEntry(root())
	if component != "" {
		entry = entry.WithField("component", component)
	}
	return entry
}

// Fatalf 输出 Fatal 日志并退出。
func Fatalf(format string, args ...any) {
	root().Fatalf(format, args...)
}

func root() *Logger {
	return logrus.StandardLogger()
}

// PlainFormatter 输出一行纯文本：caller [时间] [级别] [component] [op=...] 消息 其余字段。
type PlainFormatter struct{}

// 由格式本身展示、不再作为 k=v 输出的字段。
var headerFields = map[string]bool{"component": true, "caller": true, "op": true}

// Format 实现 logrus Formatter。
func (PlainFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	if entry == nil {
		return nil, nil
	}
	var b strings.Builder
	if caller := callerOf(entry); caller != "" {
		b.WriteString(caller)
		b.WriteByte(' ')
	}
	fmt.Fprintf(&b, "[%s] [%s]", entry.Time.UTC().Format(time.RFC3339Nano), strings.ToUpper(entry.Level.String()))
	if c, _ := entry.Data["component"].(string); c != "" {
		fmt.Fprintf(&b, " [%s]", c)
	}
	if op, _ := entry.Data["op"].(string); op != "" {
		fmt.Fprintf(&b, " [op=%s]", op)
	}
	b.WriteByte(' ')
	b.WriteString(entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		if !headerFields[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// callerOf 优先使用 logrus 记录的调用位置，其次是 trace 写入的 caller 字段。
func callerOf(entry *logrus.Entry) string {
	if entry.HasCaller() {
		return fmt.Sprintf("%s:%d", shortenFilePath(entry.Caller.File), entry.Caller.Line)
	}
	c, _ := entry.Data["caller"].(string)
	return c
}

// shortenFilePath 把绝对路径裁剪为模块内相对路径。
func shortenFilePath(file string) string {
	file = filepath.ToSlash(file)
	for _, marker := range []string{"/internal/", "/cmd/"} {
		if idx := strings.Index(file, marker); idx != -1 {
			return file[idx+1:]
		}
	}
	if _, rest, ok := strings.Cut(file, "/chatlist/"); ok {
		return rest
	}
	return filepath.Base(file)
}
