package fieldkit

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// loggerBox 保证 atomic.Value 中存储的具体类型始终一致
type loggerBox struct {
	logrus.FieldLogger
}

var currentLogger atomic.Value

func init() {
	SetLogger(nil)
}

// SetLogger 替换包级别的日志记录器，传入 nil 时恢复默认值
// SetLogger replaces the logger used for decode diagnostics. Passing nil
// restores the default logrus standard logger.
func SetLogger(l logrus.FieldLogger) {
	if l == nil {
		l = logrus.NewEntry(logrus.StandardLogger()).WithField("component", "fieldkit")
	}
	currentLogger.Store(loggerBox{l})
}

// Logger 返回当前的日志记录器
func Logger() logrus.FieldLogger {
	return currentLogger.Load().(loggerBox).FieldLogger
}

// DebugEnabled 报告当前日志记录器是否输出 Debug 级别的记录
// 解析热路径在构建日志字段之前先检查它
//
// DebugEnabled reports whether the current logger emits Debug records. Decode
// paths check it before building log fields.
func DebugEnabled() bool {
	switch l := Logger().(type) {
	case *logrus.Entry:
		return l.Logger.IsLevelEnabled(logrus.DebugLevel)
	case *logrus.Logger:
		return l.IsLevelEnabled(logrus.DebugLevel)
	default:
		return true
	}
}

type loggerProxy struct{}

func (loggerProxy) WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger().WithFields(fields)
}

func (loggerProxy) WithField(key string, value interface{}) *logrus.Entry {
	return Logger().WithField(key, value)
}

// logger 是包内使用的日志入口
var logger loggerProxy
