// Unhandled error reporter for rx
// 进程级未处理错误报告器，可注入替换以便测试捕获
package rx

import (
	"sync"

	"go.uber.org/zap"
)

// ErrorReporter 宿主级错误报告函数，当终止错误到达一个没有
// Error回调的订阅者时被调用
type ErrorReporter func(err error)

var (
	reporterMu  sync.RWMutex
	reporter    ErrorReporter = defaultReporter
	reporterLog               = zap.Must(zap.NewProduction())
)

func defaultReporter(err error) {
	reporterLog.Error("未处理的流错误", zap.Error(err))
}

// SetErrorReporter 替换全局错误报告器并返回之前的报告器。
// 传入nil恢复默认的日志报告器
func SetErrorReporter(r ErrorReporter) ErrorReporter {
	reporterMu.Lock()
	defer reporterMu.Unlock()
	previous := reporter
	if r == nil {
		r = defaultReporter
	}
	reporter = r
	return previous
}

func reportUnhandled(err error) {
	reporterMu.RLock()
	r := reporter
	reporterMu.RUnlock()
	r(err)
}
