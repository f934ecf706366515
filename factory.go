// Factory functions for rx
// 工厂函数：从切片、通道、延迟单值等外部数据源创建Observable
package rx

import "time"

// ============================================================================
// 基础工厂函数
// ============================================================================

// Just 从给定的值创建同步发射的Observable
func Just(values ...interface{}) *Observable {
	return FromSlice(values)
}

// Of Just的别名
func Of(values ...interface{}) *Observable {
	return FromSlice(values)
}

// Empty 创建一个不发射任何值、立即完成的Observable
func Empty() *Observable {
	return NewObservable(func(sub *Subscriber, _ *CancelToken) {
		sub.Complete()
	})
}

// Never 创建一个永不发射值也永不终止的Observable
func Never() *Observable {
	return NewObservable(func(_ *Subscriber, _ *CancelToken) {})
}

// Throw 创建一个立即以err终止的Observable
func Throw(err error) *Observable {
	return NewObservable(func(sub *Subscriber, _ *CancelToken) {
		sub.Error(err)
	})
}

// Range 创建发射[start, start+count)整数序列的Observable
func Range(start, count int) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		for i := 0; i < count; i++ {
			if token.Aborted() {
				return
			}
			sub.Next(start + i)
		}
		sub.Complete()
	})
}

// ============================================================================
// 从数据源创建
// ============================================================================

// FromSlice 从切片创建Observable，同步逐个发射，
// 元素之间检查取消令牌以便提前退出
func FromSlice(slice []interface{}) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		for _, value := range slice {
			if token.Aborted() {
				return
			}
			sub.Next(value)
		}
		sub.Complete()
	})
}

// FromChannel 从Go channel创建Observable。
// 通道关闭即完成；令牌中止时停止消费
func FromChannel(ch <-chan interface{}) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		drainChannel(ch, sub, token)
	})
}

// FromFunc 从可迭代函数创建Observable，订阅时才调用iterable取得通道
func FromFunc(iterable func() <-chan interface{}) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		drainChannel(iterable(), sub, token)
	})
}

func drainChannel(ch <-chan interface{}, sub *Subscriber, token *CancelToken) {
	stop := make(chan struct{})
	token.OnAbort(func() { close(stop) })

	go func() {
		for {
			select {
			case <-stop:
				return
			case value, ok := <-ch:
				if !ok {
					sub.Complete()
					return
				}
				sub.Next(value)
			}
		}
	}()
}

// Thenable then/catch风格的延迟单值契约：恰好调用onResolve或
// onReject之一
type Thenable interface {
	Then(onResolve func(value interface{}), onReject func(err error))
}

// FromThenable 从延迟单值源创建Observable：
// 解析后转发该值并完成，拒绝则作为错误终止
func FromThenable(t Thenable) *Observable {
	return NewObservable(func(sub *Subscriber, _ *CancelToken) {
		t.Then(func(value interface{}) {
			sub.Next(value)
			sub.Complete()
		}, func(err error) {
			sub.Error(err)
		})
	})
}

// From 根据输入的形状选择合适的适配器：切片与通道按可迭代序列
// 处理，Thenable按延迟单值处理，Observable原样返回，
// 其余输入视为单元素序列
func From(input interface{}) *Observable {
	switch src := input.(type) {
	case *Observable:
		return src
	case []interface{}:
		return FromSlice(src)
	case <-chan interface{}:
		return FromChannel(src)
	case chan interface{}:
		return FromChannel(src)
	case func() <-chan interface{}:
		return FromFunc(src)
	case Thenable:
		return FromThenable(src)
	default:
		return Just(input)
	}
}

// ============================================================================
// 时间相关
// ============================================================================

// Timer 在duration之后发射0并完成。配合TakeUntil可以组合出超时
func Timer(duration time.Duration) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		timer := time.NewTimer(duration)
		stop := make(chan struct{})
		token.OnAbort(func() { close(stop) })

		go func() {
			defer timer.Stop()
			select {
			case <-stop:
			case <-timer.C:
				sub.Next(0)
				sub.Complete()
			}
		}()
	})
}

// Interval 每隔duration发射递增的整数，从0开始，永不完成，
// 只能通过中止令牌停止
func Interval(duration time.Duration) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		ticker := time.NewTicker(duration)
		stop := make(chan struct{})
		token.OnAbort(func() { close(stop) })

		go func() {
			defer ticker.Stop()
			count := 0
			for {
				select {
				case <-stop:
					return
				case <-ticker.C:
					sub.Next(count)
					count++
				}
			}
		}()
	})
}

// ============================================================================
// 静态组合
// ============================================================================

// Merge 并发订阅所有源并把它们的值交错转发，
// 全部源完成后才向下游发出完成
func Merge(sources ...*Observable) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		if len(sources) == 0 {
			sub.Complete()
			return
		}
		st := &mergeState{down: sub, token: token, outerDone: true, active: len(sources)}
		for _, source := range sources {
			st.attach(source)
		}
	})
}

// Concat 按顺序订阅各个源，前一个完成后才订阅下一个，
// 输出保持源的排列顺序
func Concat(sources ...*Observable) *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		if len(sources) == 0 {
			sub.Complete()
			return
		}
		st := &concatState{
			down:  sub,
			token: token,
			project: func(value interface{}) *Observable {
				return value.(*Observable)
			},
			outerDone: true,
			inflight:  true,
		}
		for _, source := range sources[1:] {
			st.queue = append(st.queue, source)
		}
		st.startInner(sources[0])
	})
}
