// Simple operators for rx
// 元素级操作符：Map、Filter、Take、TakeLast、Scan、TakeUntil
package rx

import "sync"

// ============================================================================
// 转换与过滤
// ============================================================================

// Map 对每个值应用转换函数。转换返回error或发生panic时，
// 下游以该错误终止，流水线不再继续
func (o *Observable) Map(transformer Transformer) *Observable {
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		source.Subscribe(Observer{
			Next: func(value interface{}, _ *CancelToken) {
				result, err := applyTransform(transformer, value)
				if err != nil {
					down.Error(err)
					return
				}
				down.Next(result)
			},
			Error:    down.Error,
			Complete: down.Complete,
		}, token)
	})
}

// Filter 只转发令谓词为真的值。谓词panic时下游以该错误终止
func (o *Observable) Filter(predicate Predicate) *Observable {
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		source.Subscribe(Observer{
			Next: func(value interface{}, _ *CancelToken) {
				keep, err := applyPredicate(predicate, value)
				if err != nil {
					down.Error(err)
					return
				}
				if keep {
					down.Next(value)
				}
			},
			Error:    down.Error,
			Complete: down.Complete,
		}, token)
	})
}

// ============================================================================
// 截取
// ============================================================================

// Take 转发前count个值，在第count个值之后自行完成。
// count被钳制为非负；count为0时不走计数分支完成，
// 只在源自身完成时才完成
func (o *Observable) Take(count int) *Observable {
	if count < 0 {
		count = 0
	}
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		var mu sync.Mutex
		taken := 0
		source.Subscribe(Observer{
			Next: func(value interface{}, _ *CancelToken) {
				mu.Lock()
				if taken >= count {
					mu.Unlock()
					return
				}
				taken++
				reached := taken == count
				mu.Unlock()

				down.Next(value)
				if reached {
					down.Complete()
				}
			},
			Error:    down.Error,
			Complete: down.Complete,
		}, token)
	})
}

// TakeLast 用容量为count的滚动窗口缓存最后count个值
// （超容时淘汰最旧的），仅在源完成时按原顺序冲刷缓冲区再完成；
// 源出错时立即转发错误并丢弃缓冲区
func (o *Observable) TakeLast(count int) *Observable {
	if count < 0 {
		count = 0
	}
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		var mu sync.Mutex
		buffer := make([]interface{}, 0, count)
		source.Subscribe(Observer{
			Next: func(value interface{}, _ *CancelToken) {
				if count == 0 {
					return
				}
				mu.Lock()
				if len(buffer) == count {
					buffer = append(buffer[1:], value)
				} else {
					buffer = append(buffer, value)
				}
				mu.Unlock()
			},
			Error: func(err error) {
				mu.Lock()
				buffer = nil
				mu.Unlock()
				down.Error(err)
			},
			Complete: func() {
				mu.Lock()
				flushed := buffer
				buffer = nil
				mu.Unlock()
				for _, value := range flushed {
					down.Next(value)
				}
				down.Complete()
			},
		}, token)
	})
}

// ============================================================================
// 累积
// ============================================================================

// Scan 对值做滚动归约并转发每个中间结果。未提供seed时，
// 第一个源值原样转发并成为累积状态
func (o *Observable) Scan(reducer Reducer, seed ...interface{}) *Observable {
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		var mu sync.Mutex
		var accumulator interface{}
		hasAccumulator := false
		if len(seed) > 0 {
			accumulator = seed[0]
			hasAccumulator = true
		}
		source.Subscribe(Observer{
			Next: func(value interface{}, _ *CancelToken) {
				mu.Lock()
				if !hasAccumulator {
					accumulator = value
					hasAccumulator = true
					mu.Unlock()
					down.Next(value)
					return
				}
				result, err := applyReducer(reducer, accumulator, value)
				if err != nil {
					mu.Unlock()
					down.Error(err)
					return
				}
				accumulator = result
				mu.Unlock()
				down.Next(result)
			},
			Error:    down.Error,
			Complete: down.Complete,
		}, token)
	})
}

// ============================================================================
// 外部终止
// ============================================================================

// TakeUntil 转发源的值，直到notifier发出第一个值（完成下游）或
// 错误（错误终止下游）。两个订阅共享同一个子令牌，下游终止时
// 级联中止该令牌，从而拆除源订阅；notifier不发值就完成则无影响
func (o *Observable) TakeUntil(notifier *Observable) *Observable {
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		shared := NewCancelToken()
		Chain(token, shared)

		notifier.Subscribe(Observer{
			Next: func(_ interface{}, _ *CancelToken) {
				down.Complete()
			},
			Error: down.Error,
		}, shared)

		source.Subscribe(Observer{
			Next: func(value interface{}, _ *CancelToken) {
				down.Next(value)
			},
			Error:    down.Error,
			Complete: down.Complete,
		}, shared)
	})
}
