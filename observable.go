// Observable implementation for rx
// Observable核心实现：不可变的订阅过程包装，冷订阅语义
package rx

// ============================================================================
// Observable 核心实现
// ============================================================================

// Observable 可观察序列。不可变，仅持有一个订阅过程；
// 默认是冷的——每次Subscribe都会用新的令牌重新执行订阅过程
type Observable struct {
	onSubscribe func(sub *Subscriber, token *CancelToken)
}

// NewObservable 从订阅过程创建Observable
func NewObservable(onSubscribe func(sub *Subscriber, token *CancelToken)) *Observable {
	return &Observable{onSubscribe: onSubscribe}
}

// Subscribe 开始一次订阅：创建新的取消令牌（parent非nil时链接
// 为其子令牌），把observer包装成保证单次终止的Subscriber，
// 然后执行订阅过程。不返回任何句柄——取消的唯一方式是中止
// 调用方传入的parent令牌
func (o *Observable) Subscribe(observer Observer, parent *CancelToken) {
	token := NewCancelToken()
	Chain(parent, token)
	sub := newSubscriber(observer, token)
	o.onSubscribe(sub, token)
}

// ForEach 订阅并对每个值调用onNext，返回容量为1的结果通道：
// 序列完成时收到nil，出错时收到该错误。订阅被取消时通道永远
// 不会收到值
func (o *Observable) ForEach(onNext func(value interface{}), parent *CancelToken) <-chan error {
	done := make(chan error, 1)
	o.Subscribe(Observer{
		Next: func(value interface{}, _ *CancelToken) {
			if onNext != nil {
				onNext(value)
			}
		},
		Error: func(err error) {
			done <- err
		},
		Complete: func() {
			done <- nil
		},
	}, parent)
	return done
}
