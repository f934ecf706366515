// Subject implementation for rx
// Subject：多播广播器，既是事件接收端又是Observable
package rx

import "sync"

// ============================================================================
// Subject 多播广播器
// ============================================================================

// Subject 把一个上游扇出给多个下游订阅者。订阅者按注册顺序维护；
// closed一旦由Error或Complete置位即永久生效
type Subject struct {
	mu          sync.Mutex
	subscribers []*Subscriber
	closed      bool
}

// NewSubject 创建新的Subject
func NewSubject() *Subject {
	return &Subject{}
}

// Subscribe 注册一个订阅者，令牌中止时自动从注册表摘除。
// 对已关闭的Subject订阅仍然静默注册——该订阅者不会再收到
// 任何事件，终止排空在关闭时已经发生
func (s *Subject) Subscribe(observer Observer, parent *CancelToken) {
	token := NewCancelToken()
	Chain(parent, token)
	sub := newSubscriber(observer, token)
	s.register(sub, token)
}

func (s *Subject) register(sub *Subscriber, token *CancelToken) {
	s.mu.Lock()
	s.subscribers = append(s.subscribers, sub)
	s.mu.Unlock()

	token.OnAbort(func() {
		s.remove(sub)
	})
}

func (s *Subject) remove(sub *Subscriber) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.subscribers {
		if existing == sub {
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			return
		}
	}
}

// Next 未关闭时，把value按注册顺序转发给调用时刻已注册的每个
// 订阅者；转发不会移除任何订阅者
func (s *Subject) Next(value interface{}) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	snapshot := make([]*Subscriber, len(s.subscribers))
	copy(snapshot, s.subscribers)
	s.mu.Unlock()

	for _, sub := range snapshot {
		sub.Next(value)
	}
}

// Error 关闭Subject并把错误作为终止事件投递给所有订阅者
func (s *Subject) Error(err error) {
	s.terminate(func(sub *Subscriber) {
		sub.Error(err)
	})
}

// Complete 关闭Subject并把完成作为终止事件投递给所有订阅者
func (s *Subject) Complete() {
	s.terminate((*Subscriber).Complete)
}

// terminate 置位closed后反复弹出最早注册的订阅者并投递终止事件，
// 直到注册表为空。逐个弹出保证即使投递触发该订阅者自我摘除，
// 每个订阅者也恰好收到一次终止事件
func (s *Subject) terminate(deliver func(*Subscriber)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	for {
		s.mu.Lock()
		if len(s.subscribers) == 0 {
			s.mu.Unlock()
			return
		}
		sub := s.subscribers[0]
		s.subscribers = s.subscribers[1:]
		s.mu.Unlock()
		deliver(sub)
	}
}

// Closed 检查Subject是否已终止
func (s *Subject) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// HasSubscribers 检查当前是否有已注册的订阅者
func (s *Subject) HasSubscribers() bool {
	return s.SubscriberCount() > 0
}

// SubscriberCount 获取当前已注册的订阅者数量
func (s *Subject) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers)
}

// AsObservable 返回把Subscribe转交给本Subject的冷Observable，
// 向持有方隐藏Next/Error/Complete入口
func (s *Subject) AsObservable() *Observable {
	return NewObservable(func(sub *Subscriber, token *CancelToken) {
		s.register(sub, token)
	})
}
