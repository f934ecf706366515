// Subscriber implementation for rx
// 订阅者：保证最多一次终止的推送投递端点
package rx

import "sync"

// ============================================================================
// Observer 部分观察者
// ============================================================================

// Observer 部分观察者，任一字段可为nil表示该处理器缺失。
// 缺失的Next/Complete会静默丢弃对应事件；缺失的Error会把错误
// 交给进程级的未处理错误报告器
type Observer struct {
	Next     OnNext
	Error    OnError
	Complete OnComplete
}

// ============================================================================
// Subscriber 订阅者
// ============================================================================

// Subscriber 由单次订阅独占的投递端点。Error或Complete其中之一
// 触发后closed永久为真，三个方法全部变为空操作，同时订阅自身的
// 取消令牌被中止
type Subscriber struct {
	mu       sync.Mutex
	observer Observer
	token    *CancelToken
	closed   bool
}

func newSubscriber(observer Observer, token *CancelToken) *Subscriber {
	return &Subscriber{observer: observer, token: token}
}

// Token 返回本次订阅的取消令牌
func (s *Subscriber) Token() *CancelToken {
	return s.token
}

// Closed 检查订阅者是否已终止
func (s *Subscriber) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Next 向观察者推送一个值。订阅者已关闭或令牌已中止时为空操作
func (s *Subscriber) Next(value interface{}) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.mu.Unlock()
	if s.token.Aborted() {
		return
	}
	if s.observer.Next != nil {
		s.observer.Next(value, s.token)
	}
}

// Error 以错误终止本次订阅并中止自身令牌。
// 观察者没有Error回调时，错误交给全局报告器而不是被丢弃
func (s *Subscriber) Error(err error) {
	if !s.terminate() {
		return
	}
	if s.observer.Error != nil {
		s.observer.Error(err)
	} else {
		reportUnhandled(err)
	}
	s.token.Abort()
}

// Complete 以完成终止本次订阅并中止自身令牌
func (s *Subscriber) Complete() {
	if !s.terminate() {
		return
	}
	if s.observer.Complete != nil {
		s.observer.Complete()
	}
	s.token.Abort()
}

// terminate 尝试把订阅者置为已关闭，返回是否应投递终止事件
func (s *Subscriber) terminate() bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	s.closed = true
	s.mu.Unlock()
	return !s.token.Aborted()
}
