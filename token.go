// Cancellation token for rx
// 取消令牌：单向的中止标志，支持监听器注册/移除与父子链式传播
package rx

import "sync"

// ============================================================================
// CancelToken 取消令牌
// ============================================================================

// CancelToken 一次性中止信号。状态只会从活动变为已中止，不可逆转，
// 重复Abort是空操作
type CancelToken struct {
	mu        sync.Mutex
	aborted   bool
	nextID    int
	listeners []abortListener
}

type abortListener struct {
	id int
	fn func()
}

// NewCancelToken 创建处于活动状态的取消令牌
func NewCancelToken() *CancelToken {
	return &CancelToken{}
}

// Aborted 检查令牌是否已中止
func (t *CancelToken) Aborted() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.aborted
}

// Abort 将令牌置为已中止并按注册顺序触发所有监听器。
// 每个监听器恰好被调用一次，回调在锁外执行
func (t *CancelToken) Abort() {
	t.mu.Lock()
	if t.aborted {
		t.mu.Unlock()
		return
	}
	t.aborted = true
	listeners := t.listeners
	t.listeners = nil
	t.mu.Unlock()

	for _, l := range listeners {
		l.fn()
	}
}

// OnAbort 注册中止监听器并返回它的移除函数。
// 对已中止的令牌注册会同步调用fn并返回空操作的移除函数
func (t *CancelToken) OnAbort(fn func()) (remove func()) {
	t.mu.Lock()
	if t.aborted {
		t.mu.Unlock()
		fn()
		return func() {}
	}
	id := t.nextID
	t.nextID++
	t.listeners = append(t.listeners, abortListener{id: id, fn: fn})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, l := range t.listeners {
			if l.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Chain 把child挂接到parent之下：parent中止会级联中止child，
// child中止（无论何种原因）会摘除parent上对应的监听器，
// 因此监听器不会在child生命周期之外残留；child中止永不向上传播。
// parent或child为nil时是空操作
func Chain(parent, child *CancelToken) {
	if parent == nil || child == nil {
		return
	}
	remove := parent.OnAbort(child.Abort)
	child.OnAbort(remove)
}
