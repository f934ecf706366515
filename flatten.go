// Flattening operators for rx
// 展平操作符：MergeMap、ConcatMap、SwitchMap
// 每种操作符都是一个显式的每订阅状态机，与事件投递机制分离
package rx

import "sync"

// ============================================================================
// MergeMap 并发展平
// ============================================================================

// mergeState MergeMap的每订阅状态：活跃内层计数与外层完成标志。
// 下游完成的条件是外层已完成且活跃计数归零
type mergeState struct {
	mu        sync.Mutex
	down      *Subscriber
	token     *CancelToken
	project   ProjectFunc
	active    int
	outerDone bool
}

func (st *mergeState) outerNext(value interface{}, _ *CancelToken) {
	inner, err := applyProject(st.project, value)
	if err != nil {
		st.down.Error(err)
		return
	}
	st.mu.Lock()
	st.active++
	st.mu.Unlock()
	st.attach(inner)
}

// attach 订阅一个已计入active的内层源
func (st *mergeState) attach(inner *Observable) {
	inner.Subscribe(Observer{
		Next: func(value interface{}, _ *CancelToken) {
			st.down.Next(value)
		},
		Error:    st.down.Error,
		Complete: st.innerComplete,
	}, st.token)
}

func (st *mergeState) innerComplete() {
	st.mu.Lock()
	st.active--
	done := st.outerDone && st.active == 0
	st.mu.Unlock()
	if done {
		st.down.Complete()
	}
}

func (st *mergeState) outerComplete() {
	st.mu.Lock()
	st.outerDone = true
	done := st.active == 0
	st.mu.Unlock()
	if done {
		st.down.Complete()
	}
}

// MergeMap 对每个源值同步派生内层Observable并立即订阅，
// 所有内层在同一个外层令牌下并发运行，内层值原样转发。
// 任何一处错误都会立即错误终止下游，并通过令牌级联拆除其余
// 活跃内层；完成被全量排空把关：仅当外层完成且活跃内层计数
// 降为零时下游才完成。不限制同时活跃的内层数量
func (o *Observable) MergeMap(project ProjectFunc) *Observable {
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		st := &mergeState{down: down, token: token, project: project}
		source.Subscribe(Observer{
			Next:     st.outerNext,
			Error:    down.Error,
			Complete: st.outerComplete,
		}, token)
	})
}

// ============================================================================
// ConcatMap 顺序串行展平
// ============================================================================

// concatState ConcatMap的每订阅状态：待处理外层值队列、
// 在途内层标志与外层完成标志。同一时刻至多一个内层在订阅
type concatState struct {
	mu        sync.Mutex
	down      *Subscriber
	token     *CancelToken
	project   ProjectFunc
	queue     []interface{}
	inflight  bool
	outerDone bool
}

func (st *concatState) outerNext(value interface{}, _ *CancelToken) {
	st.mu.Lock()
	if st.inflight {
		st.queue = append(st.queue, value)
		st.mu.Unlock()
		return
	}
	st.inflight = true
	st.mu.Unlock()
	st.startInner(value)
}

// startInner 在出队时才求值派生函数，派生失败立即错误终止，
// 剩余队列不再排空
func (st *concatState) startInner(value interface{}) {
	inner, err := applyProject(st.project, value)
	if err != nil {
		st.down.Error(err)
		return
	}
	inner.Subscribe(Observer{
		Next: func(v interface{}, _ *CancelToken) {
			st.down.Next(v)
		},
		Error:    st.down.Error,
		Complete: st.innerComplete,
	}, st.token)
}

func (st *concatState) innerComplete() {
	st.mu.Lock()
	if len(st.queue) > 0 {
		value := st.queue[0]
		st.queue = st.queue[1:]
		st.mu.Unlock()
		// 同步完成的内层会经由这里逐个推进队列
		st.startInner(value)
		return
	}
	st.inflight = false
	done := st.outerDone
	st.mu.Unlock()
	if done {
		st.down.Complete()
	}
}

func (st *concatState) outerComplete() {
	st.mu.Lock()
	st.outerDone = true
	done := !st.inflight
	st.mu.Unlock()
	if done {
		st.down.Complete()
	}
}

// ConcatMap 把每个源值排入队列，同一时刻只订阅一个内层，
// 前一个内层完成后才出队下一个，输出严格保持源顺序。
// 队列为空且外层已完成时下游完成；任何一处错误立即终止下游，
// 不再排空剩余队列
func (o *Observable) ConcatMap(project ProjectFunc) *Observable {
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		st := &concatState{down: down, token: token, project: project}
		source.Subscribe(Observer{
			Next:     st.outerNext,
			Error:    down.Error,
			Complete: st.outerComplete,
		}, token)
	})
}

// ============================================================================
// SwitchMap 最新优先展平
// ============================================================================

// switchState SwitchMap的每订阅状态：当前内层的子令牌与代次。
// 代次用于识别过期内层的完成通知
type switchState struct {
	mu         sync.Mutex
	down       *Subscriber
	token      *CancelToken
	project    ProjectFunc
	innerToken *CancelToken
	epoch      int
	outerDone  bool
}

func (st *switchState) outerNext(value interface{}, _ *CancelToken) {
	st.mu.Lock()
	previous := st.innerToken
	st.mu.Unlock()
	// 先拆除旧内层再订阅新内层，被替换内层的值不会再到达下游
	if previous != nil {
		previous.Abort()
	}

	inner, err := applyProject(st.project, value)
	if err != nil {
		st.down.Error(err)
		return
	}

	child := NewCancelToken()
	Chain(st.token, child)

	st.mu.Lock()
	st.innerToken = child
	st.epoch++
	id := st.epoch
	st.mu.Unlock()

	inner.Subscribe(Observer{
		Next: func(v interface{}, _ *CancelToken) {
			st.down.Next(v)
		},
		Error: st.down.Error,
		Complete: func() {
			st.innerComplete(id)
		},
	}, child)
}

func (st *switchState) innerComplete(id int) {
	st.mu.Lock()
	if id != st.epoch {
		st.mu.Unlock()
		return
	}
	st.innerToken = nil
	done := st.outerDone
	st.mu.Unlock()
	if done {
		st.down.Complete()
	}
}

func (st *switchState) outerComplete() {
	st.mu.Lock()
	st.outerDone = true
	done := st.innerToken == nil
	st.mu.Unlock()
	if done {
		st.down.Complete()
	}
}

// SwitchMap 每个新源值先中止上一个内层的子令牌再订阅新内层，
// 保证任一时刻至多一个活跃内层，最新者胜出。
// 下游完成要求外层已完成且此刻没有活跃内层
func (o *Observable) SwitchMap(project ProjectFunc) *Observable {
	source := o
	return NewObservable(func(down *Subscriber, token *CancelToken) {
		st := &switchState{down: down, token: token, project: project}
		source.Subscribe(Observer{
			Next:     st.outerNext,
			Error:    down.Error,
			Complete: st.outerComplete,
		}, token)
	})
}
