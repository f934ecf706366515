// Observable core tests
// Observable冷订阅与ForEach适配的测试
package rx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObservableIsCold(t *testing.T) {
	runs := 0
	source := NewObservable(func(sub *Subscriber, _ *CancelToken) {
		runs++
		sub.Next(runs)
		sub.Complete()
	})

	first := &collector{}
	second := &collector{}
	source.Subscribe(first.observer(), nil)
	source.Subscribe(second.observer(), nil)

	assert.Equal(t, 2, runs, "每次Subscribe都应重新执行订阅过程")
	firstValues, _, _ := first.snapshot()
	secondValues, _, _ := second.snapshot()
	assert.Equal(t, []interface{}{1}, firstValues)
	assert.Equal(t, []interface{}{2}, secondValues)
}

func TestObservableSubscribeChainsCallerToken(t *testing.T) {
	parent := NewCancelToken()
	var inner *CancelToken
	source := NewObservable(func(_ *Subscriber, token *CancelToken) {
		inner = token
	})

	source.Subscribe(Observer{}, parent)
	require.NotNil(t, inner)
	assert.False(t, inner.Aborted())

	parent.Abort()
	assert.True(t, inner.Aborted(), "调用方令牌中止应级联到订阅令牌")
}

func TestObservableSubscribeWithAbortedParent(t *testing.T) {
	parent := NewCancelToken()
	parent.Abort()

	c := &collector{}
	Just(1, 2, 3).Subscribe(c.observer(), parent)

	values, _, completed := c.snapshot()
	assert.Empty(t, values, "已取消的订阅不应收到值")
	assert.False(t, completed)
}

func TestForEachCompletes(t *testing.T) {
	var values []interface{}
	done := Just(1, 2, 3).ForEach(func(value interface{}) {
		values = append(values, value)
	}, nil)

	require.NoError(t, waitResult(t, done))
	assert.Equal(t, []interface{}{1, 2, 3}, values)
}

func TestForEachRejectsOnError(t *testing.T) {
	boom := errors.New("boom")
	done := Throw(boom).ForEach(nil, nil)
	assert.Equal(t, boom, waitResult(t, done))
}
