// Subscriber tests
// 订阅者单次终止契约的测试
package rx

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscriberSingleTermination(t *testing.T) {
	t.Run("Complete之后全部变为空操作", func(t *testing.T) {
		c := &collector{}
		sub := newSubscriber(c.observer(), NewCancelToken())

		sub.Next(1)
		sub.Complete()
		sub.Next(2)
		sub.Complete()
		sub.Error(errors.New("迟到的错误"))

		values, err, completed := c.snapshot()
		assert.Equal(t, []interface{}{1}, values)
		assert.True(t, completed)
		assert.NoError(t, err, "终止之后不应再投递错误")
		assert.True(t, sub.Closed())
	})

	t.Run("Error之后全部变为空操作", func(t *testing.T) {
		c := &collector{}
		sub := newSubscriber(c.observer(), NewCancelToken())
		boom := errors.New("boom")

		sub.Error(boom)
		sub.Next(1)
		sub.Complete()

		values, err, completed := c.snapshot()
		assert.Empty(t, values)
		assert.Equal(t, boom, err)
		assert.False(t, completed)
	})
}

func TestSubscriberTerminalAbortsOwnToken(t *testing.T) {
	token := NewCancelToken()
	sub := newSubscriber(Observer{}, token)

	sub.Complete()
	assert.True(t, token.Aborted(), "终止事件应中止订阅自身的令牌")
}

func TestSubscriberAbortedTokenSuppressesDelivery(t *testing.T) {
	token := NewCancelToken()
	c := &collector{}
	sub := newSubscriber(c.observer(), token)

	token.Abort()
	sub.Next(1)
	sub.Complete()

	values, _, completed := c.snapshot()
	assert.Empty(t, values, "令牌中止后不应再投递值")
	assert.False(t, completed, "令牌中止后不应再投递终止事件")
}

func TestSubscriberPartialObserver(t *testing.T) {
	// 空观察者：所有事件被静默丢弃，不panic
	sub := newSubscriber(Observer{}, NewCancelToken())
	sub.Next(1)
	sub.Complete()
	assert.True(t, sub.Closed())
}

func TestSubscriberMissingErrorHandlerRoutesToReporter(t *testing.T) {
	var reported []error
	previous := SetErrorReporter(func(err error) {
		reported = append(reported, err)
	})
	defer SetErrorReporter(previous)

	boom := errors.New("没人处理的错误")
	sub := newSubscriber(Observer{
		Next: func(interface{}, *CancelToken) {},
	}, NewCancelToken())
	sub.Error(boom)

	assert.Equal(t, []error{boom}, reported, "缺失Error回调时错误应交给全局报告器")
}
