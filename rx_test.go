// Shared test helpers and end-to-end pipeline tests
// 公共测试辅助与端到端流水线测试
package rx

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collector 记录一次订阅观察到的全部事件
type collector struct {
	mu        sync.Mutex
	values    []interface{}
	err       error
	completed bool
}

func (c *collector) observer() Observer {
	return Observer{
		Next: func(value interface{}, _ *CancelToken) {
			c.mu.Lock()
			c.values = append(c.values, value)
			c.mu.Unlock()
		},
		Error: func(err error) {
			c.mu.Lock()
			c.err = err
			c.mu.Unlock()
		},
		Complete: func() {
			c.mu.Lock()
			c.completed = true
			c.mu.Unlock()
		},
	}
}

func (c *collector) snapshot() (values []interface{}, err error, completed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]interface{}{}, c.values...), c.err, c.completed
}

// waitResult 等待ForEach的结果通道，超时则测试失败
func waitResult(t *testing.T, done <-chan error) error {
	t.Helper()
	select {
	case err := <-done:
		return err
	case <-time.After(time.Second):
		t.Fatal("等待序列终止超时")
		return nil
	}
}

// ============================================================================
// 端到端流水线测试
// ============================================================================

func TestPipelineFilterMapTake(t *testing.T) {
	c := &collector{}
	Range(1, 100).
		Filter(func(value interface{}) bool {
			return value.(int)%2 == 0
		}).
		Map(func(value interface{}) (interface{}, error) {
			return value.(int) * 10, nil
		}).
		Take(3).
		Subscribe(c.observer(), nil)

	values, err, completed := c.snapshot()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{20, 40, 60}, values, "应得到前3个偶数乘以10")
	assert.True(t, completed, "Take计满后应完成")
}

func TestPipelineMergeMapOverSyncSources(t *testing.T) {
	c := &collector{}
	Just(1, 2, 3).
		MergeMap(func(value interface{}) *Observable {
			n := value.(int)
			return Just(n, n*100)
		}).
		Subscribe(c.observer(), nil)

	values, err, completed := c.snapshot()
	require.NoError(t, err)
	assert.Equal(t, []interface{}{1, 100, 2, 200, 3, 300}, values)
	assert.True(t, completed, "外层与全部内层完成后才应完成")
}

func TestPipelineCancellationStopsDelivery(t *testing.T) {
	parent := NewCancelToken()
	c := &collector{}
	Range(0, 1000).Subscribe(Observer{
		Next: func(value interface{}, _ *CancelToken) {
			c.mu.Lock()
			c.values = append(c.values, value)
			c.mu.Unlock()
			if value.(int) == 4 {
				parent.Abort()
			}
		},
		Complete: func() {
			c.mu.Lock()
			c.completed = true
			c.mu.Unlock()
		},
	}, parent)

	values, _, completed := c.snapshot()
	assert.Equal(t, []interface{}{0, 1, 2, 3, 4}, values, "中止后不应再投递任何值")
	assert.False(t, completed, "被取消的订阅不应收到完成")
}
