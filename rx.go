// Package rx provides a push-based event-stream core for Go
// 基于推送模型的事件流核心库，提供订阅/取消引擎与可组合的操作符
package rx

import "fmt"

// ============================================================================
// 函数类型定义
// ============================================================================

// OnNext 处理下一个值的函数
type OnNext func(value interface{}, token *CancelToken)

// OnError 处理错误的函数
type OnError func(err error)

// OnComplete 处理完成的函数
type OnComplete func()

// Predicate 谓词函数，用于过滤
type Predicate func(value interface{}) bool

// Transformer 转换函数，用于映射，返回error表示转换失败
type Transformer func(value interface{}) (interface{}, error)

// Reducer 归约函数，用于累积
type Reducer func(accumulator, current interface{}) interface{}

// ProjectFunc 派生函数，把一个源值映射为内层Observable
type ProjectFunc func(value interface{}) *Observable

// ============================================================================
// 用户回调保护
// ============================================================================

// recoveredError 把panic值转换为error
func recoveredError(r interface{}) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("rx: 回调panic: %v", r)
}

// applyTransform 执行转换函数，捕获panic并转换为error
func applyTransform(fn Transformer, value interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	return fn(value)
}

// applyPredicate 执行谓词，捕获panic并转换为error
func applyPredicate(fn Predicate, value interface{}) (keep bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	return fn(value), nil
}

// applyReducer 执行归约函数，捕获panic并转换为error
func applyReducer(fn Reducer, accumulator, current interface{}) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = recoveredError(r)
		}
	}()
	return fn(accumulator, current), nil
}

// applyProject 执行派生函数，捕获panic并拒绝nil结果
func applyProject(fn ProjectFunc, value interface{}) (inner *Observable, err error) {
	defer func() {
		if r := recover(); r != nil {
			inner = nil
			err = recoveredError(r)
		}
	}()
	inner = fn(value)
	if inner == nil {
		return nil, fmt.Errorf("rx: 派生函数对值 %v 返回了nil", value)
	}
	return inner, nil
}
