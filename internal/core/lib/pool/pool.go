/**
 * 固定并发度任务组
 * @author: sun977
 * @date: 2026.03.20
 * @description: "切批-并发-等待"的结构化并发原语。
 * 扫描器把一批出站操作提交进来，任务组用信号量限制同时在途的数量，
 * Wait 返回后该批全部落定，聚合只在协调协程上进行，不需要额外加锁。
 */
package pool

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// Group 固定并发上限的任务组
type Group struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewGroup 创建并发上限为 limit 的任务组
func NewGroup(limit int) *Group {
	if limit < 1 {
		limit = 1
	}
	return &Group{
		sem: semaphore.NewWeighted(int64(limit)),
	}
}

// Go 提交一个任务
// 并发额度耗尽时阻塞等待；ctx 取消时放弃提交并返回 ctx 的错误
func (g *Group) Go(ctx context.Context, fn func()) error {
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer g.sem.Release(1)
		fn()
	}()
	return nil
}

// Wait 阻塞直到所有已提交任务完成
func (g *Group) Wait() {
	g.wg.Wait()
}

// RunBatch 把 n 个下标分发给 fn 并发执行，全部完成后返回
// fn 按约定只写属于自己下标的结果槽位，批内不共享可变状态
func RunBatch(ctx context.Context, limit, n int, fn func(i int)) error {
	g := NewGroup(limit)
	for i := 0; i < n; i++ {
		i := i
		if err := g.Go(ctx, func() { fn(i) }); err != nil {
			// 提交失败 (ctx 取消)，等已派发的任务收尾后把错误带出去
			g.Wait()
			return err
		}
	}
	g.Wait()
	return nil
}
