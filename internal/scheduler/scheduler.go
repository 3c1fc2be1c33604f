// Package scheduler 按固定间隔运行后台任务
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dumeirei/hotel-frontdesk/internal/common/logger"
)

// 单次执行超时
const taskTimeout = time.Minute

type Task struct {
	Name     string
	Interval time.Duration
	Handler  func(ctx context.Context) error
}

// Scheduler 每个任务一个 goroutine，启动时先执行一次
type Scheduler struct {
	tasks  []*Task
	log    *zap.Logger
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewScheduler() *Scheduler {
	return &Scheduler{log: logger.Named("scheduler")}
}

// AddTask 间隔不大于 0 视为未启用
func (s *Scheduler) AddTask(name string, interval time.Duration, handler func(ctx context.Context) error) {
	if interval <= 0 {
		s.log.Warn("任务未启用", zap.String("task", name), zap.Duration("interval", interval))
		return
	}
	s.tasks = append(s.tasks, &Task{Name: name, Interval: interval, Handler: handler})
}

func (s *Scheduler) Tasks() []*Task {
	return s.tasks
}

// Start 在 ctx 取消或调用 Stop 前持续运行
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.log.Info("调度器启动", zap.Int("tasks", len(s.tasks)))

	for _, task := range s.tasks {
		s.wg.Add(1)
		go func(t *Task) {
			defer s.wg.Done()
			s.loop(ctx, t)
		}(task)
	}
}

// Stop 等待正在执行的任务返回
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	s.log.Info("调度器已停止")
}

func (s *Scheduler) loop(ctx context.Context, t *Task) {
	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		s.run(ctx, t)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Scheduler) run(ctx context.Context, t *Task) {
	ctx, cancel := context.WithTimeout(ctx, taskTimeout)
	defer cancel()

	start := time.Now()
	err := safeCall(ctx, t.Handler)
	if err != nil {
		s.log.Error("任务执行失败", zap.String("task", t.Name), zap.Error(err))
		return
	}
	s.log.Debug("任务执行完成", zap.String("task", t.Name), logger.Latency(time.Since(start)))
}

// safeCall 任务 panic 时转为错误，不影响后续调度
func safeCall(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx)
}
