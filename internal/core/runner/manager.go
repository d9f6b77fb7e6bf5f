package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"neorecon/internal/core/model"
	"neorecon/internal/pkg/logger"
)

// RunnerManager 管理所有的 Runner
type RunnerManager struct {
	runners map[model.TaskType]Runner
	mu      sync.RWMutex
}

func NewRunnerManager() *RunnerManager {
	return &RunnerManager{
		runners: make(map[model.TaskType]Runner),
	}
}

// Register 注册一个 Runner
func (m *RunnerManager) Register(runner Runner) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runners[runner.Name()] = runner
}

// Get 获取指定类型的 Runner
func (m *RunnerManager) Get(taskType model.TaskType) (Runner, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if runner, ok := m.runners[taskType]; ok {
		return runner, nil
	}
	return nil, fmt.Errorf("no runner found for task type: %s", taskType)
}

// Execute 执行任务
// 任务自带的 Timeout 在这里统一施加到 context 上
func (m *RunnerManager) Execute(ctx context.Context, task *model.Task) ([]*model.TaskResult, error) {
	runner, err := m.Get(task.Type)
	if err != nil {
		return nil, err
	}

	if task.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, task.Timeout)
		defer cancel()
	}

	start := time.Now()
	logger.LogScanOperation(task.ID, string(task.Type), task.Target, "running", 0, "", 0, nil)

	results, err := runner.Run(ctx, task)
	duration := time.Since(start).Milliseconds()

	if err != nil {
		logger.LogScanOperation(task.ID, string(task.Type), task.Target, "failed", 100, err.Error(), duration, nil)
		return nil, err
	}

	logger.LogScanOperation(task.ID, string(task.Type), task.Target, "completed", 100,
		fmt.Sprintf("%d result(s)", len(results)), duration, nil)
	return results, nil
}
