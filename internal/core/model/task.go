/**
 * 任务模型定义 (Core Domain)
 * @author: sun977
 * @date: 2026.03.10
 * @description: 核心任务模型，解耦了 CLI 依赖。这是连接命令层和扫描器的通用语言。
 */

package model

import (
	"time"

	"neorecon/internal/pkg/utils"
)

// TaskType 定义任务类型
type TaskType string

const (
	TaskTypeSubdomain TaskType = "subdomain" // 子域名枚举
	TaskTypeCrawl     TaskType = "crawl"     // 站点页面爬取
)

// TaskStatus 定义任务状态
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

// Task 核心任务结构体
// 无论任务来自哪个命令入口，最终都必须转换为此结构体
type Task struct {
	ID        string                 `json:"id"`
	Type      TaskType               `json:"type"`
	Target    string                 `json:"target"`           // 扫描目标 (URL)
	Params    map[string]interface{} `json:"params,omitempty"` // 任务特定参数
	Timeout   time.Duration          `json:"timeout"`
	Priority  int                    `json:"priority"`
	CreatedAt time.Time              `json:"created_at"`
}

// TaskResult 任务执行结果
type TaskResult struct {
	TaskID    string      `json:"task_id"`
	Status    TaskStatus  `json:"status"`
	Data      interface{} `json:"data"` // 具体的扫描结果 (强类型结构体)
	Error     string      `json:"error,omitempty"`
	StartTime time.Time   `json:"start_time"`
	EndTime   time.Time   `json:"end_time"`
}

// NewTask 创建一个新任务
func NewTask(taskType TaskType, target string) *Task {
	return &Task{
		ID:        utils.GenerateSimpleUUID(),
		Type:      taskType,
		Target:    target,
		CreatedAt: time.Now(),
		Params:    make(map[string]interface{}),
	}
}
