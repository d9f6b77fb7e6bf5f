// 自定义日志格式化器
package logger

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// LogType 日志类型枚举
type LogType string

const (
	// ErrorLog 错误日志 - 记录系统错误和异常
	ErrorLog LogType = "error"
	// SystemLog 系统日志 - 记录系统运行状态
	SystemLog LogType = "system"
	// DebugLog 调试日志 - 记录开发调试信息
	DebugLog LogType = "debug"
	// ScanLog 扫描日志 - 记录扫描任务执行情况
	ScanLog LogType = "scan"
)

// SystemLogEntry 系统日志条目结构
type SystemLogEntry struct {
	Timestamp   time.Time              `json:"timestamp"`    // 时间
	Component   string                 `json:"component"`    // 系统组件（config, scanner, reporter等）
	Event       string                 `json:"event"`        // 事件类型（startup, shutdown, error等）
	Message     string                 `json:"message"`      // 详细信息
	Level       string                 `json:"level"`        // 日志级别
	ExtraFields map[string]interface{} `json:"extra_fields"` // 额外字段
}

// ScanLogEntry 扫描日志条目结构
type ScanLogEntry struct {
	Timestamp   time.Time              `json:"timestamp"`    // 扫描时间
	TaskID      string                 `json:"task_id"`      // 任务ID
	ScanType    string                 `json:"scan_type"`    // 扫描类型（subdomain, crawl）
	Target      string                 `json:"target"`       // 扫描目标
	Status      string                 `json:"status"`       // 扫描状态（running, completed, failed）
	Progress    int                    `json:"progress"`     // 扫描进度（0-100）
	Result      string                 `json:"result"`       // 扫描结果摘要
	Duration    int64                  `json:"duration"`     // 扫描耗时（毫秒）
	ExtraFields map[string]interface{} `json:"extra_fields"` // 额外字段
}

// LogSystemEvent 记录系统事件日志
// 用于记录系统启动、关闭、组件状态变化等系统级事件
func LogSystemEvent(component, event, message string, level LogLevel, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}

	// 转换为logrus级别
	logrusLevel := toLogrusLevel(level)

	entry := SystemLogEntry{
		Component: component,
		Event:     event,
		Message:   message,
		Level:     logrusLevel.String(),
	}

	fields := logrus.Fields{
		"type":      SystemLog,
		"component": entry.Component,
		"event":     entry.Event,
		"message":   entry.Message,
		"level":     entry.Level,
	}

	// 添加额外字段
	for k, v := range extraFields {
		fields[k] = v
	}

	// 根据级别记录日志
	switch logrusLevel {
	case logrus.DebugLevel:
		LoggerInstance.logger.WithFields(fields).Debug(fmt.Sprintf("System event: %s - %s", component, event))
	case logrus.InfoLevel:
		LoggerInstance.logger.WithFields(fields).Info(fmt.Sprintf("System event: %s - %s", component, event))
	case logrus.WarnLevel:
		LoggerInstance.logger.WithFields(fields).Warn(fmt.Sprintf("System event: %s - %s", component, event))
	case logrus.ErrorLevel:
		LoggerInstance.logger.WithFields(fields).Error(fmt.Sprintf("System event: %s - %s", component, event))
	case logrus.FatalLevel:
		LoggerInstance.logger.WithFields(fields).Fatal(fmt.Sprintf("System event: %s - %s", component, event))
	default:
		LoggerInstance.logger.WithFields(fields).Info(fmt.Sprintf("System event: %s - %s", component, event))
	}
}

// LogScanOperation 记录扫描操作日志
// 用于记录各种扫描任务的执行情况
func LogScanOperation(taskID, scanType, target, status string, progress int, result string, duration int64, extraFields map[string]interface{}) {
	if LoggerInstance == nil {
		return
	}

	entry := ScanLogEntry{
		TaskID:   taskID,
		ScanType: scanType,
		Target:   target,
		Status:   status,
		Progress: progress,
		Result:   result,
		Duration: duration,
	}

	fields := logrus.Fields{
		"type":      ScanLog,
		"task_id":   entry.TaskID,
		"scan_type": entry.ScanType,
		"target":    entry.Target,
		"status":    entry.Status,
		"progress":  entry.Progress,
		"result":    entry.Result,
		"duration":  entry.Duration,
	}

	// 添加额外字段
	for k, v := range extraFields {
		fields[k] = v
	}

	// 根据状态选择日志级别
	switch status {
	case "completed":
		LoggerInstance.logger.WithFields(fields).Info(fmt.Sprintf("Scan completed: %s on %s", scanType, target))
	case "failed":
		LoggerInstance.logger.WithFields(fields).Error(fmt.Sprintf("Scan failed: %s on %s", scanType, target))
	case "running":
		LoggerInstance.logger.WithFields(fields).Debug(fmt.Sprintf("Scan running: %s on %s (%d%%)", scanType, target, progress))
	default:
		LoggerInstance.logger.WithFields(fields).Info(fmt.Sprintf("Scan %s: %s on %s", status, scanType, target))
	}
}

// LogLevel 日志级别类型，封装logrus.Level避免调用层直接依赖logrus
type LogLevel int

const (
	// DebugLevel 调试级别
	DebugLevel LogLevel = iota
	// InfoLevel 信息级别
	InfoLevel
	// WarnLevel 警告级别
	WarnLevel
	// ErrorLevel 错误级别
	ErrorLevel
	// FatalLevel 致命错误级别
	FatalLevel
)

// toLogrusLevel 将封装的LogLevel转换为logrus.Level
// 这是内部函数，外部不应该直接使用logrus
func toLogrusLevel(level LogLevel) logrus.Level {
	switch level {
	case DebugLevel:
		return logrus.DebugLevel
	case InfoLevel:
		return logrus.InfoLevel
	case WarnLevel:
		return logrus.WarnLevel
	case ErrorLevel:
		return logrus.ErrorLevel
	case FatalLevel:
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}
