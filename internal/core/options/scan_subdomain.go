package options

import (
	"fmt"
	"time"

	"neorecon/internal/core/model"
)

// SubdomainScanOptions 子域名枚举命令参数
type SubdomainScanOptions struct {
	Target         string // 目标域名或 URL
	WildcardFilter string // 泛解析过滤模式 (ip-equality/off)
	Output         OutputOptions
}

func NewSubdomainScanOptions() *SubdomainScanOptions {
	return &SubdomainScanOptions{}
}

func (o *SubdomainScanOptions) Validate() error {
	if o.Target == "" {
		return fmt.Errorf("target is required")
	}
	switch o.WildcardFilter {
	case "", "ip-equality", "off":
	default:
		return fmt.Errorf("invalid wildcard filter: %s (want ip-equality or off)", o.WildcardFilter)
	}
	return nil
}

func (o *SubdomainScanOptions) ToTask() *model.Task {
	task := model.NewTask(model.TaskTypeSubdomain, o.Target)
	task.Timeout = 10 * time.Minute

	if o.WildcardFilter != "" {
		task.Params["wildcard_filter"] = o.WildcardFilter
	}

	o.Output.ApplyToParams(task.Params)

	return task
}
