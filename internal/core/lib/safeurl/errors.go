package safeurl

import (
	"errors"
	"fmt"
)

// PolicyViolationError 策略违规错误 (协议/主机/私有地址/DNS重绑定)
// 对单个请求是致命的，绝不允许降级放行；但在扫描层面只影响该目标
type PolicyViolationError struct {
	URL    string // 被拦截的 URL
	Reason string // 拦截原因
}

func (e *PolicyViolationError) Error() string {
	return fmt.Sprintf("request blocked by scan policy: %s (%s)", e.URL, e.Reason)
}

// RedirectLimitError 重定向次数超限错误
type RedirectLimitError struct {
	URL   string // 触发超限的起始 URL
	Limit int    // 策略允许的最大跳转数
}

func (e *RedirectLimitError) Error() string {
	return fmt.Sprintf("too many redirects fetching %s (limit %d)", e.URL, e.Limit)
}

// IsPolicyViolation 判断错误链中是否包含策略违规
func IsPolicyViolation(err error) bool {
	var pv *PolicyViolationError
	return errors.As(err, &pv)
}

// IsRedirectLimit 判断错误链中是否包含重定向超限
func IsRedirectLimit(err error) bool {
	var rl *RedirectLimitError
	return errors.As(err, &rl)
}
