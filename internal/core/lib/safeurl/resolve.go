/**
 * DNS 解析边界
 * @author: sun977
 * @date: 2026.03.12
 * @description: 把 net 包的解析结果在入口处归一化为显式的变体类型，
 * 下游逻辑对 Resolved/Unresolved/TimedOut 三种状态做穷举处理，而不是判空。
 */
package safeurl

import (
	"context"
	"errors"
	"net"
	"time"
)

// ResolveStatus DNS 解析状态
type ResolveStatus int

const (
	// StatusResolved 解析成功，Addrs 至少包含一个地址
	StatusResolved ResolveStatus = iota
	// StatusUnresolved 域名不存在或解析出错
	StatusUnresolved
	// StatusTimedOut 解析在限定时间内未完成
	StatusTimedOut
)

// Resolution 一次 DNS 解析的归一化结果
type Resolution struct {
	Status ResolveStatus
	Addrs  []net.IP
}

// Addresses 返回解析出的地址字符串列表
func (r Resolution) Addresses() []string {
	out := make([]string, 0, len(r.Addrs))
	for _, ip := range r.Addrs {
		out = append(out, ip.String())
	}
	return out
}

// LookupFunc 域名解析函数，测试时可注入假实现
type LookupFunc func(ctx context.Context, host string) ([]net.IP, error)

// DefaultDNSTimeout 单次 DNS 解析的超时时间
const DefaultDNSTimeout = 3 * time.Second

// defaultLookup 使用系统解析器
func defaultLookup(ctx context.Context, host string) ([]net.IP, error) {
	addrs, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, err
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, a := range addrs {
		ips = append(ips, a.IP)
	}
	return ips, nil
}

// Resolve 在 timeout 内解析 host，超时/失败都折叠为确定的状态而不是挂起
// lookup 为 nil 时使用系统解析器
func Resolve(ctx context.Context, lookup LookupFunc, host string, timeout time.Duration) Resolution {
	return resolveHost(ctx, lookup, host, timeout)
}

func resolveHost(ctx context.Context, lookup LookupFunc, host string, timeout time.Duration) Resolution {
	if lookup == nil {
		lookup = defaultLookup
	}
	if timeout <= 0 {
		timeout = DefaultDNSTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ips, err := lookup(ctx, host)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return Resolution{Status: StatusTimedOut}
		}
		return Resolution{Status: StatusUnresolved}
	}
	if len(ips) == 0 {
		return Resolution{Status: StatusUnresolved}
	}
	return Resolution{Status: StatusResolved, Addrs: ips}
}
