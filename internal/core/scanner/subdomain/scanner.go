/**
 * 子域名枚举扫描器
 * @author: sun977
 * @date: 2026.03.22
 * @description: 基于内置字典的子域名枚举。
 * 流程: 提取注册域 -> 泛解析探测 -> 按批并发探测候选 (DNS + HTTPS/HTTP HEAD)。
 * 泛解析探测必须先于候选探测执行，否则带通配记录的域会让所有候选"看起来都存在"。
 */

package subdomain

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"neorecon/internal/core/lib/pool"
	"neorecon/internal/core/lib/safeurl"
	"neorecon/internal/core/model"
	"neorecon/internal/pkg/logger"
)

// WildcardFilter 泛解析噪声过滤模式
const (
	// WildcardFilterIPEquality 解析地址集与泛解析地址集完全相等时判为噪声 (默认)
	WildcardFilterIPEquality = "ip-equality"
	// WildcardFilterOff 不过滤，所有解析成功的候选都计入发现
	WildcardFilterOff = "off"
)

// Options 枚举参数
type Options struct {
	BatchSize      int           // 每批并发探测的候选数
	DNSTimeout     time.Duration // 单次 DNS 解析超时
	ProbeTimeout   time.Duration // 单次 HTTP HEAD 探测超时
	MaxDiscoveries int           // 早停阈值，批与批之间检查
	WildcardFilter string        // 泛解析过滤模式
}

// DefaultOptions 默认枚举参数
func DefaultOptions() Options {
	return Options{
		BatchSize:      10,
		DNSTimeout:     3 * time.Second,
		ProbeTimeout:   3 * time.Second,
		MaxDiscoveries: 20,
		WildcardFilter: WildcardFilterIPEquality,
	}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.BatchSize < 1 {
		o.BatchSize = d.BatchSize
	}
	if o.DNSTimeout <= 0 {
		o.DNSTimeout = d.DNSTimeout
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = d.ProbeTimeout
	}
	if o.MaxDiscoveries < 1 {
		o.MaxDiscoveries = d.MaxDiscoveries
	}
	if o.WildcardFilter == "" {
		o.WildcardFilter = d.WildcardFilter
	}
	return o
}

// SubdomainScanner 子域名枚举扫描器
type SubdomainScanner struct {
	opts   Options
	client *safeurl.Client

	// 出站操作入口，测试时注入假实现
	resolve func(ctx context.Context, host string) safeurl.Resolution
	probe   func(ctx context.Context, method, rawURL string) (*http.Response, error)
}

// NewSubdomainScanner 创建子域名枚举扫描器
func NewSubdomainScanner(policy safeurl.Policy, opts Options) *SubdomainScanner {
	opts = opts.normalized()
	client := safeurl.NewClient(safeurl.NewValidator(policy), opts.ProbeTimeout)

	s := &SubdomainScanner{
		opts:   opts,
		client: client,
	}
	s.resolve = func(ctx context.Context, host string) safeurl.Resolution {
		return safeurl.Resolve(ctx, nil, host, opts.DNSTimeout)
	}
	s.probe = client.Probe
	return s
}

// Name 扫描器名称
func (s *SubdomainScanner) Name() model.TaskType {
	return model.TaskTypeSubdomain
}

// Run 执行扫描任务
func (s *SubdomainScanner) Run(ctx context.Context, task *model.Task) ([]*model.TaskResult, error) {
	startTime := time.Now()

	result, err := s.Collect(ctx, task.Target)
	if err != nil {
		return nil, err
	}

	taskResult := &model.TaskResult{
		TaskID:    task.ID,
		Status:    model.TaskStatusCompleted,
		Data:      result,
		StartTime: startTime,
		EndTime:   time.Now(),
	}
	return []*model.TaskResult{taskResult}, nil
}

// Collect 对目标执行一次完整的子域名枚举
// 目标可以是 URL 或裸主机名；种子无法解析为主机名时直接报错，不发起任何网络操作
func (s *SubdomainScanner) Collect(ctx context.Context, target string) (*model.SubdomainScanResult, error) {
	host, err := targetHostname(target)
	if err != nil {
		return nil, err
	}
	base := BaseDomain(host)

	result := &model.SubdomainScanResult{
		Domain:     base,
		Discovered: []model.SubdomainProbe{},
	}

	// 1. 泛解析探测
	wildcardAddrs := s.detectWildcard(ctx, base)
	if len(wildcardAddrs) > 0 {
		result.HasWildcard = true
		result.WildcardIP = wildcardAddrs[0]
		logger.Warnf("wildcard DNS detected for %s (resolves to %s), filter mode: %s",
			base, result.WildcardIP, s.opts.WildcardFilter)
	}

	// 2. 按批并发探测候选
	for start := 0; start < len(candidateNames); start += s.opts.BatchSize {
		// 早停检查只在批与批之间进行，在途批次总是完整落定
		if len(result.Discovered) >= s.opts.MaxDiscoveries {
			logger.Infof("subdomain scan for %s stopped early after %d discoveries", base, len(result.Discovered))
			break
		}

		end := start + s.opts.BatchSize
		if end > len(candidateNames) {
			end = len(candidateNames)
		}
		batch := candidateNames[start:end]

		// 每个探测只写自己的结果槽位，聚合在批落定后进行
		probes := make([]model.SubdomainProbe, len(batch))
		err := pool.RunBatch(ctx, s.opts.BatchSize, len(batch), func(i int) {
			probes[i] = s.probeCandidate(ctx, batch[i], base, wildcardAddrs)
		})
		result.TotalChecked += len(batch)
		if err != nil {
			return result, err
		}

		for _, p := range probes {
			if p.Resolved {
				result.Discovered = append(result.Discovered, p)
			}
		}
	}

	logger.Infof("subdomain scan for %s finished: %d checked, %d discovered",
		base, result.TotalChecked, len(result.Discovered))
	return result, nil
}

// detectWildcard 解析一个几乎必然不存在的随机标签
// 解析成功说明域配置了泛解析，返回解析出的地址集 (已排序)
func (s *SubdomainScanner) detectWildcard(ctx context.Context, base string) []string {
	res := s.resolve(ctx, randomProbeLabel()+"."+base)
	if res.Status != safeurl.StatusResolved {
		return nil
	}
	addrs := res.Addresses()
	sort.Strings(addrs)
	return addrs
}

// probeCandidate 探测单个候选: DNS 解析 -> 泛解析噪声判定 -> HTTPS/HTTP HEAD
func (s *SubdomainScanner) probeCandidate(ctx context.Context, name, base string, wildcardAddrs []string) model.SubdomainProbe {
	probe := model.SubdomainProbe{
		Subdomain:  name,
		FullDomain: name + "." + base,
	}

	res := s.resolve(ctx, probe.FullDomain)
	if res.Status != safeurl.StatusResolved {
		return probe
	}
	addrs := res.Addresses()
	sort.Strings(addrs)

	// 地址集与泛解析地址集完全相等时视为 DNS 噪声
	// 只做字面量比较，与泛解析同 IP 托管的真实子域会被一并排除
	if s.opts.WildcardFilter == WildcardFilterIPEquality && ipSetEqual(addrs, wildcardAddrs) {
		return probe
	}

	probe.Resolved = true
	probe.IPAddresses = addrs

	// HTTPS 优先，失败回退 HTTP；探测不跟随跳转，3xx 只记录目标
	if resp, err := s.probe(ctx, http.MethodHead, "https://"+probe.FullDomain); err == nil {
		probe.Accessible = true
		probe.HasSSL = true
		probe.HTTPStatus = resp.StatusCode
		probe.RedirectsTo = locationOf(resp)
		closeBody(resp)
		return probe
	}

	if resp, err := s.probe(ctx, http.MethodHead, "http://"+probe.FullDomain); err == nil {
		probe.Accessible = true
		probe.HTTPStatus = resp.StatusCode
		probe.RedirectsTo = locationOf(resp)
		closeBody(resp)
	}
	return probe
}

// targetHostname 从目标字符串提取主机名，支持完整 URL 和裸主机名
func targetHostname(target string) (string, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return "", fmt.Errorf("empty scan target")
	}

	raw := target
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Hostname() == "" {
		return "", fmt.Errorf("cannot derive hostname from target: %s", target)
	}
	return strings.ToLower(parsed.Hostname()), nil
}

// ipSetEqual 判断两个已排序的地址集是否完全相等
func ipSetEqual(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func locationOf(resp *http.Response) string {
	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return ""
	}
	return resp.Header.Get("Location")
}

func closeBody(resp *http.Response) {
	if resp.Body != nil {
		resp.Body.Close()
	}
}
