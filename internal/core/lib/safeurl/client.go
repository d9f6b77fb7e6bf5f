/**
 * 受控 HTTP 客户端 (Guarded Fetch)
 * @author: sun977
 * @date: 2026.03.14
 * @description: 扫描器访问网络的唯一通道。
 * 传输层禁用自动重定向，收到 3xx 时先把 Location 解析成绝对地址、
 * 重新过一遍 SSRF 校验，再发起下一跳请求；跳转次数受策略上限约束。
 */
package safeurl

import (
	"context"
	"crypto/tls"
	"io"
	"net/http"
	"net/url"
	"time"

	"neorecon/internal/pkg/version"
)

// DefaultFetchTimeout 单次 HTTP 请求的默认超时
const DefaultFetchTimeout = 8 * time.Second

// Client 受控 HTTP 客户端
// 每一跳 (包括中途重定向) 都经过 Validator 校验，没有绕过校验的访问路径
type Client struct {
	validator *Validator
	policy    Policy
	inner     *http.Client
	userAgent string
}

// NewClient 创建受控客户端
// timeout <= 0 时使用 DefaultFetchTimeout
func NewClient(validator *Validator, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Client{
		validator: validator,
		policy:    validator.Policy(),
		inner: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				// 侦察目标经常是自签/过期证书，证书有效性不是这里要回答的问题
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
			// 禁用传输层自动重定向，跳转由 Do 手动控制并逐跳校验
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: version.GetUserAgent(),
	}
}

// Do 发起经过校验的请求，手动跟随重定向
// 返回第一个非 3xx 响应；策略违规返回 *PolicyViolationError，
// 跳转超限返回 *RedirectLimitError，其余为一般传输错误
func (c *Client) Do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	current := rawURL

	if outcome := c.validator.Validate(ctx, current); !outcome.Valid {
		return nil, &PolicyViolationError{URL: current, Reason: outcome.Error}
	}

	for hop := 0; hop <= c.policy.MaxRedirects; hop++ {
		resp, err := c.request(ctx, method, current)
		if err != nil {
			return nil, err
		}

		location := redirectTarget(resp)
		if location == "" {
			// 非重定向响应，原样返回
			return resp, nil
		}

		// 响应体不再使用，排干以便连接复用
		drain(resp)

		next, err := resolveLocation(current, location)
		if err != nil {
			return nil, &PolicyViolationError{URL: location, Reason: "unparseable redirect target"}
		}

		// 重定向目标重新校验后才允许发起下一跳
		if outcome := c.validator.Validate(ctx, next); !outcome.Valid {
			return nil, &PolicyViolationError{URL: next, Reason: outcome.Error}
		}
		current = next
	}

	return nil, &RedirectLimitError{URL: rawURL, Limit: c.policy.MaxRedirects}
}

// Get 受控 GET 请求
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.Do(ctx, http.MethodGet, rawURL)
}

// Head 受控 HEAD 请求
func (c *Client) Head(ctx context.Context, rawURL string) (*http.Response, error) {
	return c.Do(ctx, http.MethodHead, rawURL)
}

// Probe 校验后发起单次请求，不跟随重定向
// 3xx 响应原样返回，调用方可以读取 Location 上报跳转目标而不去访问它
func (c *Client) Probe(ctx context.Context, method, rawURL string) (*http.Response, error) {
	if outcome := c.validator.Validate(ctx, rawURL); !outcome.Valid {
		return nil, &PolicyViolationError{URL: rawURL, Reason: outcome.Error}
	}
	return c.request(ctx, method, rawURL)
}

// request 发起单次 HTTP 请求
func (c *Client) request(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", c.userAgent)
	return c.inner.Do(req)
}

// redirectTarget 返回重定向响应的 Location，非重定向返回空串
func redirectTarget(resp *http.Response) string {
	if resp.StatusCode < 300 || resp.StatusCode > 399 {
		return ""
	}
	return resp.Header.Get("Location")
}

// resolveLocation 把 Location 头相对当前 URL 解析为绝对地址
func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// ReadBodyLimited 读取响应体并关闭，最多读取 limit 字节以约束内存
func ReadBodyLimited(resp *http.Response, limit int64) ([]byte, error) {
	defer resp.Body.Close()
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
}
