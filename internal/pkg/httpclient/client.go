package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// Client 是一个可追踪的、可注入的HTTP客户端。
// 所有出站调用（邮编查询、地理编码、路径规划、支付网关）都经由它，
// 统一获得连接复用、Span 上报和 trace 上下文注入。
type Client struct {
	Tracer     trace.Tracer
	HTTPClient *http.Client
	// UserAgent 会加在每个出站请求上；公共地理服务要求自定义 UA
	UserAgent string
}

// NewClient 创建一个新的客户端实例。
func NewClient(tracer trace.Tracer, userAgent string) *Client {
	// 不设置 Timeout 字段，让请求完全受控于每次传入的 context
	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 100,
		},
	}
	return &Client{
		Tracer:     tracer,
		HTTPClient: httpClient,
		UserAgent:  userAgent,
	}
}

// GetJSON 对 rawURL 发起 GET 请求并将 2xx 响应体解码到 out。
// 非 2xx 状态码视为传输层错误直接返回。
func (c *Client) GetJSON(ctx context.Context, rawURL string, params url.Values, out interface{}) error {
	status, body, err := c.Do(ctx, http.MethodGet, rawURL, params, nil, nil)
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("request to %s returned status %d", rawURL, status)
	}
	return json.Unmarshal(body, out)
}

// Do 发起一次请求并返回状态码与原始响应体。
// 传输成功但状态码非 2xx 时不返回 error，由调用方决定如何解释——
// 支付网关适配器需要拿到原始错误体来构造网关错误。
func (c *Client) Do(ctx context.Context, method, rawURL string, params url.Values, headers http.Header, body []byte) (int, []byte, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return 0, nil, err
	}
	spanName := fmt.Sprintf("call-%s", strings.Split(parsedURL.Host, ":")[0])

	ctx, span := c.Tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	downstreamURL := *parsedURL
	q := downstreamURL.Query()
	for key, values := range params {
		for _, value := range values {
			q.Add(key, value)
		}
	}
	downstreamURL.RawQuery = q.Encode()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, downstreamURL.String(), reader)
	if err != nil {
		span.RecordError(err)
		return 0, nil, err
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if c.UserAgent != "" {
		req.Header.Set("User-Agent", c.UserAgent)
	}
	if body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	span.SetAttributes(
		attribute.String("http.url", downstreamURL.String()),
		attribute.String("http.method", method),
	)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return resp.StatusCode, nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode >= 400 {
		span.SetStatus(codes.Error, resp.Status)
	}
	return resp.StatusCode, respBody, nil
}
