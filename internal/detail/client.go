package detail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"agri-map/internal/logger"
	"agri-map/internal/metrics"
)

const maxPayloadBytes = 16 << 20

// 文档注释：明细 HTTP 客户端
// 背景：GET {BaseURL}/country/{country}?sector={sector}，返回 Payload。
// 约束：Client 为空时使用 5s 超时的默认客户端；非 2xx、解码失败与 success=false 均包装 ErrDetailUnavailable；不做重试。
type HTTPClient struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPClient 构造客户端；timeout<=0 时取 5s
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPClient{BaseURL: strings.TrimRight(baseURL, "/"), Client: &http.Client{Timeout: timeout}}
}

func (c *HTTPClient) Fetch(ctx context.Context, country, sector string) (*Payload, error) {
	if c == nil || c.BaseURL == "" {
		return nil, fmt.Errorf("%w: missing base url", ErrDetailUnavailable)
	}
	if country == "" {
		return nil, errors.New("missing country")
	}
	q := url.Values{}
	if sector != "" {
		q.Set("sector", sector)
	}
	u := strings.TrimRight(c.BaseURL, "/") + "/country/" + url.PathEscape(country)
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	t0 := time.Now()
	metrics.DetailRequestsTotal.Inc()
	logger.L().Debug("detail_req", "country", country, "sector", sector)
	resp, err := client.Do(req)
	if err != nil {
		logger.L().Error("detail_http_error", "country", country, "err", err)
		metrics.DetailFailTotal.Inc()
		return nil, fmt.Errorf("%w: %v", ErrDetailUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.DetailFailTotal.Inc()
		logger.L().Warn("detail_http_status", "country", country, "status", resp.StatusCode)
		return nil, fmt.Errorf("%w: http %d", ErrDetailUnavailable, resp.StatusCode)
	}
	var p Payload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadBytes)).Decode(&p); err != nil {
		logger.L().Error("detail_decode_error", "country", country, "err", err)
		metrics.DetailFailTotal.Inc()
		return nil, fmt.Errorf("%w: %v", ErrDetailUnavailable, err)
	}
	dur := time.Since(t0).Milliseconds()
	metrics.DetailDurationMs.Observe(float64(dur))
	logger.L().Debug("detail_resp", "country", country, "sector", sector, "success", p.Success, "records", len(p.Data), "duration_ms", dur)
	if !p.Success {
		metrics.DetailFailTotal.Inc()
		return &p, ErrDetailUnavailable
	}
	return &p, nil
}

// Ping 检查上游可达；任何 HTTP 响应都视为可达
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.BaseURL, nil)
	if err != nil {
		return err
	}
	client := c.Client
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}
