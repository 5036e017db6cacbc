package middleware

import (
	"net"
	"net/http"
	"strings"

	"agri-map/internal/logger"
)

// 文档注释：管理接口来源白名单（IP/CIDR）
// 背景：目录热加载等管理接口只对运维网段开放；其他来源统一返回 403。
// 约束：支持 IPv4/IPv6 CIDR；真实来源 IP 以 RemoteAddr 为准，配置 RealIPHeader 时取该头的首个有效 IP。
type Allowlist struct {
	ips          map[string]struct{}
	cidrs        []*net.IPNet
	RealIPHeader string
}

// NewAllowlist：entries 可混合单 IP 与 CIDR；allowLocal 放行回环地址；无法解析的条目被忽略
func NewAllowlist(entries []string, allowLocal bool, realIPHeader string) *Allowlist {
	a := &Allowlist{ips: map[string]struct{}{}, RealIPHeader: strings.TrimSpace(realIPHeader)}
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if strings.Contains(e, "/") {
			if _, n, err := net.ParseCIDR(e); err == nil {
				a.cidrs = append(a.cidrs, n)
			} else {
				logger.L().Warn("allowlist_bad_cidr", "entry", e)
			}
			continue
		}
		if ip := net.ParseIP(e); ip != nil {
			a.ips[ip.String()] = struct{}{}
		} else {
			logger.L().Warn("allowlist_bad_ip", "entry", e)
		}
	}
	if allowLocal {
		a.ips["127.0.0.1"] = struct{}{}
		a.ips["::1"] = struct{}{}
	}
	return a
}

// Allowed：判断 IP 是否在允许集合
func (a *Allowlist) Allowed(ip net.IP) bool {
	if ip == nil {
		return false
	}
	if _, ok := a.ips[ip.String()]; ok {
		return true
	}
	for _, n := range a.cidrs {
		if n.Contains(ip) {
			return true
		}
	}
	return false
}

// Wrap：不在白名单内的请求返回 403
func (a *Allowlist) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := ClientIP(r, a.RealIPHeader)
		if !a.Allowed(ip) {
			logger.L().Debug("allowlist_block", "ip", ip.String(), "path", r.URL.Path)
			w.Header().Set("content-type", "application/json; charset=utf-8")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP：解析请求来源 IP；header 非空时优先取其首个有效 IP
func ClientIP(r *http.Request, header string) net.IP {
	if header != "" {
		if raw := r.Header.Get(header); raw != "" {
			first := strings.TrimSpace(strings.Split(raw, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip
			}
		}
	}
	host := r.RemoteAddr
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	return net.ParseIP(host)
}
