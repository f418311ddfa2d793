package validator

import (
	"net"
	"strings"
)

// IsValidIP 验证 IP 地址格式（支持 IPv4 和 IPv6）
func IsValidIP(ip string) bool {
	if ip == "" {
		return false
	}
	return net.ParseIP(ip) != nil
}

// NormalizeIP 规范化 IP 地址
// 去掉方括号和 IPv6 zone identifier (例如 [fe80::1%eth0] -> fe80::1)
func NormalizeIP(ip string) string {
	ip = strings.TrimSuffix(strings.TrimPrefix(strings.TrimSpace(ip), "["), "]")
	if idx := strings.IndexByte(ip, '%'); idx != -1 {
		return ip[:idx]
	}
	return ip
}

// PeerIP 从 "host:port" 或纯 IP 形式的地址中取出 IP，无效时返回 defaultIP
func PeerIP(addr, defaultIP string) string {
	host := addr
	if h, _, err := net.SplitHostPort(addr); err == nil {
		host = h
	}

	normalized := NormalizeIP(host)
	if IsValidIP(normalized) {
		return normalized
	}
	return defaultIP
}
