package util

import (
	"fmt"
	"net"
)

// FindAvailablePort 从 startPort 开始查找可监听的端口，最多尝试 attempts 个
func FindAvailablePort(startPort, attempts int) (int, error) {
	if attempts <= 0 {
		attempts = 1
	}
	for p := startPort; p < startPort+attempts && p <= 65535; p++ {
		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", p))
		if err != nil {
			continue
		}
		ln.Close()
		return p, nil
	}
	return 0, fmt.Errorf("no available port in [%d, %d)", startPort, startPort+attempts)
}
