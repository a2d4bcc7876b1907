package gateway

import "net"

// HostOf - адрес без порта, используется для подсчета подключений с одного IP
func HostOf(remote string) string {
	host, _, err := net.SplitHostPort(remote)
	if err != nil {
		return remote
	}
	return host
}
