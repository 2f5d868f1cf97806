package dispatch

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// Peer is the single remote endpoint the dispatcher sends to and accepts
// datagrams from.
type Peer struct {
	Host string
	Port int
}

func (p Peer) String() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

func (p Peer) resolve() (*net.UDPAddr, error) {
	if p.Host == "" {
		return nil, errors.New("peer host is empty")
	}
	if p.Port < 1 || p.Port > 65535 {
		return nil, fmt.Errorf("bad peer port: %d", p.Port)
	}

	addr, err := net.ResolveUDPAddr("udp", p.String())
	if err != nil {
		return nil, fmt.Errorf("resolve peer %s: %w", p, err)
	}
	return addr, nil
}

func sameAddr(a, b *net.UDPAddr) bool {
	return a.Port == b.Port && a.IP.Equal(b.IP)
}
