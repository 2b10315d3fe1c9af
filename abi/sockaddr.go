package abi

import (
	"encoding/binary"
	"net"
	"net/netip"
)

// SizeOfSockaddrStorage は struct __kernel_sockaddr_storage のサイズです。
const SizeOfSockaddrStorage = 128

// Sockaddr は、sockaddr_storage に格納される sockaddr_in または sockaddr_in6 です。
//
// Familyが0の場合は、全て0で埋められたアドレスを表します。
type Sockaddr struct {
	Family uint16
	Addr   netip.AddrPort
}

// SockaddrFromNetAddr は、net.Addrを Sockaddr に変換します。
//
// TCPアドレス以外、またはアドレスが解釈できない場合はゼロ値を返します。
func SockaddrFromNetAddr(addr net.Addr) Sockaddr {
	tcpAddr, ok := addr.(*net.TCPAddr)
	if !ok || tcpAddr == nil {
		return Sockaddr{}
	}
	ap := tcpAddr.AddrPort()
	if !ap.IsValid() {
		return Sockaddr{}
	}
	if ap.Addr().Unmap().Is4() {
		return Sockaddr{
			Family: AF_INET,
			Addr:   netip.AddrPortFrom(ap.Addr().Unmap(), ap.Port()),
		}
	}
	return Sockaddr{Family: AF_INET6, Addr: ap}
}

func (s *Sockaddr) SizeBytes() int { return SizeOfSockaddrStorage }

func (s *Sockaddr) MarshalBytes(dst []byte) {
	dst = dst[:SizeOfSockaddrStorage]
	for i := range dst {
		dst[i] = 0
	}
	switch s.Family {
	case AF_INET:
		ByteOrder.PutUint16(dst[0:], AF_INET)
		binary.BigEndian.PutUint16(dst[2:], s.Addr.Port())
		a4 := s.Addr.Addr().As4()
		copy(dst[4:8], a4[:])
	case AF_INET6:
		ByteOrder.PutUint16(dst[0:], AF_INET6)
		binary.BigEndian.PutUint16(dst[2:], s.Addr.Port())
		a16 := s.Addr.Addr().As16()
		copy(dst[8:24], a16[:])
	}
}

func (s *Sockaddr) UnmarshalBytes(src []byte) {
	*s = Sockaddr{}
	family := ByteOrder.Uint16(src[0:])
	port := binary.BigEndian.Uint16(src[2:])
	switch family {
	case AF_INET:
		var a4 [4]byte
		copy(a4[:], src[4:8])
		s.Family = AF_INET
		s.Addr = netip.AddrPortFrom(netip.AddrFrom4(a4), port)
	case AF_INET6:
		var a16 [16]byte
		copy(a16[:], src[8:24])
		s.Family = AF_INET6
		s.Addr = netip.AddrPortFrom(netip.AddrFrom16(a16), port)
	}
}

func (s Sockaddr) String() string {
	if s.Family == 0 {
		return "<nil>"
	}
	return s.Addr.String()
}
