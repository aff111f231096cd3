package connectivity

import "net"

// InterfaceScanner reports online when any interface is up, is not a
// loopback, and carries a global unicast address.
type InterfaceScanner struct{}

// Scan implements Scanner.
func (InterfaceScanner) Scan() (bool, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return false, err
	}
	infos := make([]interfaceInfo, 0, len(ifaces))
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		infos = append(infos, interfaceInfo{flags: iface.Flags, addrs: addrs})
	}
	return anyInternetCapable(infos), nil
}

type interfaceInfo struct {
	flags net.Flags
	addrs []net.Addr
}

func anyInternetCapable(infos []interfaceInfo) bool {
	for _, info := range infos {
		if info.flags&net.FlagUp == 0 || info.flags&net.FlagLoopback != 0 {
			continue
		}
		for _, addr := range info.addrs {
			if ip := addrIP(addr); ip != nil && ip.IsGlobalUnicast() {
				return true
			}
		}
	}
	return false
}

func addrIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPNet:
		return a.IP
	case *net.IPAddr:
		return a.IP
	default:
		return nil
	}
}
