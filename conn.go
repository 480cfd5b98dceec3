package gatt

import "net"

// A BDAddr (Bluetooth Device Address) is a hardware-addressed-based net.Addr.
// It is the peer identity connections and the registry are keyed by.
type BDAddr struct{ net.HardwareAddr }

func (a BDAddr) Network() string { return "BLE" }

// IsZero reports whether a holds no address.
func (a BDAddr) IsZero() bool { return len(a.HardwareAddr) == 0 }

// ParseBDAddr parses s as a colon separated device address.
func ParseBDAddr(s string) (BDAddr, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return BDAddr{}, err
	}
	return BDAddr{hw}, nil
}

// MustParseBDAddr is like ParseBDAddr but panics in case of error.
func MustParseBDAddr(s string) BDAddr {
	a, err := ParseBDAddr(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Phy is a physical layer mode.
type Phy int

const (
	PhyUnknown Phy = iota
	Phy1M
	Phy2M
	PhyCoded
)

func (p Phy) String() string {
	str := []string{"unknown", "LE 1M", "LE 2M", "LE Coded"}
	if p < 0 || int(p) >= len(str) {
		return "unknown"
	}
	return str[p]
}
