package iprange

import (
	"fmt"
	"net/netip"
)

// ParseAddr parses a dotted-quad IPv4 address. IPv6 addresses and
// hostnames are rejected.
func ParseAddr(s string) (netip.Addr, error) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("invalid IPv4 address %q: %v", s, err)
	}
	if !addr.Is4() {
		return netip.Addr{}, fmt.Errorf("invalid IPv4 address %q: not a dotted quad", s)
	}
	return addr, nil
}

// Iterator enumerates the addresses covered by a base IPv4 address whose
// zero-valued octets act as wildcards. Enumeration is lazy, so even a
// four-wildcard base (0.0.0.0, a 2^32-sized space) can be walked without
// materializing the range.
//
// With no zero octets the base is treated as a single host and yielded
// as-is. Otherwise the space size is 256^z for z wildcard octets;
// enumeration starts at index 1, which skips the all-zero network value,
// and when the size is exactly 256 the last index is dropped as well so
// the broadcast value in that field is never produced. Wider wildcard
// ranges get no broadcast exclusion; the asymmetry is kept on purpose.
type Iterator struct {
	base   [4]byte
	zeros  []int
	count  uint64
	index  uint64
	single bool
}

// NewIterator builds an iterator for base. base must be an IPv4 address,
// see ParseAddr.
func NewIterator(base netip.Addr) *Iterator {
	octets := base.As4()

	// wildcard positions, rightmost octet first
	var zeros []int
	for i := 3; i >= 0; i-- {
		if octets[i] == 0 {
			zeros = append(zeros, i)
		}
	}

	it := &Iterator{base: octets, zeros: zeros}
	if len(zeros) == 0 {
		it.single = true
		it.count = 2
	} else {
		it.count = 1 << (8 * uint(len(zeros)))
		if it.count == 256 {
			it.count--
		}
	}
	it.Reset()
	return it
}

// Total returns the number of addresses the iterator yields.
func (it *Iterator) Total() uint64 {
	if it.single {
		return 1
	}
	return it.count - 1
}

// Next returns the next address in the range, in increasing index order.
func (it *Iterator) Next() (netip.Addr, bool) {
	if it.index >= it.count {
		return netip.Addr{}, false
	}
	i := it.index
	it.index++

	if it.single {
		return netip.AddrFrom4(it.base), true
	}

	// Decompose the index into its digit components and substitute them
	// into the wildcard positions, lowest digit into the rightmost zero
	// octet. The lowest digit is base 255, the rest are base 256.
	digits := [4]uint64{
		i % 255,
		i / 255 % 256,
		i / 255 / 255 % 256,
		i / 255 / 255 / 255 % 256,
	}
	octets := it.base
	for n, pos := range it.zeros {
		octets[pos] = byte(digits[n])
	}
	return netip.AddrFrom4(octets), true
}

// Reset rewinds the iterator to the first address.
func (it *Iterator) Reset() {
	it.index = 1
}

// Expand materializes the full range for base. Callers holding a base with
// two or more wildcard octets should prefer walking the Iterator; a range
// that wide gets large fast.
func Expand(base netip.Addr) []netip.Addr {
	it := NewIterator(base)
	addrs := make([]netip.Addr, 0, it.Total())
	for {
		addr, ok := it.Next()
		if !ok {
			return addrs
		}
		addrs = append(addrs, addr)
	}
}
