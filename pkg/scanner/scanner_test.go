package scanner

import (
	"context"
	"net"
	"net/netip"
	"reflect"
	"strconv"
	"testing"
	"time"
)

func listenLoopback(t *testing.T) (net.Listener, int) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	_, portStr, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		t.Fatalf("SplitHostPort: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("Atoi: %v", err)
	}
	return ln, port
}

// closedLoopbackPort returns a port that refuses connections: grab an
// ephemeral port, then release it.
func closedLoopbackPort(t *testing.T) int {
	t.Helper()
	ln, port := listenLoopback(t)
	_ = ln.Close()
	return port
}

func testOptions(ports []int) *Options {
	return &Options{
		Ports:       ports,
		Timeout:     200 * time.Millisecond,
		Concurrency: 16,
		Silent:      true,
	}
}

func TestScanOpenAndClosedPorts(t *testing.T) {
	_, openPort := listenLoopback(t)
	closedPort := closedLoopbackPort(t)

	sc, err := NewScanner(testOptions([]int{closedPort, openPort}))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}

	results, err := sc.Scan(context.Background(), []netip.Addr{netip.MustParseAddr("127.0.0.1")})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("len mismatch: got=%d want=1", len(results))
	}
	if !reflect.DeepEqual(results[0].OpenPorts, []int{openPort}) {
		t.Fatalf("open ports mismatch: got=%v want=%v", results[0].OpenPorts, []int{openPort})
	}
}

func TestScanKeepsInputOrder(t *testing.T) {
	_, openPort := listenLoopback(t)

	// Only 127.0.0.1 listens; the rest of the loopback block refuses.
	addrs := []netip.Addr{
		netip.MustParseAddr("127.0.0.3"),
		netip.MustParseAddr("127.0.0.1"),
		netip.MustParseAddr("127.0.0.2"),
	}

	sc, err := NewScanner(testOptions([]int{openPort}))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	results, err := sc.Scan(context.Background(), addrs)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	if len(results) != len(addrs) {
		t.Fatalf("len mismatch: got=%d want=%d", len(results), len(addrs))
	}
	for i, r := range results {
		if r.Addr != addrs[i] {
			t.Fatalf("order mismatch at %d: got=%v want=%v", i, r.Addr, addrs[i])
		}
	}
	if len(results[0].OpenPorts) != 0 || len(results[2].OpenPorts) != 0 {
		t.Fatalf("unexpected open ports: %v %v", results[0].OpenPorts, results[2].OpenPorts)
	}
	if !reflect.DeepEqual(results[1].OpenPorts, []int{openPort}) {
		t.Fatalf("open ports mismatch: got=%v want=%v", results[1].OpenPorts, []int{openPort})
	}
}

func TestScanPreservesRequestPortOrder(t *testing.T) {
	_, p1 := listenLoopback(t)
	_, p2 := listenLoopback(t)
	closed := closedLoopbackPort(t)

	ports := []int{p2, closed, p1}
	sc, err := NewScanner(testOptions(ports))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	results, err := sc.Scan(context.Background(), []netip.Addr{netip.MustParseAddr("127.0.0.1")})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}

	want := []int{p2, p1}
	if !reflect.DeepEqual(results[0].OpenPorts, want) {
		t.Fatalf("open ports mismatch: got=%v want=%v", results[0].OpenPorts, want)
	}
	// the request list itself stays untouched
	if !reflect.DeepEqual(ports, []int{p2, closed, p1}) {
		t.Fatalf("request ports mutated: %v", ports)
	}
}

func TestScanOnResultCallback(t *testing.T) {
	_, openPort := listenLoopback(t)

	opts := testOptions([]int{openPort})
	seen := make(chan *HostResult, 1)
	opts.OnResult = func(r *HostResult) {
		select {
		case seen <- r:
		default:
		}
	}

	sc, err := NewScanner(opts)
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	if _, err := sc.Scan(context.Background(), []netip.Addr{netip.MustParseAddr("127.0.0.1")}); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	select {
	case r := <-seen:
		if r.Addr != netip.MustParseAddr("127.0.0.1") {
			t.Fatalf("callback addr mismatch: %v", r.Addr)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("OnResult not called")
	}
}

func TestScanCanceledContext(t *testing.T) {
	sc, err := NewScanner(testOptions([]int{80}))
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := sc.Scan(ctx, []netip.Addr{netip.MustParseAddr("127.0.0.1")}); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestNewScannerDefaults(t *testing.T) {
	sc, err := NewScanner(&Options{})
	if err != nil {
		t.Fatalf("NewScanner: %v", err)
	}
	if !reflect.DeepEqual(sc.options.Ports, DefaultPorts) {
		t.Fatalf("default ports mismatch: %v", sc.options.Ports)
	}
	if sc.options.Timeout != DefaultTimeout {
		t.Fatalf("default timeout mismatch: %v", sc.options.Timeout)
	}
	if sc.options.Concurrency != DefaultConcurrency {
		t.Fatalf("default concurrency mismatch: %v", sc.options.Concurrency)
	}
}

func TestParsePorts(t *testing.T) {
	got, err := ParsePorts("80, 443,8000-8002")
	if err != nil {
		t.Fatalf("ParsePorts: %v", err)
	}
	want := []int{80, 443, 8000, 8001, 8002}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ports mismatch: got=%v want=%v", got, want)
	}

	got, err = ParsePorts("")
	if err != nil {
		t.Fatalf("ParsePorts empty: %v", err)
	}
	if !reflect.DeepEqual(got, DefaultPorts) {
		t.Fatalf("default ports mismatch: got=%v want=%v", got, DefaultPorts)
	}

	for _, bad := range []string{"abc", "0", "65536", "100-50", "70000-70001", ","} {
		if _, err := ParsePorts(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
