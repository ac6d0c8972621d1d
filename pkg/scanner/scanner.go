package scanner

import (
	"context"
	"net"
	"net/netip"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/zan8in/gologger"
)

// HostResult holds the ports found open on a single address. OpenPorts
// preserves the request port order and is written once, by the probe task
// that owns the host.
type HostResult struct {
	Addr      netip.Addr
	OpenPorts []int
}

// Scanner sweeps a set of addresses with TCP connect probes.
type Scanner struct {
	options   *Options
	progress  uint64
	openCount uint64
}

// NewScanner creates a new scanner instance
func NewScanner(opt *Options) (*Scanner, error) {
	if opt == nil {
		opt = DefaultOptions()
	}
	if len(opt.Ports) == 0 {
		opt.Ports = append([]int(nil), DefaultPorts...)
	}
	if opt.Timeout <= 0 {
		opt.Timeout = DefaultTimeout
	}
	if opt.Concurrency <= 0 {
		opt.Concurrency = DefaultConcurrency
	}
	return &Scanner{options: opt}, nil
}

type scanTask struct {
	index int
	addr  netip.Addr
}

// Scan probes every address for the configured ports and returns one
// HostResult per address, in input order. Each task writes into its own
// index slot, so output order never depends on completion order. A closed
// port is data, not an error; Scan itself fails only when the pool cannot
// run tasks or ctx is done before all tasks are queued.
func (s *Scanner) Scan(ctx context.Context, addrs []netip.Addr) ([]*HostResult, error) {
	results := make([]*HostResult, len(addrs))
	startTime := time.Now()

	if !s.options.Silent {
		gologger.Info().Msgf("%-10s | %-9s | hosts=%d ports=%d", "Sweep", "started", len(addrs), len(s.options.Ports))
	}

	var wg sync.WaitGroup
	pool, err := ants.NewPoolWithFunc(s.options.Concurrency, func(i interface{}) {
		defer wg.Done()
		task := i.(scanTask)
		results[task.index] = s.scanHost(task.addr)
		atomic.AddUint64(&s.progress, 1)
	})
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	for i, addr := range addrs {
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		default:
		}

		wg.Add(1)
		if err := pool.Invoke(scanTask{index: i, addr: addr}); err != nil {
			wg.Done()
			wg.Wait()
			return nil, err
		}
	}
	wg.Wait()

	if !s.options.Silent {
		gologger.Info().Msgf("%-10s | %-9s | hosts=%d open=%d duration=%s",
			"Sweep",
			"completed",
			atomic.LoadUint64(&s.progress),
			atomic.LoadUint64(&s.openCount),
			time.Since(startTime).Truncate(time.Millisecond),
		)
	}

	return results, nil
}

// scanHost probes the request ports one after another. Sequential probing
// bounds a host to len(ports) * timeout and keeps OpenPorts in request
// order. The task works on its own copy of the port list.
func (s *Scanner) scanHost(addr netip.Addr) *HostResult {
	ports := append([]int(nil), s.options.Ports...)

	result := &HostResult{Addr: addr}
	for _, port := range ports {
		if !s.probePort(addr, port) {
			continue
		}
		result.OpenPorts = append(result.OpenPorts, port)
		atomic.AddUint64(&s.openCount, 1)
	}

	if s.options.OnResult != nil {
		s.options.OnResult(result)
	}
	return result
}

// probePort reports whether a TCP connection to addr:port completes within
// the timeout. Refusal, timeout and unreachable routes all count as
// closed, no retry.
func (s *Scanner) probePort(addr netip.Addr, port int) bool {
	address := net.JoinHostPort(addr.String(), strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp4", address, s.options.Timeout)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}
