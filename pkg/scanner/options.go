package scanner

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// DefaultPorts is the probe set used when a request names no ports.
var DefaultPorts = []int{80, 22, 443, 8080}

const (
	// DefaultTimeout is the per-connection limit; a port that does not
	// complete the handshake within it counts as closed.
	DefaultTimeout = 1 * time.Second

	// DefaultConcurrency caps the probe worker pool. One task is queued
	// per expanded address, so without a cap a wide wildcard range would
	// exhaust file descriptors.
	DefaultConcurrency = 256
)

// Options configuration for the connect scanner
type Options struct {
	// Ports probed on every host, in this order
	Ports []int

	// Timeout per connection attempt
	Timeout time.Duration

	// Concurrency is the worker pool size
	Concurrency int

	// no progress output
	Silent bool

	// OnResult is called once per host, from the host's own probe task,
	// as soon as its ports are done
	OnResult func(*HostResult)
}

// DefaultOptions returns a safe default configuration
func DefaultOptions() *Options {
	return &Options{
		Ports:       append([]int(nil), DefaultPorts...),
		Timeout:     DefaultTimeout,
		Concurrency: DefaultConcurrency,
	}
}

// ParsePorts expands a port flag value into a request port list.
// Supported forms: "80", "80,443", "8000-8010" and combinations of those.
// An empty value yields the default probe set.
func ParsePorts(portStr string) ([]int, error) {
	if strings.TrimSpace(portStr) == "" {
		return append([]int(nil), DefaultPorts...), nil
	}

	var ports []int
	for _, part := range strings.Split(portStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.Contains(part, "-") {
			rangeParts := strings.SplitN(part, "-", 2)
			start, err1 := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			end, err2 := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err1 != nil || err2 != nil || start > end {
				return nil, errors.Errorf("invalid port range %q", part)
			}
			for p := start; p <= end; p++ {
				if !isValidPort(p) {
					return nil, errors.Errorf("port %d out of range", p)
				}
				ports = append(ports, p)
			}
			continue
		}
		p, err := strconv.Atoi(part)
		if err != nil || !isValidPort(p) {
			return nil, errors.Errorf("invalid port %q", part)
		}
		ports = append(ports, p)
	}
	if len(ports) == 0 {
		return nil, errors.New("no valid ports")
	}
	return ports, nil
}

func isValidPort(p int) bool {
	return p > 0 && p <= 65535
}
