package config

import (
	"github.com/pkg/errors"
	"github.com/zan8in/goflags"

	"github.com/zan8in/ipsweep/pkg/scanner"
)

type Options struct {
	// Base IPv4 address to sweep; zero-valued octets expand as wildcards
	Target string

	// Ports to probe on every host, empty means the default probe set
	Ports string

	// output yaml report file
	Output string

	// Concurrency caps the probe worker pool
	Concurrency int

	// Timeout per connection attempt, in seconds
	Timeout int

	// no banner and progress if silent is true
	Silent bool

	// verbose file logging
	Debug bool
}

// NewOptions parses the command line into Options and validates them.
func NewOptions() (*Options, error) {
	options := &Options{}

	flagSet := goflags.NewFlagSet()
	flagSet.SetDescription(`ipsweep - concurrent TCP connect sweeps over wildcard-octet IPv4 ranges`)

	flagSet.CreateGroup("input", "Target",
		flagSet.StringVarP(&options.Target, "target", "t", "", "IPv4 address to sweep, zero octets expand the range, eg: -t 192.168.1.0"),
	)

	flagSet.CreateGroup("port", "Port",
		flagSet.StringVarP(&options.Ports, "ports", "p", "", "ports to probe, eg: -p 80,443,8000-8010 (default 80,22,443,8080)"),
	)

	flagSet.CreateGroup("output", "Output",
		flagSet.StringVarP(&options.Output, "output", "o", "", "output yaml report, eg: -o result.yaml"),
	)

	flagSet.CreateGroup("optimization", "Optimizations",
		flagSet.IntVarP(&options.Concurrency, "concurrency", "c", scanner.DefaultConcurrency, "maximum number of hosts probed in parallel"),
		flagSet.IntVar(&options.Timeout, "timeout", 1, "connection timeout in seconds"),
		flagSet.BoolVar(&options.Silent, "silent", false, "no banner and progress, only the report"),
		flagSet.BoolVar(&options.Debug, "debug", false, "verbose debug log"),
	)

	if err := flagSet.Parse(); err != nil {
		return nil, err
	}

	if err := options.Verify(); err != nil {
		return nil, err
	}

	return options, nil
}

// Verify checks the parts of the request that do not need parsing; the
// target address and port list are validated by the runner before any
// scan work is scheduled.
func (o *Options) Verify() error {
	if len(o.Target) == 0 {
		return errors.New("target not found, use -t to set one")
	}
	if o.Timeout <= 0 {
		return errors.New("timeout must be positive")
	}
	if o.Concurrency <= 0 {
		return errors.New("concurrency must be positive")
	}
	return nil
}
