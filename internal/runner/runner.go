package runner

import (
	"context"
	"net/netip"
	"time"

	"github.com/pkg/errors"
	"github.com/zan8in/gologger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zan8in/ipsweep/pkg/config"
	"github.com/zan8in/ipsweep/pkg/iprange"
	"github.com/zan8in/ipsweep/pkg/log"
	"github.com/zan8in/ipsweep/pkg/report"
	"github.com/zan8in/ipsweep/pkg/scanner"
)

type Runner struct {
	options *config.Options
	target  netip.Addr
	ports   []int
	scanner *scanner.Scanner
}

// New validates the request before any scan work is scheduled: a target
// that does not parse as a dotted-quad IPv4 address or a malformed port
// list fails here, never mid-scan.
func New(options *config.Options) (*Runner, error) {
	if options.Debug {
		log.SetLevel(zapcore.DebugLevel)
	}

	target, err := iprange.ParseAddr(options.Target)
	if err != nil {
		return nil, err
	}

	ports, err := scanner.ParsePorts(options.Ports)
	if err != nil {
		return nil, errors.Wrap(err, "parse ports")
	}

	sc, err := scanner.NewScanner(&scanner.Options{
		Ports:       ports,
		Timeout:     time.Duration(options.Timeout) * time.Second,
		Concurrency: options.Concurrency,
		Silent:      options.Silent,
	})
	if err != nil {
		return nil, err
	}

	return &Runner{
		options: options,
		target:  target,
		ports:   ports,
		scanner: sc,
	}, nil
}

// Run expands the target range, sweeps it and prints the report. Host
// order in the report equals expansion order.
func (r *Runner) Run(ctx context.Context) (*report.Report, error) {
	if !r.options.Silent {
		config.ShowBanner()
	}

	addrs := iprange.Expand(r.target)
	log.Debug("range expanded",
		zap.String("target", r.target.String()),
		zap.Int("hosts", len(addrs)),
	)

	rep := report.New(r.target, r.ports)

	hosts, err := r.scanner.Scan(ctx, addrs)
	if err != nil {
		return nil, errors.Wrap(err, "sweep failed")
	}
	rep.Hosts = hosts
	rep.Duration = time.Since(rep.Started)

	gologger.Print().Msgf("\n%s", rep.Render())

	if len(r.options.Output) > 0 {
		if err := rep.WriteFile(r.options.Output); err != nil {
			return nil, err
		}
		if !r.options.Silent {
			gologger.Info().Msgf("Report written to %s", r.options.Output)
		}
	}

	return rep, nil
}
