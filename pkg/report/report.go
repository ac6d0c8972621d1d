package report

import (
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
	fileutil "github.com/zan8in/pins/file"
	"gopkg.in/yaml.v2"

	"github.com/zan8in/ipsweep/pkg/scanner"
)

// Report is the finished result of one sweep: the request that produced
// it plus one entry per expanded address, in expansion order. It is
// assembled once, after every probe task joins, and read-only after that.
type Report struct {
	ID       string
	Target   netip.Addr
	Ports    []int
	Hosts    []*scanner.HostResult
	Started  time.Time
	Duration time.Duration
}

// New creates an empty report for a sweep of target with the given ports.
func New(target netip.Addr, ports []int) *Report {
	return &Report{
		ID:      xid.New().String(),
		Target:  target,
		Ports:   ports,
		Started: time.Now(),
	}
}

// Render formats the report for the console: a header with the request,
// then one line per host that has open ports. Hosts with none are
// suppressed.
func (r *Report) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Sweep of %s\n", r.Target)
	fmt.Fprintf(&b, "Ports: %s\n", joinPorts(r.Ports))
	b.WriteString("=========================\n")

	for _, host := range r.Hosts {
		if len(host.OpenPorts) == 0 {
			continue
		}
		fmt.Fprintf(&b, "%s: %15s\n", host.Addr, joinPorts(host.OpenPorts))
	}

	return b.String()
}

type yamlReport struct {
	ID       string     `yaml:"id"`
	Target   string     `yaml:"target"`
	Ports    []int      `yaml:"ports"`
	Duration string     `yaml:"duration"`
	Results  []yamlHost `yaml:"results"`
}

type yamlHost struct {
	IP        string `yaml:"ip"`
	OpenPorts []int  `yaml:"openPorts"`
}

// Bytes returns the YAML rendering of the report. Unlike Render, every
// host appears, open ports or not.
func (r *Report) Bytes() ([]byte, error) {
	out := yamlReport{
		ID:       r.ID,
		Target:   r.Target.String(),
		Ports:    r.Ports,
		Duration: r.Duration.Truncate(time.Millisecond).String(),
	}
	for _, host := range r.Hosts {
		out.Results = append(out.Results, yamlHost{
			IP:        host.Addr.String(),
			OpenPorts: host.OpenPorts,
		})
	}
	return yaml.Marshal(out)
}

// WriteFile writes the YAML rendering to fileName. The parent directory
// must already exist.
func (r *Report) WriteFile(fileName string) error {
	if len(fileName) == 0 {
		return errors.New("empty report file name")
	}
	if dir := filepath.Dir(fileName); dir != "." && !fileutil.FolderExists(dir) {
		return errors.Errorf("output directory %s does not exist", dir)
	}

	data, err := r.Bytes()
	if err != nil {
		return errors.Wrap(err, "marshal report")
	}
	return os.WriteFile(fileName, data, 0644)
}

func joinPorts(ports []int) string {
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		parts = append(parts, strconv.Itoa(p))
	}
	return strings.Join(parts, ", ")
}
