// Package generator is the cluster driver: it runs the manifest assembler for
// every host, logs per-host diagnostics and writes one manifest file per host.
package generator

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"composegen/internal/common/fsutil"
	"composegen/internal/compose"
)

// Status is the outcome of one host.
type Status string

const (
	StatusOK      Status = "ok"
	StatusPartial Status = "partial" // manifest produced, some models skipped
	StatusFailed  Status = "failed"  // no manifest
)

// FilePattern names the per-host output file.
const FilePattern = "docker-compose.%s.yml"

// Options control one generation run.
type Options struct {
	OutDir  string
	Compose compose.Options
	// Hosts restricts the run to the named hosts; empty means all.
	Hosts  []string
	Logger zerolog.Logger
}

// HostReport describes what happened to one host.
type HostReport struct {
	Host     string
	Status   Status
	Services int
	Skipped  []compose.Skipped
	Warnings []compose.Warning
	File     string
	Err      error
	Manifest *compose.Manifest
}

// Summary aggregates host reports in cluster order.
type Summary struct {
	Hosts []HostReport
}

// Count returns how many hosts ended with status s.
func (s Summary) Count(st Status) int {
	n := 0
	for _, h := range s.Hosts {
		if h.Status == st {
			n++
		}
	}
	return n
}

// Complete reports whether every host succeeded. With allowSkips, hosts that
// only skipped unresolvable models count as successes.
func (s Summary) Complete(allowSkips bool) bool {
	if s.Count(StatusFailed) > 0 {
		return false
	}
	return allowSkips || s.Count(StatusPartial) == 0
}

// FileName returns the manifest file name for host.
func FileName(host string) string { return fmt.Sprintf(FilePattern, host) }

// invalidHostError signals a host name that cannot name an output file.
type invalidHostError struct{ host string }

func (e invalidHostError) Error() string {
	return fmt.Sprintf("host name %q cannot be used as a file name component", e.host)
}

// IsInvalidHost reports whether err indicates an unusable host name.
func IsInvalidHost(err error) bool {
	_, ok := err.(invalidHostError)
	return ok
}

// Generate assembles a manifest for each selected host without touching disk.
// Unknown names in opts.Hosts are an error.
func Generate(spec compose.ClusterSpec, images compose.ImageCatalog, opts Options) (Summary, error) {
	hosts, err := selectHosts(spec, opts.Hosts)
	if err != nil {
		return Summary{}, err
	}
	log := opts.Logger
	var sum Summary
	for _, h := range hosts {
		rep := assembleHost(h, images, opts.Compose, log)
		sum.Hosts = append(sum.Hosts, rep)
	}
	return sum, nil
}

func assembleHost(h compose.Host, images compose.ImageCatalog, copts compose.Options, log zerolog.Logger) HostReport {
	rep := HostReport{Host: h.Name}
	if !fsutil.ValidFileComponent(h.Name) {
		rep.Status, rep.Err = StatusFailed, invalidHostError{host: h.Name}
		skippedTotal.WithLabelValues("invalid_host").Inc()
		hostsTotal.WithLabelValues(string(rep.Status)).Inc()
		log.Error().Str("host", h.Name).Str("reason", rep.Err.Error()).Msg("host failed")
		return rep
	}
	m, res, err := compose.Assemble(h.Name, h.Assignments, images, copts)
	rep.Skipped, rep.Warnings = res.Skipped, res.Warnings
	for _, s := range res.Skipped {
		skippedTotal.WithLabelValues("image_not_found").Inc()
		log.Warn().Str("host", h.Name).Str("selector", s.Selector).Str("model", s.Model).
			Str("reason", s.Err.Error()).Msg("model skipped")
	}
	for _, w := range res.Warnings {
		log.Warn().Str("host", h.Name).Str("selector", w.Selector).Str("model", w.Model).
			Str("reason", w.Message).Msg("device shared")
	}
	if err != nil {
		rep.Status, rep.Err = StatusFailed, err
		skippedTotal.WithLabelValues(failureReason(err)).Inc()
		hostsTotal.WithLabelValues(string(rep.Status)).Inc()
		ev, reason := log.Error().Str("host", h.Name), err
		var he *compose.HostError
		if errors.As(err, &he) {
			ev, reason = ev.Str("selector", he.Selector).Str("model", he.Model), he.Err
		}
		ev.Str("reason", reason.Error()).Msg("host failed")
		return rep
	}
	rep.Manifest = m
	rep.Services = res.Services
	rep.Status = StatusOK
	if len(res.Skipped) > 0 {
		rep.Status = StatusPartial
	}
	servicesTotal.Add(float64(res.Services))
	hostsTotal.WithLabelValues(string(rep.Status)).Inc()
	log.Debug().Str("host", h.Name).Int("services", res.Services).Msg("host assembled")
	return rep
}

func failureReason(err error) string {
	switch {
	case compose.IsInvalidSelector(err):
		return "invalid_selector"
	case compose.IsNameCollision(err):
		return "name_collision"
	case compose.IsInvalidModel(err):
		return "invalid_model"
	case compose.IsPortExhausted(err):
		return "port_exhausted"
	default:
		return "other"
	}
}

func selectHosts(spec compose.ClusterSpec, names []string) (compose.ClusterSpec, error) {
	if len(names) == 0 {
		return spec, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		want[n] = true
	}
	var out compose.ClusterSpec
	for _, h := range spec {
		if want[h.Name] {
			out = append(out, h)
			delete(want, h.Name)
		}
	}
	for _, n := range names {
		if want[n] {
			return nil, fmt.Errorf("host %s not found in cluster description", n)
		}
	}
	return out, nil
}

// Run generates every selected host and writes successful manifests into
// opts.OutDir. A failed host's manifest from an earlier run is removed. A
// write or remove failure aborts the run with an IOFailure error; hosts
// processed before it keep their files.
func Run(spec compose.ClusterSpec, images compose.ImageCatalog, opts Options) (Summary, error) {
	sum, err := Generate(spec, images, opts)
	if err != nil {
		return sum, err
	}
	outDir, err := fsutil.ExpandHome(opts.OutDir)
	if err != nil {
		return sum, compose.ErrIOFailure("resolve", opts.OutDir, err)
	}
	if outDir == "" {
		outDir = "."
	}
	if !fsutil.PathExists(outDir) {
		return sum, compose.ErrIOFailure("write", outDir, os.ErrNotExist)
	}
	for i := range sum.Hosts {
		rep := &sum.Hosts[i]
		if rep.Manifest == nil {
			if err := removeStale(outDir, rep.Host); err != nil {
				opts.Logger.Error().Str("host", rep.Host).Err(err).Msg("remove stale manifest failed")
				return sum, err
			}
			continue
		}
		path := filepath.Join(outDir, FileName(rep.Host))
		if err := WriteManifest(path, rep.Manifest); err != nil {
			opts.Logger.Error().Str("host", rep.Host).Str("file", path).Err(err).Msg("write failed")
			return sum, err
		}
		rep.File = path
		manifestsWritten.Inc()
		opts.Logger.Info().Str("host", rep.Host).Str("file", path).Int("services", rep.Services).
			Str("status", string(rep.Status)).Msg("manifest written")
	}
	return sum, nil
}

// removeStale deletes a manifest left by an earlier run for a host that now
// fails, so no file outlives the configuration that produced it.
func removeStale(outDir, host string) error {
	if !fsutil.ValidFileComponent(host) {
		return nil
	}
	path := filepath.Join(outDir, FileName(host))
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return compose.ErrIOFailure("remove", path, err)
	}
	return nil
}

// WriteManifest encodes m and atomically replaces path with it.
func WriteManifest(path string, m *compose.Manifest) error {
	data, err := compose.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := fsutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return compose.ErrIOFailure("write", path, err)
	}
	return nil
}
