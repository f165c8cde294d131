package httpapi

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"composegen/internal/compose"
	"composegen/internal/generator"
	"composegen/internal/registry"
	"composegen/pkg/types"
)

// Renderer runs the generator in memory for each request. Calls share no
// mutable state, so one Renderer serves concurrent requests.
type Renderer struct {
	// Defaults supplies options the request leaves unset.
	Defaults compose.Options
	Logger   zerolog.Logger
}

// NewRenderer returns a Renderer using compose.DefaultOptions.
func NewRenderer(log zerolog.Logger) *Renderer {
	return &Renderer{Defaults: compose.DefaultOptions(), Logger: log}
}

// Render assembles one manifest per host. Host-level failures are reported in
// the response; malformed input fails the whole request with a 400.
func (s *Renderer) Render(ctx context.Context, req types.RenderRequest) (types.RenderResponse, error) {
	if err := ctx.Err(); err != nil {
		return types.RenderResponse{}, err
	}
	if len(req.Cluster) == 0 || string(req.Cluster) == "null" {
		return types.RenderResponse{}, badRequest("cluster is required")
	}
	spec, err := registry.ParseCluster(req.Cluster)
	if err != nil {
		return types.RenderResponse{}, badRequest("%v", err)
	}
	opts, err := s.options(req)
	if err != nil {
		return types.RenderResponse{}, err
	}
	sum, err := generator.Generate(spec, compose.ImageCatalog(req.Images), generator.Options{
		Compose: opts,
		Hosts:   req.Hosts,
		Logger:  s.Logger,
	})
	if err != nil {
		return types.RenderResponse{}, badRequest("%v", err)
	}

	resp := types.RenderResponse{Hosts: make([]types.HostManifest, 0, len(sum.Hosts))}
	for _, rep := range sum.Hosts {
		hm := types.HostManifest{Host: rep.Host, Status: string(rep.Status), Services: rep.Services}
		for _, sk := range rep.Skipped {
			hm.Skipped = append(hm.Skipped, types.SkippedEntry{Selector: sk.Selector, Model: sk.Model, Reason: sk.Err.Error()})
		}
		for _, wn := range rep.Warnings {
			hm.Warnings = append(hm.Warnings, types.SkippedEntry{Selector: wn.Selector, Model: wn.Model, Reason: wn.Message})
		}
		if rep.Err != nil {
			hm.Error = rep.Err.Error()
		}
		if rep.Manifest != nil {
			b, err := compose.Marshal(rep.Manifest)
			if err != nil {
				return types.RenderResponse{}, fmt.Errorf("encode manifest for %s: %w", rep.Host, err)
			}
			hm.Manifest = string(b)
		}
		resp.Hosts = append(resp.Hosts, hm)
	}
	return resp, nil
}

// options overlays the request's settings on the renderer defaults.
func (s *Renderer) options(req types.RenderRequest) (compose.Options, error) {
	opts := s.Defaults
	if req.BasePort != 0 {
		if req.BasePort < 1 || req.BasePort > 65535 {
			return opts, badRequest("base_port %d out of range 1-65535", req.BasePort)
		}
		opts.BasePort = req.BasePort
	}
	if t := req.Telemetry; t != nil {
		opts.Telemetry.Endpoint = t.Endpoint
		if t.Protocol != "" {
			opts.Telemetry.Protocol = t.Protocol
		}
	}
	if sec := req.Secret; sec != nil {
		if sec.Disabled {
			opts.Secret.File = ""
		} else {
			if sec.Name != "" {
				opts.Secret.Name = sec.Name
			}
			if sec.File != "" {
				opts.Secret.File = sec.File
			}
			if sec.Env != "" {
				opts.Secret.Env = sec.Env
			}
		}
	}
	return opts.WithDefaults(), nil
}
