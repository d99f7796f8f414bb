package cli

import (
	"context"
	"fmt"

	"github.com/jokarl/gemslint/flatconfig"
	"github.com/jokarl/gemslint/gems"
	"github.com/jokarl/gemslint/plugin"
)

// providers loads the external providers declared in the settings. Their
// profiles are fetched eagerly, so the processes are stopped before returning.
func (s *session) providers(ctx context.Context) ([]*flatconfig.BuiltinProvider, error) {
	var out []*flatconfig.BuiltinProvider
	for _, pc := range s.cfg.Plugins {
		path := s.cfg.ResolvePath(pc.Path)
		p, err := plugin.Open(ctx, path, s.logger)
		if err != nil {
			return nil, fmt.Errorf("plugin %s: %w", pc.Name, err)
		}
		p.Close()
		out = append(out, p.BuiltinProvider)
	}
	return out, nil
}

// compose builds the project configuration: the shared configuration, then
// external providers, then project overrides.
func (s *session) compose(ctx context.Context) (*flatconfig.Configuration, error) {
	providers, err := s.providers(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := s.cfg.OverrideFragments()
	if err != nil {
		return nil, err
	}

	var extra []flatconfig.Fragment
	for _, p := range providers {
		extra = append(extra, flatconfig.Recommended(p))
	}
	extra = append(extra, overrides...)

	opts := append(s.cfg.GemsOptions(), gems.WithExtra(extra...), gems.WithLogger(s.logger))
	return gems.Config(opts...), nil
}
