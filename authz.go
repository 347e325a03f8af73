// Package authz decides whether a user may create, view, edit, or delete the
// subjects of care and the assessment, support plan, and progress report
// records attached to them, based on the user's role and its ownership and
// assignment relationships. It has no storage of its own: callers plug in a
// persistence collaborator and route every entry point through the gate.
package authz

import (
	"log"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/stdr"

	"github.com/earlycare/authz/internal/gate"
	"github.com/earlycare/authz/types"
)

// New creates an enforcement Gate
func New(opts ...GateOption) (types.Gate, error) {
	cfg := &GateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.log.GetSink() == nil {
		cfg.log = stdr.New(log.New(os.Stderr, "", log.LstdFlags|log.Lshortfile))
	}

	if cfg.resolver == nil {
		return nil, types.ErrNoResolver
	}

	return gate.New(cfg.resolver, cfg.persister, cfg.log.WithName("gate"), cfg.presets...), nil
}

// WithResolver sets the lookup side of the persistence collaborator.
// It is required: the gate resolves every target through it.
func WithResolver(r types.Resolver) GateOption {
	return func(cfg *GateConfig) {
		cfg.resolver = r
	}
}

// WithPersister sets the write side of the persistence collaborator.
// Could be omitted for a decision-only gate; mutating entry points then
// report ErrNoPersister.
func WithPersister(p types.Persister) GateOption {
	return func(cfg *GateConfig) {
		cfg.persister = p
	}
}

// WithStore sets both sides of the persistence collaborator at once
func WithStore(s types.Store) GateOption {
	return func(cfg *GateConfig) {
		cfg.resolver = s
		cfg.persister = s
	}
}

// WithPresetPolices adds preset polices consulted before the engine rules
func WithPresetPolices(presets ...types.PresetPolicy) GateOption {
	return func(cfg *GateConfig) {
		cfg.presets = append(cfg.presets, presets...)
	}
}

// WithLogger sets logger for the gate
func WithLogger(l logr.Logger) GateOption {
	return func(cfg *GateConfig) {
		cfg.log = l
	}
}

// GateConfig works together with GateOption to control the initialization of the gate
type GateConfig struct {
	resolver  types.Resolver
	persister types.Persister
	presets   []types.PresetPolicy
	log       logr.Logger
}

// GateOption controls how to init a gate
type GateOption func(*GateConfig)
