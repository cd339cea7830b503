package model

import "net/http"

type GeneratorOption interface {
	apply(*GeneratorConfig)
}

type generatorOptionFunc func(*GeneratorConfig)

func (f generatorOptionFunc) apply(cfg *GeneratorConfig) {
	f(cfg)
}

// GeneratorConfig configures a provider adapter.
type GeneratorConfig struct {
	URL        string
	AuthToken  string
	Models     map[Capability]string
	HTTPClient *http.Client
}

func ResolveGeneratorOpts(opts ...GeneratorOption) GeneratorConfig {
	cfg := GeneratorConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(&cfg)
		}
	}
	return cfg
}

// ModelFor returns the configured model for capability, or fallback.
func (c GeneratorConfig) ModelFor(capability Capability, fallback string) string {
	if name, ok := c.Models[capability]; ok && name != "" {
		return name
	}
	return fallback
}

func WithURL(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.URL = value
	})
}

func WithAuthToken(value string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.AuthToken = value
	})
}

func WithModel(capability Capability, name string) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		if cfg.Models == nil {
			cfg.Models = map[Capability]string{}
		}
		cfg.Models[capability] = name
	})
}

func WithHTTPClient(client *http.Client) GeneratorOption {
	return generatorOptionFunc(func(cfg *GeneratorConfig) {
		cfg.HTTPClient = client
	})
}
