package secret

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const refPrefix = "secretref:"

// Resolver resolves secret references using registered providers.
type Resolver struct {
	providers map[string]Provider
	strict    bool
}

// NewResolver creates a resolver over providers. In strict mode a provider
// returning an empty value is an error.
func NewResolver(strict bool, providers ...Provider) *Resolver {
	r := &Resolver{
		providers: make(map[string]Provider, len(providers)),
		strict:    strict,
	}
	for _, p := range providers {
		if p != nil {
			r.providers[p.Name()] = p
		}
	}
	return r
}

// NewDefaultResolver creates a strict resolver with every provider in
// DefaultRegistry.
func NewDefaultResolver() (*Resolver, error) {
	var providers []Provider
	for _, name := range DefaultRegistry.List() {
		p, err := DefaultRegistry.Create(name, nil)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return NewResolver(true, providers...), nil
}

// Close closes every provider.
func (r *Resolver) Close() error {
	var errs []error
	for _, p := range r.providers {
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// ResolveValue expands environment references in value and, when the
// result is a secret reference, replaces it with the provider's answer.
func (r *Resolver) ResolveValue(ctx context.Context, value string) (string, error) {
	expanded, err := ExpandEnvStrict(value)
	if err != nil {
		return "", err
	}

	if !strings.HasPrefix(expanded, refPrefix) {
		return expanded, nil
	}

	provider, ref, ok := ParseSecretRef(expanded)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, redactRef(expanded))
	}
	return r.resolve(ctx, provider, ref)
}

// ResolveMap resolves every value in input. Error messages name the key,
// never the value.
func (r *Resolver) ResolveMap(ctx context.Context, input map[string]string) (map[string]string, error) {
	if input == nil {
		return nil, nil
	}
	out := make(map[string]string, len(input))
	for k, v := range input {
		resolved, err := r.ResolveValue(ctx, v)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", k, err)
		}
		out[k] = resolved
	}
	return out, nil
}

// ParseSecretRef parses a reference of the form secretref:<provider>:<ref>.
func ParseSecretRef(value string) (provider string, ref string, ok bool) {
	rest, found := strings.CutPrefix(value, refPrefix)
	if !found {
		return "", "", false
	}
	provider, ref, found = strings.Cut(rest, ":")
	if !found || strings.TrimSpace(provider) == "" || strings.TrimSpace(ref) == "" {
		return "", "", false
	}
	return provider, ref, true
}

func (r *Resolver) resolve(ctx context.Context, providerName, ref string) (string, error) {
	provider, ok := r.providers[providerName]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrProviderNotRegistered, providerName)
	}
	resolved, err := provider.Resolve(ctx, ref)
	if err != nil {
		return "", err
	}
	if r.strict && resolved == "" {
		return "", fmt.Errorf("%w: provider %q", ErrEmptyValue, providerName)
	}
	return resolved, nil
}

// redactRef keeps the provider part of a malformed reference for error
// messages.
func redactRef(value string) string {
	rest := strings.TrimPrefix(value, refPrefix)
	provider, _, _ := strings.Cut(rest, ":")
	return refPrefix + provider + ":..."
}
