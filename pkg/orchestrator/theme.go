package orchestrator

import (
	"path"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// RendererConfig flattens a theme selection into renderer configuration.
// Variant tokens, templates and asset files override the manifest's; every
// token is also exposed as a CSS custom property named "--" + token.
func RendererConfig(selection *theme.Selection) *theme.RendererConfig {
	if selection == nil {
		return nil
	}
	cfg := &theme.RendererConfig{
		Theme:   selection.Theme,
		Variant: selection.Variant,
	}
	manifest := selection.Manifest
	if manifest == nil {
		return cfg
	}

	tokens := mergeStringMap(nil, manifest.Tokens)
	partials := mergeStringMap(nil, manifest.Templates)
	files := mergeStringMap(nil, manifest.Assets.Files)
	prefix := manifest.Assets.Prefix
	if variant, ok := manifest.Variants[selection.Variant]; ok {
		tokens = mergeStringMap(tokens, variant.Tokens)
		partials = mergeStringMap(partials, variant.Templates)
		files = mergeStringMap(files, variant.Assets.Files)
		if variant.Assets.Prefix != "" {
			prefix = variant.Assets.Prefix
		}
	}

	cfg.Tokens = tokens
	cfg.Partials = partials
	if len(tokens) > 0 {
		cfg.CSSVars = make(map[string]string, len(tokens))
		for key, value := range tokens {
			cfg.CSSVars["--"+key] = value
		}
	}
	cfg.AssetURL = func(key string) string {
		file, ok := files[key]
		if !ok || file == "" {
			return ""
		}
		if prefix == "" || strings.HasPrefix(file, "/") || strings.Contains(file, "://") {
			return file
		}
		if strings.Contains(prefix, "://") {
			return strings.TrimSuffix(prefix, "/") + "/" + strings.TrimPrefix(file, "/")
		}
		return path.Join(prefix, file)
	}
	return cfg
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
