package service

import (
	"context"
	"errors"
	"strings"

	"stillmotion/internal/assets"
	"stillmotion/internal/infra"
	"stillmotion/internal/infra/credentials"
	"stillmotion/internal/videogen"
)

// ErrImageRequired rejects a generation before transport when no source
// image was supplied. The provider would accept a text-only request; the
// product rule here is image-to-video only.
var ErrImageRequired = errors.New("service: source image is required")

// Params describes one generation as the presentation layer hands it over.
type Params struct {
	Prompt      string
	Image       *videogen.SourceImage
	AspectRatio videogen.AspectRatio
	Resolution  videogen.Resolution
}

// Generator ties the credential gate, the generation client and the asset
// registry into the single generate operation the presentation layer calls.
type Generator struct {
	creds    *credentials.Store
	client   *videogen.Client
	registry *assets.Registry
	logger   infra.Logger
}

// NewGenerator wires the orchestrator.
func NewGenerator(creds *credentials.Store, client *videogen.Client, registry *assets.Registry, logger infra.Logger) *Generator {
	return &Generator{creds: creds, client: client, registry: registry, logger: logger}
}

// HasCredential reports whether a usable API key is configured.
func (g *Generator) HasCredential() bool {
	return g.creds.Has()
}

// SelectCredential completes the key selection flow with the chosen key.
func (g *Generator) SelectCredential(key string) error {
	return g.creds.Set(key)
}

// ClearCredential drops the configured key.
func (g *Generator) ClearCredential() {
	g.creds.Clear()
}

// Generate runs the submit, poll, download chain and registers the produced
// video as a locally addressable asset. Errors propagate unmodified, except
// that credential-class failures additionally clear the stored key so the
// selection flow runs again.
func (g *Generator) Generate(ctx context.Context, p Params) (*assets.Asset, error) {
	if p.Image == nil || len(p.Image.Data) == 0 {
		return nil, ErrImageRequired
	}
	if !g.creds.Has() {
		return nil, videogen.ErrCredentialMissing
	}

	prompt := strings.TrimSpace(p.Prompt)
	if prompt == "" {
		prompt = videogen.DefaultPrompt
	}

	video, err := g.client.Generate(ctx, videogen.GenerateRequest{
		Prompt:      prompt,
		Image:       p.Image,
		AspectRatio: p.AspectRatio,
		Resolution:  p.Resolution,
	})
	if err != nil {
		if videogen.IsCredentialError(err) {
			g.creds.Clear()
			g.logger.Warn().Err(err).Msg("service: credential rejected, cleared stored key")
		}
		return nil, err
	}

	asset := g.registry.Put(video.Data, video.MIMEType, prompt)
	g.logger.Info().
		Str("asset_id", asset.ID).
		Int("bytes", len(video.Data)).
		Msg("service: video generated")
	return asset, nil
}
