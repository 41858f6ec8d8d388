// Package engine is the boundary to the model runtime: it loads a translation
// model by identifier and runs it on text.
package engine

import (
	"context"
	"time"
)

// Output is one candidate produced by a translation model. Runtimes return
// candidates best-first.
type Output struct {
	TranslationText string `json:"translation_text"`
}

// Engine is a loaded model bound to one identifier. Implementations must be
// safe for concurrent Run calls.
type Engine interface {
	ModelID() string
	Run(ctx context.Context, text string) ([]Output, error)
}

type Loader interface {
	Load(ctx context.Context, modelID string) (Engine, error)
}

type LoaderFunc func(ctx context.Context, modelID string) (Engine, error)

func (f LoaderFunc) Load(ctx context.Context, modelID string) (Engine, error) {
	return f(ctx, modelID)
}

type RuntimeConfig struct {
	HubURL       string        `mapstructure:"hub_url" json:"hub_url" validate:"required,url"`
	InferenceURL string        `mapstructure:"inference_url" json:"inference_url" validate:"required,url"`
	Token        string        `mapstructure:"token" json:"token"`
	Timeout      time.Duration `mapstructure:"timeout" json:"timeout" validate:"min=0"`
}
