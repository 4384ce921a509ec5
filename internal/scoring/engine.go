package scoring

import (
	"github.com/go-playground/validator/v10"
)

// Engine evaluates tenant scores, property matches, and recommendations
// against one validated Config. Build one per process and share it.
type Engine struct {
	validate *validator.Validate
	cfg      Config
}

// NewEngine validates cfg and returns an Engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config {
	return e.cfg
}
