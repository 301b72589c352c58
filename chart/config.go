package chart

import (
	"fmt"
	"io"

	"msc/config"
)

// NewDisplay creates the display named by the configuration
func NewDisplay(cfg *config.Config, w io.Writer) (Display, error) {
	switch cfg.Display {
	case config.DisplayTerm:
		return NewTerm(w,
			WithLinesPerPage(cfg.LinesPerPage),
			WithTileWidth(cfg.TileWidth),
			WithPrefix(cfg.Prefix),
		), nil
	case config.DisplayWeb:
		return NewWeb(w), nil
	case config.DisplayMscgen:
		return NewMscgen(w, cfg.LinesPerPage), nil
	case config.DisplayPlantUML:
		return NewPlantUML(w), nil
	}
	return nil, fmt.Errorf("unknown display %q", cfg.Display)
}

// NewFromConfig creates a chart with the configured display and names
func NewFromConfig(cfg *config.Config, w io.Writer, opts ...Option) (*Chart, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	disp, err := NewDisplay(cfg, w)
	if err != nil {
		return nil, err
	}
	if cfg.ShowCreate {
		opts = append([]Option{WithCreate()}, opts...)
	}
	return New(disp, cfg.Dictionary(), opts...), nil
}
