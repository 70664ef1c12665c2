package chat

import (
	"github.com/ahmedooo1/nfeat/internal/config"
	"go.uber.org/fx"
)

// Widget is the bootstrap descriptor the front-end reads to mount the chat
// component. The service only registers the widget; transport is the
// provider's concern.
type Widget struct {
	Enabled  bool   `json:"enabled"`
	Provider string `json:"provider"`
	Title    string `json:"title"`
	Locale   string `json:"locale"`
}

// NewWidget derives the widget descriptor from configuration.
func NewWidget(cfg config.Config) Widget {
	return Widget{
		Enabled:  cfg.Chat.Enabled,
		Provider: cfg.Chat.Provider,
		Title:    cfg.Chat.Title,
		Locale:   cfg.Chat.Locale,
	}
}

var Module = fx.Module("chat",
	fx.Provide(NewWidget),
)
