package admin

import (
	"creditbot/config"
	"creditbot/service"
)

// Feature handles the moderator-only credit management commands
type Feature struct {
	facade *service.CreditsFacade
	config *config.Config
}

func New(facade *service.CreditsFacade, cfg *config.Config) *Feature {
	return &Feature{
		facade: facade,
		config: cfg,
	}
}
