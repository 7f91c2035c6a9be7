package credits

import (
	"creditbot/config"
	"creditbot/service"
)

// Feature handles the balance, daily, transfer and leaderboard commands
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
