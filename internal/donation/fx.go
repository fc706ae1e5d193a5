package donation

import (
	"go.uber.org/fx"

	"github.com/Nonie001/chns/internal/donation/repository"
	"github.com/Nonie001/chns/internal/donation/service"
)

var Module = fx.Module("donation.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
