package settings

import (
	"go.uber.org/fx"

	"github.com/Nonie001/chns/internal/settings/service"
)

var Module = fx.Module("settings.service",
	fx.Provide(service.NewService),
)
