package audit

import (
	"go.uber.org/fx"

	"github.com/Nonie001/chns/internal/audit/repository"
	"github.com/Nonie001/chns/internal/audit/service"
)

var Module = fx.Module("audit.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
