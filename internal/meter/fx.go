package meter

import (
	"github.com/smallbiznis/utilitydesk/internal/meter/repository"
	"github.com/smallbiznis/utilitydesk/internal/meter/service"
	"go.uber.org/fx"
)

var Module = fx.Module("meter.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
