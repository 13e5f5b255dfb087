package billing

import (
	"github.com/smallbiznis/utilitydesk/internal/billing/repository"
	"github.com/smallbiznis/utilitydesk/internal/billing/service"
	"go.uber.org/fx"
)

var Module = fx.Module("billing.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
