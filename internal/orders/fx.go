package orders

import (
	"github.com/ahmedooo1/nfeat/internal/orders/service"
	"go.uber.org/fx"
)

var Module = fx.Module("orders.service",
	fx.Provide(service.NewService),
)
