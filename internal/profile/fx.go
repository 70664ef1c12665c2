package profile

import (
	"github.com/ahmedooo1/nfeat/internal/config"
	"github.com/ahmedooo1/nfeat/internal/profile/client"
	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	"github.com/ahmedooo1/nfeat/internal/profile/service"
	receiptdomain "github.com/ahmedooo1/nfeat/internal/receipt/domain"
	"go.uber.org/fx"
)

var Module = fx.Module("profile.service",
	fx.Provide(service.NewService),
	fx.Provide(func(cfg config.Config, svc profiledomain.Service) receiptdomain.ProfileFetcher {
		return client.NewCachedFetcher(cfg, client.NewLocalFetcher(svc))
	}),
)
