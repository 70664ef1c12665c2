package receipt

import (
	"github.com/ahmedooo1/nfeat/internal/receipt/render"
	"github.com/ahmedooo1/nfeat/internal/receipt/service"
	"go.uber.org/fx"
)

var Module = fx.Module("receipt.service",
	fx.Provide(func() render.Renderer {
		return render.NewPDFRenderer()
	}),
	fx.Provide(service.NewService),
)
