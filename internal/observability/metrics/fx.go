package metrics

import (
	"github.com/ahmedooo1/nfeat/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

var Module = fx.Module("observability.metrics",
	fx.Provide(func(cfg config.Config) Config {
		return Config{ServiceName: "nfeat", Environment: cfg.Environment}
	}),
	fx.Provide(func(cfg Config) *HTTPMetrics {
		return NewHTTPMetrics(prometheus.DefaultRegisterer, cfg)
	}),
	fx.Provide(func(cfg Config) *ReceiptMetrics {
		return NewReceiptMetrics(prometheus.DefaultRegisterer, cfg)
	}),
)
