package providers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"equityprices/internal/config"
	"equityprices/internal/httpx"
	"equityprices/internal/provider"
	"equityprices/internal/provider/fake"
	"equityprices/internal/provider/financego"
	"equityprices/internal/provider/yahoo"
	"equityprices/internal/provider/yahooadapter"
)

// Provider ids accepted by the quote endpoints.
const (
	Yahoo     = "yfinance"
	FinanceGo = "financego"
	Fake      = "fake"
)

// FromConfig registers every enabled provider.
func FromConfig(cfg config.Config) *provider.Registry {
	reg := provider.NewRegistry()

	if cfg.Yahoo.Enabled {
		timeout := time.Duration(cfg.Yahoo.TimeoutSec) * time.Second
		hc := httpx.New(timeout,
			httpx.WithUserAgent(cfg.Yahoo.UserAgent),
			httpx.WithHeader("Accept", "application/json"),
		)
		opts := []yahoo.YahooAPIClientOption{yahoo.WithHTTPClient(hc)}
		if cfg.Yahoo.Endpoint != "" {
			opts = append(opts, yahoo.WithBaseURL(cfg.Yahoo.Endpoint))
		}
		if cfg.Yahoo.Cookie != "" {
			opts = append(opts, yahoo.WithHeader(http.Header{"Cookie": []string{cfg.Yahoo.Cookie}}))
		}
		opts = append(opts, yahoo.WithCrumb(cfg.Yahoo.Crumb))

		client, err := yahoo.NewYahooAPIClient(opts...)
		if err != nil {
			zap.L().Warn("yahoo client error; skipping", zap.Error(err))
		} else {
			reg.Register(Yahoo, yahooadapter.New(yahooadapter.Config{Name: Yahoo}, client))
		}
		if cfg.Yahoo.Crumb == "" {
			zap.L().Warn("yahoo.enabled=true but no crumb set; requests may be rejected")
		}
	}
	if cfg.FinanceGo.Enabled {
		reg.Register(FinanceGo, financego.New(financego.Config{Name: FinanceGo}))
	}
	if cfg.Fake.Enabled {
		reg.Register(Fake, fake.Default())
	}
	return reg
}
