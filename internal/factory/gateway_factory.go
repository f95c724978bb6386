package factory

import (
	"github.com/mikey/email-domain-verifier/internal/adapters/filter"
	"github.com/mikey/email-domain-verifier/internal/adapters/httpapi"
	"github.com/mikey/email-domain-verifier/internal/config"
	"github.com/mikey/email-domain-verifier/internal/core"
	"github.com/mikey/email-domain-verifier/internal/ports"
	"go.uber.org/zap"
)

// GatewayFactory creates the network front ends based on configuration
type GatewayFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.VerifierService
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Config, logger *zap.Logger, service *core.VerifierService) *GatewayFactory {
	return &GatewayFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateGateways returns every enabled gateway
func (f *GatewayFactory) CreateGateways() []ports.Gateway {
	var gateways []ports.Gateway

	if httpCfg := f.cfg.GetHTTP(); httpCfg.Enabled {
		handlers := httpapi.NewHandlers(f.service, f.logger, httpCfg.MaxBulkSize)
		gateways = append(gateways, httpapi.NewServer(httpCfg.ListenAddress, handlers, f.logger, httpCfg.AllowedOrigins))
	}

	if f.cfg.GetSMTP().Enabled {
		gateways = append(gateways, f.CreateSMTPGate())
	}

	return gateways
}

// CreateSMTPGate creates the SMTP sender gate
func (f *GatewayFactory) CreateSMTPGate() *filter.SMTPGate {
	smtpCfg := f.cfg.GetSMTP()

	var relay filter.Relayer
	if smtpCfg.PostfixEnabled {
		relay = filter.NewPostfixRelay(smtpCfg.PostfixAddress, smtpCfg.PostfixPort, f.logger)
	}

	return filter.NewSMTPGate(f.service, relay, f.logger, filter.SMTPGateOptions{
		ListenAddress:    smtpCfg.ListenAddress,
		Domain:           smtpCfg.Domain,
		RejectDisposable: smtpCfg.RejectDisposable,
		RejectSuspicious: smtpCfg.RejectSuspicious,
		DisposableHeader: smtpCfg.DisposableHeader,
		SuspiciousHeader: smtpCfg.SuspiciousHeader,
		VerdictHeader:    smtpCfg.VerdictHeader,
	})
}
