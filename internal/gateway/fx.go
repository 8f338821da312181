package gateway

import (
	"github.com/coursebay/coursebay/internal/config"
	gatewaydomain "github.com/coursebay/coursebay/internal/gateway/domain"
	"github.com/coursebay/coursebay/internal/gateway/stripe"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module provides the checkout provider. A nil provider means payments are
// disabled; the booking service treats paid creations as unavailable then.
var Module = fx.Module("gateway",
	fx.Provide(Provide),
)

func Provide(cfg config.Config, logger *zap.Logger) gatewaydomain.CheckoutProvider {
	if !cfg.PaymentsEnabled() {
		logger.Warn("stripe secret key not configured, payments disabled")
		return nil
	}
	return stripe.New(cfg.StripeSecretKey)
}
