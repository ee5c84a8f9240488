package booking

import (
	"strings"

	"go.uber.org/zap"
)

// Environment is the payment trust context resolved from the server-held
// inventory API credential. It is never derived from anything the browser
// sends.
type Environment string

const (
	EnvironmentSandbox    Environment = "sandbox"
	EnvironmentProduction Environment = "production"
)

// Upstream payment method enums. Sandbox credentials carry their own attached
// card, so the sandbox sentinel forwards no transaction id.
const (
	PaymentMethodAccountCard   = "ACC_CREDIT_CARD"
	PaymentMethodTransactionID = "TRANSACTION_ID"
)

// ResolveEnvironment maps the server-held API credential prefix to an
// environment. An absent or unrecognized credential fails closed to sandbox
// with a warning — booking must not run in an ambiguous trust state.
func ResolveEnvironment(credential string, logger *zap.Logger) Environment {
	switch {
	case strings.HasPrefix(credential, "prod_"):
		return EnvironmentProduction
	case strings.HasPrefix(credential, "sand_"):
		return EnvironmentSandbox
	default:
		if logger != nil {
			logger.Warn("inventory API credential missing or unrecognized, falling back to sandbox")
		}
		return EnvironmentSandbox
	}
}

// PaymentMethod returns the upstream payment method enum for this environment.
func (e Environment) PaymentMethod() string {
	if e == EnvironmentProduction {
		return PaymentMethodTransactionID
	}
	return PaymentMethodAccountCard
}

// ForwardsTransactionID reports whether confirm requests in this environment
// carry the payment transaction id.
func (e Environment) ForwardsTransactionID() bool {
	return e == EnvironmentProduction
}
