package pulsarproducer

import (
	"context"

	"github.com/hashicorp/go-hclog"
)

// Tester checks whether a Pulsar service is reachable with the given
// authentication.
type Tester interface {
	Test(ctx context.Context, connectionString string, auth AuthDescriptor) (bool, error)
}

// ProbeConnectivity reports whether connectionString is reachable. A failing
// check counts as unreachable; its error is logged, not returned.
func ProbeConnectivity(ctx context.Context, logger hclog.Logger, tester Tester, connectionString string, auth AuthDescriptor) bool {
	accessible, err := tester.Test(ctx, connectionString, auth)
	if err != nil {
		logger.Warn("pulsar connectivity check failed",
			"pulsar_server", connectionString,
			"auth_type", auth.Type(),
			"error", err,
		)
		return false
	}
	return accessible
}
