package ports

import (
	"context"
	"errors"
	"time"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
)

// ErrStoreUnavailable wraps driver-level failures so callers can distinguish
// a down store from a bad query.
var ErrStoreUnavailable = errors.New("sensor store unavailable")

type SensorStore interface {
	// SiteStatus partitions the organization's sensors into connected and
	// disconnected using a strict "last report newer than now-threshold"
	// test. An organization with no sensors yields an all-zero summary,
	// never an error.
	SiteStatus(ctx context.Context, organization string, threshold time.Duration) (domain.StatusSummary, error)

	// Ping verifies the store is reachable; used for fail-fast boot.
	Ping(ctx context.Context) error
}
