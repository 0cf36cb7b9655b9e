package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

// PostgresStore answers fleet-status queries against a sensors table.
type PostgresStore struct {
	db           *sql.DB
	table        string
	queryTimeout time.Duration
	now          func() time.Time
}

func NewPostgresStore(db *sql.DB, table string, queryTimeout time.Duration) *PostgresStore {
	if table == "" {
		table = "sensors"
	}
	if queryTimeout <= 0 {
		queryTimeout = time.Second
	}
	return &PostgresStore{db: db, table: table, queryTimeout: queryTimeout, now: time.Now}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", ports.ErrStoreUnavailable, err)
	}
	return nil
}

// SiteStatus runs one grouped query so the database does the partitioning;
// the service never pages full sensor lists into memory. Sensors that have
// never reported land in the disconnected group, and so does a sensor whose
// last report sits exactly on the threshold boundary (strict >).
func (s *PostgresStore) SiteStatus(ctx context.Context, organization string, threshold time.Duration) (domain.StatusSummary, error) {
	cutoff := s.now().UTC().Add(-threshold)

	query := fmt.Sprintf(
		"SELECT COALESCE(last_report_at > $2, FALSE) AS connected, COUNT(*) AS n, array_agg(sensor_id ORDER BY sensor_id) AS ids FROM %s WHERE organization = $1 GROUP BY 1",
		s.table)

	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, query, organization, cutoff)
	if err != nil {
		return domain.StatusSummary{}, fmt.Errorf("site status query: %w", err)
	}
	defer rows.Close()

	summary := domain.StatusSummary{DisconnectedIDs: []string{}}
	for rows.Next() {
		var (
			connected bool
			n         int
			ids       pq.StringArray
		)
		if err := rows.Scan(&connected, &n, &ids); err != nil {
			return domain.StatusSummary{}, fmt.Errorf("site status scan: %w", err)
		}
		if connected {
			summary.ConnectedCount = n
		} else {
			summary.DisconnectedCount = n
			summary.DisconnectedIDs = []string(ids)
		}
	}
	if err := rows.Err(); err != nil {
		return domain.StatusSummary{}, fmt.Errorf("site status rows: %w", err)
	}
	return summary, nil
}

var _ ports.SensorStore = (*PostgresStore)(nil)
