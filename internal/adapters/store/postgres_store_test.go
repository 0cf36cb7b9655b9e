package store

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/Mathieu1704/icare-mvp/internal/ports"
)

const statusQuery = "SELECT COALESCE(last_report_at > $2, FALSE) AS connected, COUNT(*) AS n, array_agg(sensor_id ORDER BY sensor_id) AS ids FROM sensors WHERE organization = $1 GROUP BY 1"

func newTestStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db, "sensors", time.Second), mock
}

func TestSiteStatusPartitionsFleet(t *testing.T) {
	s, mock := newTestStore(t)

	rows := sqlmock.NewRows([]string{"connected", "n", "ids"}).
		AddRow(true, 2, "{sA,sB}").
		AddRow(false, 1, "{sC}")

	mock.ExpectQuery(regexp.QuoteMeta(statusQuery)).
		WithArgs("orgX", sqlmock.AnyArg()).
		WillReturnRows(rows)

	summary, err := s.SiteStatus(context.Background(), "orgX", 48*time.Hour)
	if err != nil {
		t.Fatalf("site status: %v", err)
	}

	if summary.ConnectedCount != 2 || summary.DisconnectedCount != 1 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if len(summary.DisconnectedIDs) != 1 || summary.DisconnectedIDs[0] != "sC" {
		t.Fatalf("unexpected disconnected ids: %v", summary.DisconnectedIDs)
	}
	if summary.Total() != 3 {
		t.Fatalf("expected total 3, got %d", summary.Total())
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSiteStatusEmptyOrganization(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(statusQuery)).
		WithArgs("ghost", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"connected", "n", "ids"}))

	summary, err := s.SiteStatus(context.Background(), "ghost", 48*time.Hour)
	if err != nil {
		t.Fatalf("expected no error for empty organization, got %v", err)
	}
	if summary.ConnectedCount != 0 || summary.DisconnectedCount != 0 {
		t.Fatalf("expected zero counts, got %+v", summary)
	}
	if summary.DisconnectedIDs == nil || len(summary.DisconnectedIDs) != 0 {
		t.Fatalf("expected empty id list, got %v", summary.DisconnectedIDs)
	}
}

func TestSiteStatusAllDisconnected(t *testing.T) {
	s, mock := newTestStore(t)

	rows := sqlmock.NewRows([]string{"connected", "n", "ids"}).
		AddRow(false, 3, "{c1,c2,c3}")

	mock.ExpectQuery(regexp.QuoteMeta(statusQuery)).
		WithArgs("orgX", sqlmock.AnyArg()).
		WillReturnRows(rows)

	summary, err := s.SiteStatus(context.Background(), "orgX", 48*time.Hour)
	if err != nil {
		t.Fatalf("site status: %v", err)
	}
	if summary.ConnectedCount != 0 || summary.DisconnectedCount != 3 {
		t.Fatalf("unexpected counts: %+v", summary)
	}
	if len(summary.DisconnectedIDs) != 3 {
		t.Fatalf("expected 3 ids, got %v", summary.DisconnectedIDs)
	}
}

func TestSiteStatusCutoffUsesThreshold(t *testing.T) {
	s, mock := newTestStore(t)

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	mock.ExpectQuery(regexp.QuoteMeta(statusQuery)).
		WithArgs("orgX", now.Add(-48*time.Hour)).
		WillReturnRows(sqlmock.NewRows([]string{"connected", "n", "ids"}))

	if _, err := s.SiteStatus(context.Background(), "orgX", 48*time.Hour); err != nil {
		t.Fatalf("site status: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSiteStatusQueryError(t *testing.T) {
	s, mock := newTestStore(t)

	mock.ExpectQuery(regexp.QuoteMeta(statusQuery)).
		WithArgs("orgX", sqlmock.AnyArg()).
		WillReturnError(errors.New("connection refused"))

	if _, err := s.SiteStatus(context.Background(), "orgX", 48*time.Hour); err == nil {
		t.Fatalf("expected query error to surface")
	}
}

func TestPingWrapsStoreUnavailable(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	defer db.Close()

	mock.ExpectPing().WillReturnError(errors.New("no route to host"))

	s := NewPostgresStore(db, "sensors", time.Second)
	err = s.Ping(context.Background())
	if err == nil {
		t.Fatalf("expected ping error")
	}
	if !errors.Is(err, ports.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
