package store

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Mathieu1704/icare-mvp/internal/domain"
)

// SeedSpec describes a synthetic fleet for one organization.
type SeedSpec struct {
	Organization         string
	Sensors              int
	Gateways             int
	DisconnectedFraction float64
	Seed                 int64
}

var sensorTypes = []string{"vibration", "temperature", "humidity", "pressure"}

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randID(rng *rand.Rand, prefix string) string {
	var b strings.Builder
	b.WriteString(prefix)
	for i := 0; i < 6; i++ {
		b.WriteByte(idAlphabet[rng.Intn(len(idAlphabet))])
	}
	return b.String()
}

// GenerateFleet builds random sensors and gateways for a seed run. Roughly
// DisconnectedFraction of the sensors get a last report 3-7 days old; the
// rest reported within the last day.
func GenerateFleet(spec SeedSpec) ([]domain.SensorRecord, []string) {
	seed := spec.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	gateways := make([]string, 0, spec.Gateways)
	for i := 0; i < spec.Gateways; i++ {
		gateways = append(gateways, randID(rng, "g"))
	}

	now := time.Now().UTC()
	sensors := make([]domain.SensorRecord, 0, spec.Sensors)
	for i := 0; i < spec.Sensors; i++ {
		ageDays := rng.Intn(2)
		if rng.Float64() < spec.DisconnectedFraction {
			ageDays = 3 + rng.Intn(5)
		}
		last := now.Add(-time.Duration(ageDays) * 24 * time.Hour)

		gateway := ""
		if len(gateways) > 0 {
			gateway = gateways[rng.Intn(len(gateways))]
		}

		sensors = append(sensors, domain.SensorRecord{
			SensorID:       randID(rng, "c"),
			Organization:   spec.Organization,
			SensorType:     sensorTypes[rng.Intn(len(sensorTypes))],
			BatteryLevel:   10 + rng.Intn(91),
			GatewayID:      gateway,
			LastReportAt:   &last,
			ConnectionFlag: ageDays < 3,
		})
	}
	return sensors, gateways
}

// EnsureSchema creates the sensors and gateways tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	sensorsDDL := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		sensor_id TEXT PRIMARY KEY,
		organization TEXT NOT NULL,
		sensor_type TEXT NOT NULL,
		battery_level INTEGER NOT NULL,
		connection_flag BOOLEAN NOT NULL DEFAULT TRUE,
		gateway_id TEXT,
		last_report_at TIMESTAMPTZ
	)`, s.table)
	if _, err := s.db.ExecContext(ctx, sensorsDDL); err != nil {
		return fmt.Errorf("create %s: %w", s.table, err)
	}

	gatewaysDDL := `CREATE TABLE IF NOT EXISTS gateways (
		gateway_id TEXT PRIMARY KEY,
		organization TEXT NOT NULL
	)`
	if _, err := s.db.ExecContext(ctx, gatewaysDDL); err != nil {
		return fmt.Errorf("create gateways: %w", err)
	}
	return nil
}

// ResetOrganization deletes all sensors and gateways for one organization.
func (s *PostgresStore) ResetOrganization(ctx context.Context, organization string) error {
	if _, err := s.db.ExecContext(ctx,
		fmt.Sprintf("DELETE FROM %s WHERE organization = $1", s.table), organization); err != nil {
		return fmt.Errorf("reset sensors: %w", err)
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM gateways WHERE organization = $1", organization); err != nil {
		return fmt.Errorf("reset gateways: %w", err)
	}
	return nil
}

// InsertGateways writes the gateway rows for an organization.
func (s *PostgresStore) InsertGateways(ctx context.Context, organization string, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO gateways (gateway_id, organization) VALUES ")

	args := make([]any, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d)", len(args)+1, len(args)+2))
		args = append(args, id, organization)
	}
	b.WriteString(" ON CONFLICT (gateway_id) DO NOTHING")

	_, err := s.db.ExecContext(ctx, b.String(), args...)
	return err
}

// InsertSensors writes sensor rows in a single batched statement.
func (s *PostgresStore) InsertSensors(ctx context.Context, records []domain.SensorRecord) error {
	if len(records) == 0 {
		return nil
	}

	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(s.table)
	b.WriteString(" (sensor_id, organization, sensor_type, battery_level, connection_flag, gateway_id, last_report_at) VALUES ")

	args := make([]any, 0, len(records)*7)
	for i, r := range records {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d)",
			len(args)+1, len(args)+2, len(args)+3, len(args)+4, len(args)+5, len(args)+6, len(args)+7))

		var last any
		if r.LastReportAt != nil {
			last = r.LastReportAt.UTC()
		}
		args = append(args,
			r.SensorID,
			r.Organization,
			r.SensorType,
			r.BatteryLevel,
			r.ConnectionFlag,
			r.GatewayID,
			last,
		)
	}
	b.WriteString(" ON CONFLICT (sensor_id) DO NOTHING")

	_, err := s.db.ExecContext(ctx, b.String(), args...)
	return err
}
