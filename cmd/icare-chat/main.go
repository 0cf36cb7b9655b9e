package main

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	icare "github.com/Mathieu1704/icare-mvp"
	"github.com/Mathieu1704/icare-mvp/internal/adapters/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "serve":
		err = serveCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "seed":
		err = seedCommand(os.Args[2:])
	case "ask":
		err = askCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("icare-chat %s: %v", cmd, err)
	}
}

func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rt, err := icare.Conf(*cfgPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return rt.Run(ctx)
}

func validateCommand(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file to validate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := icare.LoadConfig(*cfgPath); err != nil {
		return err
	}
	fmt.Printf("config %s looks good\n", *cfgPath)
	return nil
}

func seedCommand(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	cfgPath := fs.String("config", "./config.yaml", "Path to configuration file")
	organization := fs.String("organization", "icare_mons", "Organization to seed")
	sensors := fs.Int("sensors", 200, "Number of sensors to generate")
	gateways := fs.Int("gateways", 10, "Number of gateways to generate")
	disconnected := fs.Float64("disconnected", 0.1, "Fraction of sensors seeded as stale")
	rngSeed := fs.Int64("rng-seed", 0, "Deterministic RNG seed (0 = time-based)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := icare.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}

	db, err := sql.Open("postgres", cfg.Postgres.ConnString)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	defer db.Close()

	st := store.NewPostgresStore(db, cfg.Postgres.Table, cfg.Postgres.QueryTimeout)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}
	if err := st.ResetOrganization(ctx, *organization); err != nil {
		return err
	}

	records, gatewayIDs := store.GenerateFleet(store.SeedSpec{
		Organization:         *organization,
		Sensors:              *sensors,
		Gateways:             *gateways,
		DisconnectedFraction: *disconnected,
		Seed:                 *rngSeed,
	})

	if err := st.InsertGateways(ctx, *organization, gatewayIDs); err != nil {
		return err
	}
	if err := st.InsertSensors(ctx, records); err != nil {
		return err
	}

	fmt.Printf("Inserted %d sensors and %d gateways for %q.\n", len(records), len(gatewayIDs), *organization)
	return nil
}

func askCommand(args []string) error {
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "Base URL of a running icare-chat server")
	locale := fs.String("locale", "fr", "Answer locale (fr or en)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	message := strings.TrimSpace(strings.Join(fs.Args(), " "))
	if message == "" {
		return fmt.Errorf("a message is required, e.g.: icare-chat ask 'Tous les capteurs sont-ils connectés ?'")
	}

	body, err := json.Marshal(icare.ChatRequest{Message: message, Locale: *locale})
	if err != nil {
		return err
	}

	resp, err := http.Post(strings.TrimRight(*url, "/")+"/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var answer icare.ChatResponse
	if err := json.Unmarshal(raw, &answer); err != nil {
		return err
	}
	fmt.Println(answer.Answer)
	return nil
}

func printUsage() {
	fmt.Printf(`icare-chat CLI

Usage:
  icare-chat <command> [flags]

Commands:
  serve      Start the chat service using the provided config
  validate   Load and validate a config file without starting the service
  seed       Populate the sensor store with a synthetic fleet
  ask        Send one question to a running server and print the answer

Examples:
  icare-chat serve -config ./config.yaml
  icare-chat validate -config ./config.yaml
  icare-chat seed -config ./config.yaml -organization icare_mons -sensors 200
  icare-chat ask -locale en "Are all sensors connected?"
`)
}
