package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	icare "github.com/Mathieu1704/icare-mvp"
)

func main() {
	rt, err := icare.Conf("./config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rt.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("chat service exited: %v", err)
	}
}
