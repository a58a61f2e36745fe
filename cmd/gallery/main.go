// Command gallery is a read-only terminal view of the student directory.
// It loads the list once, then re-loads whenever another instance publishes
// an invalidation event.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"student-directory/internal/apiclient"
	"student-directory/internal/config"
	"student-directory/internal/logger"
	"student-directory/internal/metrics"
	"student-directory/internal/mirror"
	"student-directory/internal/sync"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
)

func main() {
	_ = godotenv.Load()

	slogLogger := logger.NewWithServiceContext("gallery", "dev")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%s", cfg.Server.Port)
	}

	client, err := apiclient.New(baseURL, slogLogger)
	if err != nil {
		log.Fatalf("failed to create client: %v", err)
	}

	notifier, err := newNotifier(cfg.Sync, slogLogger)
	if err != nil {
		log.Fatalf("failed to create notifier: %v", err)
	}
	defer notifier.Close()

	meters, err := metrics.New(otel.Meter("gallery"))
	if err != nil {
		log.Fatalf("failed to initialize metrics: %v", err)
	}

	ctx := context.Background()
	m := mirror.New(client, notifier, slogLogger, meters)

	if err := m.Load(ctx); err != nil {
		log.Fatalf("failed to load students: %v", err)
	}
	render(m)

	unsubscribe, err := notifier.Subscribe(func(event sync.Event) {
		if err := m.Load(ctx); err != nil {
			slogLogger.Warn("reload failed", "error", err)
			return
		}
		render(m)
	})
	if err != nil {
		log.Fatalf("failed to subscribe: %v", err)
	}
	defer unsubscribe()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
}

func newNotifier(cfg config.SyncConfig, logger *slog.Logger) (sync.Notifier, error) {
	switch cfg.Backend {
	case "kafka":
		return sync.NewKafkaNotifier(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Group, logger)
	case "memory":
		return sync.NewMemoryNotifier(), nil
	default:
		return sync.NewNATSNotifier(cfg.NATS.URL, cfg.NATS.Subject, logger)
	}
}

func render(m *mirror.Mirror) {
	students := m.Students()
	fmt.Printf("\n%d student(s)\n", len(students))

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ROLL\tNAME\tCLASS\tPHONE")
	for _, s := range students {
		phone := "-"
		if s.PhNo != nil {
			phone = fmt.Sprintf("%d", *s.PhNo)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.RollNo, s.Name, s.Class, phone)
	}
	w.Flush()
}
