package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/treefix50/pipeview/internal/config"
	"github.com/treefix50/pipeview/internal/inspection"
	"github.com/treefix50/pipeview/internal/server"
	"github.com/treefix50/pipeview/internal/session"
	"github.com/treefix50/pipeview/internal/storage"
	"github.com/treefix50/pipeview/internal/taxonomy"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}

	var (
		addr   = flag.String("addr", cfg.Addr, "listen address")
		dbPath = flag.String("db", cfg.DBPath, "sqlite database path")
		cors   = flag.Bool("cors", true, "send permissive CORS headers")
	)
	flag.Parse()

	store, err := storage.Open(*dbPath, storage.Options{BusyTimeout: 5 * time.Second})
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if seeded, err := store.SeedSample(inspection.Sample()); err != nil {
		log.Fatal(err)
	} else if seeded {
		log.Println("seeded sample inspection data")
	}

	catalog, err := inspection.NewCatalog(store)
	if err != nil {
		log.Fatal(err)
	}

	var tax *taxonomy.Service
	if cfg.TaxonomySource == "" {
		tax = taxonomy.New(nil)
	} else if tree, err := taxonomy.Load(cfg.TaxonomySource); err != nil {
		log.Printf("level=info msg=\"taxonomy unavailable, using fallback tables\" err=%v", err)
		tax = taxonomy.New(nil)
	} else {
		tax = taxonomy.New(tree)
	}

	sessions := session.NewManager(session.Config{
		DriftThreshold: cfg.DriftThreshold,
		TickInterval:   cfg.TickInterval,
	}, catalog, store)

	s := server.New(server.Options{
		Addr:             *addr,
		EventMinInterval: cfg.EventMinInterval,
		CORSEnabled:      *cors,
	}, catalog, sessions, tax)

	// graceful-ish stop
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		<-ch
		log.Println("shutting down...")
		_ = s.Close()
	}()

	log.Printf("pipeview listening on http://localhost%s (db=%s)\n", *addr, *dbPath)
	log.Fatal(s.Start())
}
