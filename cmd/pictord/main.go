// Command pictord is the pictor daemon: it serves the trigger API and runs
// the periodic tagging sweep until terminated.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"pictor/internal/catalog"
	"pictor/internal/config"
	"pictor/internal/daemon"
	"pictor/internal/logging"
	"pictor/internal/services/vision"
	"pictor/internal/tagging"
)

func main() {
	configPath := flag.String("config", "", "configuration file path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, _, _, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}

	store, err := catalog.Open(cfg)
	if err != nil {
		logger.Error("open catalog store", "error", err)
		return
	}

	client := vision.NewClient(cfg.Classifier.Endpoint,
		vision.WithTimeout(time.Duration(cfg.Classifier.TimeoutSeconds)*time.Second))
	classifier := tagging.NewVisionClassifier(client, cfg.Classifier.Labels)
	var recognizer tagging.Recognizer
	if cfg.Recognizer.Enabled {
		recognizer = tagging.NewVisionRecognizer(client, cfg.Recognizer.Languages)
	}
	engine := tagging.NewEngine(cfg, store, classifier, recognizer, logger)

	d, err := daemon.New(cfg, store, engine, logger)
	if err != nil {
		logger.Error("create daemon", "error", err)
		_ = store.Close()
		return
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		logger.Error("start daemon", "error", err)
		return
	}

	<-ctx.Done()
	logger.Info("pictord shutting down")
}
