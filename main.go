package main

import (
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	clientDir := flag.String("client", cfg.ClientDir, "Path to client directory (default: ../client)")
	dbPath := flag.String("db", cfg.DBPath, "Path to SQLite database")
	publicURL := flag.String("public-url", cfg.PublicURL, "Externally reachable base URL (used in QR codes)")
	flag.Parse()

	if *clientDir == "" {
		exe, _ := os.Executable()
		*clientDir = filepath.Join(filepath.Dir(exe), "..", "client")
		// Fallback for development
		if _, err := os.Stat(*clientDir); os.IsNotExist(err) {
			*clientDir = "../client"
		}
	}

	db, err := OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	feed := NewEventFeed(cfg.FeedBuf)
	rec := NewRecorder(db, feed)

	hub := NewHub(db, feed, rec)
	go hub.Run()

	mux := SetupRoutes(hub, *clientDir, *publicURL)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s", *addr)
		log.Printf("Serving client files from %s", *clientDir)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	hub.sessions.Stop()
	server.Close()
}
