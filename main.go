package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

var verbose bool

// debugf logs only with -verbose
func debugf(format string, args ...interface{}) {
	if verbose {
		log.Printf(format, args...)
	}
}

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "Path to JSON config file (defaults built in)")
	dbPath := flag.String("db", "tagfield.db", "SQLite database path (empty disables accounts and history)")
	addAccount := flag.String("add-account", "", "Create a ranked account and exit")
	password := flag.String("password", "", "Password for -add-account")
	rank := flag.String("rank", defaultRank, "Rank for -add-account")
	flag.BoolVar(&verbose, "verbose", false, "Log rejected intents and other debug detail")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg.ApplyEnv()
	cfg.ClampConfig()

	var db *DB
	if *dbPath != "" {
		db, err = OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("open db %s: %v", *dbPath, err)
		}
		defer db.Close()
	}

	if *addAccount != "" {
		if db == nil {
			log.Fatal("-add-account needs -db")
		}
		if err := NewAuth(db).CreateAccount(*addAccount, *password, *rank); err != nil {
			log.Fatalf("add account: %v", err)
		}
		fmt.Printf("account %s created with rank %s\n", *addAccount, *rank)
		return
	}

	var rec *Recorder
	var engine *Engine
	if db != nil {
		rec = NewRecorder(db)
		engine = NewEngine(cfg, rec)
	} else {
		engine = NewEngine(cfg, nil)
	}
	go engine.Run()

	hubStop := make(chan struct{})
	hub := NewHub(engine, db)
	go hub.Run(hubStop)

	mux := SetupRoutes(hub, rec)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	server := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		log.Printf("Server starting on %s (modes: %d, min players: %d)", *addr, len(cfg.Modes), cfg.MinPlayers)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down...")
	server.Close()
	engine.Stop()
	close(hubStop)
	if rec != nil {
		rec.Stop()
	}
}
