// Package app wires the process together: configuration from the
// environment, the logging router, the profile store, the session manager,
// and the HTTP surface.
package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	server "castle-defenders/server"
	"castle-defenders/server/catalog"
	"castle-defenders/server/internal/game"
	"castle-defenders/server/logging"
	loggingsinks "castle-defenders/server/logging/sinks"
	"castle-defenders/server/profile"
)

// Run starts the server and blocks until the HTTP listener fails.
func Run(ctx context.Context) error {
	logConfig := logging.DefaultConfig()
	if raw := os.Getenv("LOG_SINKS"); raw != "" {
		logConfig.EnabledSinks = strings.Split(raw, ",")
	}
	if raw := os.Getenv("LOG_JSON_FILE"); raw != "" {
		logConfig.JSON.FilePath = raw
		logConfig.EnabledSinks = append(logConfig.EnabledSinks, "json")
	}

	var sinks []logging.NamedSink
	if logConfig.HasSink("console") {
		sinks = append(sinks, logging.NamedSink{Name: "console", Sink: loggingsinks.NewConsoleSink(os.Stdout)})
	}
	if logConfig.HasSink("json") && logConfig.JSON.FilePath != "" {
		file, err := os.OpenFile(logConfig.JSON.FilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		sinks = append(sinks, logging.NamedSink{Name: "json", Sink: loggingsinks.NewJSONSink(file, logConfig.JSON.FlushInterval)})
	}

	router := logging.NewRouter(nil, logConfig, sinks)
	defer func() {
		if err := router.Close(ctx); err != nil {
			log.Printf("failed to close logging router: %v", err)
		}
	}()

	cat := catalog.Default()
	if path := os.Getenv("CATALOG_FILE"); path != "" {
		loaded, err := catalog.LoadFile(path)
		if err != nil {
			return fmt.Errorf("load catalog overrides: %w", err)
		}
		cat = loaded
	}

	dataDir := os.Getenv("DATA_DIR")
	if dataDir == "" {
		dataDir = "data"
	}
	store, err := profile.NewStore(dataDir)
	if err != nil {
		return fmt.Errorf("open profile store: %w", err)
	}

	gameCfg := game.DefaultConfig()
	if raw := os.Getenv("SESSION_SEED"); raw != "" {
		gameCfg.Seed = raw
	}
	if raw := os.Getenv("ROSTER_CAP"); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			gameCfg.RosterCap = value
		} else {
			log.Printf("invalid ROSTER_CAP=%q: %v", raw, err)
		}
	}

	manager := game.NewManager(gameCfg, cat, router)
	hub := server.NewHub(manager, store, cat, router)

	stop := make(chan struct{})
	go hub.RunSimulation(stop)
	defer close(stop)

	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("ok"))
	})

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}

	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("upgrade failed: %v", err)
			return
		}
		go hub.HandleConnection(conn)
	})

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	log.Printf("server listening on %s", addr)

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
