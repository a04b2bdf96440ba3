package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"coffeechat/database/store"
	"coffeechat/internal/env"
	"coffeechat/internal/flash"
	"coffeechat/internal/library"
	"coffeechat/middleware"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/acme"
	"golang.org/x/crypto/acme/autocert"
)

var (
	logger  *slog.Logger
	queries *store.Queries
)

func main() {
	if err := env.LoadFromFile(".env"); err != nil {
		log.Fatalf("Failed to load .env file: %v", err)
	}

	port := env.GetAsStringElseAlt("PORT", "9005")
	mode := env.GetAsStringElseAlt("ENV", "dev")

	setupLogger(mode)

	if err := middleware.InitializeOAuth(); err != nil {
		logger.Warn("login OAuth not configured", "error", err)
	}
	if err := library.InitializeOAuth(); err != nil {
		logger.Warn("calendar OAuth not configured", "error", err)
	}

	r := setupRouter()

	db, err := setupDatabase(env.GetAsString("DATABASE_URL"))
	if err != nil {
		logger.Error("Failed to setup database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	queries = store.New(db)
	drafter := library.NewDrafter()

	setupRoutes(r, drafter)

	server := createServer(r, mode, port)
	logger.Info("Your app is running", "host", server.Addr)
	log.Fatal(server.ListenAndServeTLS("", ""))
}

func setupLogger(mode string) {
	opts := &slog.HandlerOptions{
		AddSource: true,
		Level:     slog.LevelDebug,
	}
	if mode == "prod" {
		opts.Level = slog.LevelInfo
	}

	logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
}

func setupRouter() *mux.Router {
	r := mux.NewRouter()
	r.Use(cacheControlMiddleware)
	return r
}

func cacheControlMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "max-age=0, must-revalidate")
		next.ServeHTTP(w, r)
	})
}

func setupDatabase(dbHost string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dbHost)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	return db, nil
}

func setupRoutes(r *mux.Router, drafter *library.Drafter) {
	r.Use(middleware.HSTS)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS)
	fs := http.FileServer(http.Dir("static"))
	r.PathPrefix("/static").Handler(http.StripPrefix("/static", fs))

	r.Handle("/notifications", flash.HandlerWithLogger(logger))

	r.HandleFunc("/", catchAllAndRouteToStatic())
	r.HandleFunc("/robots.txt", catchAllAndRouteToStatic())
	r.HandleFunc("/favicon.ico", catchAllAndRouteToStatic())

	r.HandleFunc("/login", ServeLoginPage)
	r.HandleFunc("/login/auth", middleware.LoginHandler)
	r.HandleFunc("/login/callback", callbackHandler)

	r.Handle("/admin",
		middleware.AuthMiddleware(
			middleware.CSRFProtect(
				http.HandlerFunc(AdminHandler(*queries)),
			),
		),
	).Methods("GET")
	r.HandleFunc("/unlink", Unlink(*queries)).Methods("POST")
	r.HandleFunc("/logout", LogoutHandler).Methods("GET")

	r.HandleFunc("/generate", GenerateHandler(*queries, drafter)).Methods("POST", "OPTIONS")
	r.HandleFunc("/compose", ComposeHandler(*queries, drafter)).Methods("POST", "OPTIONS")
	r.HandleFunc("/refine", RefineHandler(drafter)).Methods("POST", "OPTIONS")
	r.HandleFunc("/calendar/status", CalendarStatusHandler(*queries)).Methods("GET")
}

func callbackHandler(w http.ResponseWriter, r *http.Request) {
	middleware.CallbackHandler(w, r, queries)
}

func createServer(r *mux.Router, mode, port string) *http.Server {
	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
	}

	if mode == "dev" {
		cert, err := tls.LoadX509KeyPair("cert.pem", "key.pem")
		if err != nil {
			logger.Error("Error loading certificate and key", "error", err)
			os.Exit(1)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	} else {
		manager := &autocert.Manager{
			Prompt:     autocert.AcceptTOS,
			HostPolicy: autocert.HostWhitelist(env.GetAsString("DOMAIN")),
			Cache:      autocert.DirCache("certs"),
		}
		tlsConfig.GetCertificate = manager.GetCertificate
		tlsConfig.NextProtos = []string{"h2", "http/1.1", acme.ALPNProto}
	}

	return &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		TLSConfig:         tlsConfig,
		ReadHeaderTimeout: 30 * time.Second,
	}
}
