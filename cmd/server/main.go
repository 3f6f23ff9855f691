package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"marketchat/internal/config"
	"marketchat/internal/database"
	"marketchat/internal/logger"
	postgresrepo "marketchat/internal/repository/postgres"
	"marketchat/internal/service"
	"marketchat/internal/translate"
	"marketchat/internal/transport/http/handlers"
	"marketchat/internal/transport/http/middleware"
	"marketchat/internal/transport/ws"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl, err := logger.New(cfg.DevLogging)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	// Database
	pool, err := database.Connect(context.Background(), cfg)
	if err != nil {
		zl.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()
	zl.Info("connected to database")

	// Repositories
	userRepo := postgresrepo.NewUserRepo(pool)
	conversationRepo := postgresrepo.NewConversationRepo(pool)

	// Translation gateway
	var translator translate.Translator = translate.Nop{}
	if cfg.TranslateURL != "" {
		translator = translate.NewHTTPGateway(cfg.TranslateURL, cfg.TranslateAPIKey, cfg.TranslateTimeout, zl)
	} else {
		zl.Warn("no translate endpoint configured, messages pass through untranslated")
	}

	// Services
	relayService := service.NewRelayService(userRepo, conversationRepo, translator, cfg.TranslateTimeout, zl)
	conversationService := service.NewConversationService(conversationRepo)

	// WebSocket hub + notifier
	hub := ws.NewHub(zl)
	relayService.SetNotifier(ws.NewHubNotifier(hub, zl))

	// Handlers
	conversationHandler := handlers.NewConversationHandler(conversationService, zl)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("GET /conversation/chats/{userId}", conversationHandler.Partners)
	mux.HandleFunc("GET /conversation/{userId}/{chatPartnerId}", conversationHandler.History)
	mux.Handle("GET /ws", ws.ServeWS(hub, relayService, cfg.JWTSecret, cfg.AllowInsecureUserID, zl))

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	zl.Info("starting server", zap.String("addr", addr))
	zl.Fatal("server stopped", zap.Error(http.ListenAndServe(addr, middleware.CORS(mux))))
}
