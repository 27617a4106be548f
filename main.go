package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"influencia-backend/config"
	"influencia-backend/database"
	"influencia-backend/handlers"
	"influencia-backend/middleware"
	"influencia-backend/services"
	"influencia-backend/utils"
	"influencia-backend/websocket"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// setupLogger configure zerolog : niveau depuis LOG_LEVEL, sortie console lisible en développement
func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Environment == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"})
	}
	// Les handlers journalisent via log.Ctx(r.Context())
	zerolog.DefaultContextLogger = &log.Logger
}

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur lors du chargement de la configuration")
	}
	setupLogger(cfg)

	adminHash, err := utils.ResolveAdminHash(cfg.AdminPassword, cfg.AdminPassHash)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Mot de passe admin invalide (ADMIN_PASSWORD ou ADMIN_PASSWORD_HASH)")
	}

	// Connexion à MongoDB
	store, err := database.Connect(context.Background(), cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatal().Err(err).Msg("❌ Erreur de connexion à MongoDB")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("❌ Erreur fermeture MongoDB")
		}
	}()

	// Créer les repositories
	registrationRepo := database.NewRegistrationRepository(store)
	volunteerRepo := database.NewVolunteerRepository(store)
	courseRepo := database.NewCourseRepository(store)
	contactRepo := database.NewContactRepository(store)
	alertRepo := database.NewAlertRepository(store)

	// Services
	slackService := services.NewSlackService(cfg.SlackWebhook)
	mailer := services.NewMailer(cfg.SMTP, cfg.PublicBaseURL)
	statsService := services.NewStatsService(registrationRepo, volunteerRepo, contactRepo, courseRepo)

	digestCron := services.NewDigestCron(statsService, slackService, cfg.DigestSchedule)
	if slackService.Enabled() {
		if err := digestCron.Start(); err != nil {
			log.Error().Err(err).Msg("❌ Impossible de démarrer le récapitulatif quotidien")
		}
	}

	// Hub WebSocket du tableau de bord
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Info().Msg("✅ Hub WebSocket initialisé et en cours d'exécution")

	// Créer les handlers
	healthHandler := handlers.NewHealthHandler(cfg.Environment, store)
	registrationHandler := handlers.NewRegistrationHandler(registrationRepo, mailer, wsHub)
	ticketHandler := handlers.NewTicketHandler(registrationRepo, wsHub)
	volunteerHandler := handlers.NewVolunteerHandler(volunteerRepo, mailer, wsHub)
	courseHandler := handlers.NewCourseHandler(courseRepo)
	contactHandler := handlers.NewContactHandler(contactRepo)
	authHandler := handlers.NewAuthHandler(adminHash, cfg.JWTSecret)
	adminHandler := handlers.NewAdminHandler(statsService, registrationRepo, volunteerRepo)
	alertHandler := handlers.NewAlertHandler(alertRepo, slackService)
	wsHandler := websocket.NewHandler(wsHub, cfg.JWTSecret, cfg.AdminAPIToken)

	// Créer le routeur
	router := mux.NewRouter()

	// Créer un routeur sans middleware pour WebSocket
	rawRouter := mux.NewRouter()

	// Appliquer les middlewares globaux (SAUF pour WebSocket)
	router.Use(middleware.Logging(slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Les routes admin partagent parfois leur chemin avec une route publique
	// (GET /api/courses public, POST /api/courses admin) : la protection est posée par route
	authMiddleware := middleware.Auth(cfg.JWTSecret, cfg.AdminAPIToken)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMiddleware(middleware.RequireAdmin(h))
	}

	// Route de santé (health check)
	router.HandleFunc("/api/health", healthHandler.Health).Methods("GET")

	// Inscriptions
	router.HandleFunc("/api/register", registrationHandler.Register).Methods("POST", "OPTIONS")
	router.Handle("/api/registrations", admin(registrationHandler.List)).Methods("GET", "OPTIONS")
	router.Handle("/api/registrations/export", admin(adminHandler.ExportRegistrations)).Methods("GET", "OPTIONS")
	router.Handle("/api/attendees/{id}", admin(registrationHandler.UpdateAttendee)).Methods("PUT", "OPTIONS")
	router.Handle("/api/attendees/{id}", admin(registrationHandler.DeleteAttendee)).Methods("DELETE", "OPTIONS")

	// E-pass et check-in
	router.HandleFunc("/api/ticket/{ticketId}", ticketHandler.GetTicket).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/ticket/{ticketId}/qr.png", ticketHandler.TicketQR).Methods("GET", "OPTIONS")
	router.Handle("/api/checkin", admin(ticketHandler.CheckIn)).Methods("POST", "OPTIONS")

	// Bénévoles
	router.HandleFunc("/api/volunteer", volunteerHandler.Apply).Methods("POST", "OPTIONS")
	router.Handle("/api/volunteers", admin(volunteerHandler.List)).Methods("GET", "OPTIONS")
	router.Handle("/api/volunteers/export", admin(adminHandler.ExportVolunteers)).Methods("GET", "OPTIONS")
	router.Handle("/api/volunteers/{id}", admin(volunteerHandler.Update)).Methods("PUT", "OPTIONS")
	router.Handle("/api/volunteers/{id}", admin(volunteerHandler.Delete)).Methods("DELETE", "OPTIONS")

	// Formations
	router.HandleFunc("/api/courses", courseHandler.ListPublished).Methods("GET", "OPTIONS")
	router.Handle("/api/courses", admin(courseHandler.Create)).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/courses/{idOrSlug}", courseHandler.Get).Methods("GET", "OPTIONS")
	router.Handle("/api/courses/{id}", admin(courseHandler.Update)).Methods("PUT", "OPTIONS")
	router.Handle("/api/courses/{id}", admin(courseHandler.Delete)).Methods("DELETE", "OPTIONS")

	// Messages de contact
	router.HandleFunc("/api/contacts", contactHandler.Create).Methods("POST", "OPTIONS")
	router.Handle("/api/contacts", admin(contactHandler.List)).Methods("GET", "OPTIONS")
	router.Handle("/api/contacts/{id}", admin(contactHandler.Update)).Methods("PUT", "OPTIONS")
	router.Handle("/api/contacts/{id}", admin(contactHandler.Delete)).Methods("DELETE", "OPTIONS")

	// Route d'alertes critiques (publique - pas d'auth pour permettre les alertes en cas d'erreur)
	router.HandleFunc("/api/alerts/critical", alertHandler.SendCriticalAlert).Methods("POST", "OPTIONS")

	// Tableau de bord
	router.HandleFunc("/api/admin/login", authHandler.Login).Methods("POST", "OPTIONS")
	router.Handle("/api/admin/me", admin(authHandler.Me)).Methods("GET", "OPTIONS")
	router.Handle("/api/admin/stats", admin(adminHandler.Stats)).Methods("GET", "OPTIONS")
	router.Handle("/api/admin/courses", admin(courseHandler.ListAll)).Methods("GET", "OPTIONS")

	// 🔌 Flux temps réel du tableau de bord, authentifié par le premier message
	rawRouter.HandleFunc("/ws/dashboard", wsHandler.ServeWS).Methods("GET")

	// Créer un multiplexeur qui combine les deux routers
	mainHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws/dashboard" {
			rawRouter.ServeHTTP(w, r)
			return
		}
		router.ServeHTTP(w, r)
	})

	// Démarrer le serveur
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           mainHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Gérer l'arrêt gracieux du serveur
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Environment).Msg("🚀 Serveur démarré")
		if cfg.AdminAPIToken != "" {
			log.Info().Msg("🔑 Token statique admin activé")
		}
		log.Info().Msg("✨ Le serveur est prêt à recevoir des requêtes!")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("❌ Erreur du serveur")
		}
	}()

	// Attendre le signal d'arrêt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("🛑 Arrêt du serveur...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("❌ Erreur lors de l'arrêt du serveur")
	}
	digestCron.Stop()
	wsHub.Stop()
	log.Info().Msg("✓ Serveur arrêté proprement")
}
