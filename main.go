package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chatbot-backend/config"
	"chatbot-backend/controllers"
	"chatbot-backend/routes"
	"chatbot-backend/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.LoadConfig(); err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if err := config.LoadAWSConfig(); err != nil {
		log.Fatal("Failed to initialize AWS:", err)
	}

	if err := config.InitDB(); err != nil {
		log.Fatal("Failed to initialize database (PostgreSQL):", err)
	}

	if err := config.InitMongoDB(); err != nil {
		log.Fatal("Failed to initialize database (MongoDB):", err)
	}

	if err := config.InitRedis(); err != nil {
		log.Fatal("Failed to initialize Redis:", err)
	}

	services.InitUploader()

	config.InitLogger()

	wireServices()

	if config.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	trustedProxies := []string{"127.0.0.1", "::1"}
	if err := r.SetTrustedProxies(trustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies:", err)
	}

	allowOrigins := config.AllowedOrigins
	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	corsConfig := cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Session-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	r.Use(cors.New(corsConfig))

	// Answer all preflight OPTIONS requests
	r.Use(func(c *gin.Context) {
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}
		c.Next()
	})

	sessionKey := []byte(config.SessionSecret)
	if len(sessionKey) == 0 {
		log.Fatal("Session secret key is not configured")
	}
	store := cookie.NewStore(sessionKey)
	store.Options(sessions.Options{Path: "/", MaxAge: 86400, HttpOnly: true, SameSite: http.SameSiteStrictMode})
	r.Use(sessions.Sessions("adminsession", store))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")

		if err := config.CloseDB(); err != nil {
			log.Printf("Database shutdown error: %v", err)
		}
		if err := config.CloseMongoDB(); err != nil {
			log.Printf("MongoDB shutdown error: %v", err)
		}
		if err := config.CloseRedis(); err != nil {
			log.Printf("Redis shutdown error: %v", err)
		}

		os.Exit(0)
	}()

	routes.SetupRoutes(r)

	serverAddr := ":" + config.Port
	log.Printf("Server starting on %s", serverAddr)
	if err := r.Run(serverAddr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}

// wireServices builds the service graph the controllers use.
func wireServices() {
	chats := services.NewMongoChatRepo(config.MongoChatCollection)
	botConfig := services.NewMongoConfigRepo(config.MongoBotConfigCollection)
	store := services.NewRedisSessionStore(config.RedisClient)
	completion := services.NewCompletionService(
		services.NewOpenAICompleter(config.OpenAIAPIKey, config.OpenAIModel),
	)

	var notifier services.Notifier
	if config.PushoverUserKey != "" && config.PushoverAppToken != "" {
		notifier = services.NewPushoverNotifier(config.PushoverUserKey, config.PushoverAppToken, "Support ChatBot")
	}

	controllers.Chats = chats
	controllers.BotConfig = botConfig
	controllers.Completion = completion
	controllers.Notify = notifier
	controllers.Sessions = services.NewSessionService(store, chats, botConfig, completion, notifier)
}
