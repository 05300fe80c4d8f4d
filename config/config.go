package config

import (
	"context"
	"log"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/spf13/viper"
)

var (
	Environment   string
	Port          string
	SessionSecret string
	JWTSecret     string

	MongoURI    string
	MongoDBName string

	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string

	RedisAddr     string
	RedisPassword string

	OpenAIAPIKey string
	OpenAIModel  string

	PushoverUserKey  string
	PushoverAppToken string

	AWSRegion          string
	AWSBucketName      string
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// WidgetURL is the public address the embed script points its iframe at.
	WidgetURL string
	// AllowedOrigins lists host-page origins allowed to talk to the widget
	// API and to receive the embed script's postMessage relay.
	AllowedOrigins []string

	// singleton lock
	loadConfigOnce sync.Once
)

var AWSConfig aws.Config

// LoadConfig loads configuration from .env or config.yaml using Viper
func LoadConfig() error {
	var loadError error
	loadConfigOnce.Do(func() {
		// Try to load config from .env first, then fallback to config.yaml
		viper.SetConfigFile(".env")
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil {
			viper.SetConfigFile("config.yaml")
			if err := viper.ReadInConfig(); err != nil {
				loadError = err
				log.Println("Failed to load configuration file:", err)
				return
			}
		}

		Environment = viper.GetString("ENVIRONMENT")
		Port = viper.GetString("PORT")
		SessionSecret = viper.GetString("SESSION_SECRET")
		JWTSecret = viper.GetString("JWT_SECRET")

		MongoURI = viper.GetString("MONGO_URI")
		MongoDBName = viper.GetString("MONGO_DB")

		PostgresUser = viper.GetString("POSTGRES_USER")
		PostgresPassword = viper.GetString("POSTGRES_PASSWORD")
		PostgresDB = viper.GetString("POSTGRES_DB")
		PostgresHost = viper.GetString("POSTGRES_HOST")
		PostgresPort = viper.GetString("POSTGRES_PORT")

		RedisAddr = viper.GetString("REDIS_ADDR")
		RedisPassword = viper.GetString("REDIS_PASSWORD")

		OpenAIAPIKey = viper.GetString("OPENAI_API_KEY")
		OpenAIModel = viper.GetString("OPENAI_MODEL")

		PushoverUserKey = viper.GetString("PUSHOVER_USER_KEY")
		PushoverAppToken = viper.GetString("PUSHOVER_APP_TOKEN")

		AWSAccessKeyID = viper.GetString("AWS_ACCESS_KEY_ID")
		AWSSecretAccessKey = viper.GetString("AWS_SECRET_ACCESS_KEY")
		AWSRegion = viper.GetString("AWS_REGION")
		AWSBucketName = viper.GetString("AWS_BUCKET_NAME")

		WidgetURL = viper.GetString("WIDGET_URL")
		if origins := viper.GetString("ALLOWED_ORIGINS"); origins != "" {
			for _, o := range strings.Split(origins, ",") {
				AllowedOrigins = append(AllowedOrigins, strings.TrimSpace(o))
			}
		}

		// Defaults for local development
		if Port == "" {
			Port = "8080"
		}
		if MongoURI == "" {
			MongoURI = "mongodb://localhost:27017"
		}
		if MongoDBName == "" {
			MongoDBName = "db_chat_widget"
		}
		if RedisAddr == "" {
			RedisAddr = "localhost:6379"
		}
		if OpenAIModel == "" {
			OpenAIModel = "gpt-3.5-turbo"
		}

		if PushoverUserKey == "" || PushoverAppToken == "" {
			log.Println("⚠️ Pushover credentials are not set, admin notifications are disabled")
		}

		log.Println("✅ Configuration loaded!")
	})

	return loadError
}

func LoadAWSConfig() error {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(AWSRegion),
		config.WithCredentialsProvider(
			aws.NewCredentialsCache(
				credentials.NewStaticCredentialsProvider(AWSAccessKeyID, AWSSecretAccessKey, ""),
			),
		),
	)
	if err != nil {
		return err
	}
	AWSConfig = cfg
	log.Println("✅ AWS SDK configuration loaded (manual credentials)")
	log.Printf("📦 Using AWS region: %s", cfg.Region)
	return nil
}
