package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/go-marketing-api/internal/application/campaign"
	"github.com/go-marketing-api/internal/config"
	"github.com/go-marketing-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-marketing-api/internal/infrastructure/jwt"
	s3infra "github.com/go-marketing-api/internal/infrastructure/s3"
	sesinfra "github.com/go-marketing-api/internal/infrastructure/ses"
	"github.com/go-marketing-api/internal/infrastructure/smtp"
	"github.com/go-marketing-api/internal/infrastructure/sns"
	transporthttp "github.com/go-marketing-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient := dynamo.NewClient(cfg)
	dynamo.Bootstrap(context.Background(), dynamoClient, cfg.DynamoTables)

	// JWT provider (optional — graceful fallback if the public key is missing).
	var jwtProvider *jwtinfra.Provider
	if p, err := jwtinfra.NewProvider(cfg); err == nil {
		jwtProvider = p
	} else {
		log.Printf("WARN: JWT provider not available: %v", err)
	}

	// S3 store for CSV import archival.
	s3Client := s3infra.NewClient(cfg)
	s3Store := s3infra.NewStore(s3Client, cfg.S3BucketName)

	// Email provider selection: SES in production, SMTP by default.
	var mailer campaign.Mailer
	switch cfg.EmailProvider {
	case "ses":
		m, err := sesinfra.NewMailer(cfg)
		if err != nil {
			log.Fatalf("SES mailer: %v", err)
		}
		mailer = m
	default:
		mailer = smtp.NewMailer(cfg)
	}

	// SNS SMS sender (optional — graceful fallback).
	var smsSender campaign.SMSSender
	if sender, err := sns.NewSender(cfg); err == nil {
		smsSender = sender
	} else {
		log.Printf("WARN: SNS sender not available: %v", err)
	}

	contactRepo := dynamo.NewContactRepo(dynamoClient, cfg.DynamoTables.Contacts)

	deps := &transporthttp.Deps{
		BatchRepo:       dynamo.NewBatchRepo(dynamoClient, cfg.DynamoTables.VerificationBatches),
		ResultRepo:      dynamo.NewResultRepo(dynamoClient, cfg.DynamoTables.EmailVerifications),
		CampaignRepo:    dynamo.NewCampaignRepo(dynamoClient, cfg.DynamoTables.Campaigns),
		AnalyticsRepo:   dynamo.NewAnalyticsRepo(dynamoClient, cfg.DynamoTables.CampaignAnalytics),
		ContactRepo:     contactRepo,
		ContactListRepo: dynamo.NewContactListRepo(dynamoClient, cfg.DynamoTables.ContactLists),
		MembershipRepo:  dynamo.NewMembershipRepo(dynamoClient, cfg.DynamoTables.ContactListMemberships, contactRepo),
		S3Store:         s3Store,
		Mailer:          mailer,
		SMSSender:       smsSender,
		JWTProvider:     jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on :%s (env=%s)", cfg.AppPort, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
