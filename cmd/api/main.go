package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"accsmarket/internal/adapter/api"
	"accsmarket/internal/adapter/api/handler"
	apimiddleware "accsmarket/internal/adapter/api/middleware"
	"accsmarket/internal/adapter/api/router"
	"accsmarket/internal/adapter/repository"
	"accsmarket/internal/infrastructure/firebase"
	"accsmarket/internal/usecase"
	"accsmarket/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption

	// Service account from environment variable (production) or file path
	// (local development); otherwise application default credentials.
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		log.Printf("Using Firebase service account from environment variable")
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		log.Printf("Using Firebase service account from file: %s", serviceAccountPath)
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{
		ProjectID:   cfg.FirebaseProject,
		DatabaseURL: cfg.DatabaseURL,
	}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	// The message log lives in Realtime Database; everything else is in
	// Firestore.
	dbClient, err := firebaseApp.Database(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Realtime Database client: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	channelRepo := repository.NewFirestoreChannelRepository(firestoreClient)
	indexRepo := repository.NewFirestoreChannelIndexRepository(firestoreClient)
	messageRepo := repository.NewRTDBMessageRepository(dbClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	channelUseCase := usecase.NewChannelUseCase(channelRepo, messageRepo, indexRepo, listingRepo, userRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, router.Handlers{
		Channel: handler.NewChannelHandler(channelUseCase),
		Listing: handler.NewListingHandler(listingUseCase),
		Health:  handler.NewHealthHandler(firebaseAuthClient),
	}, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
