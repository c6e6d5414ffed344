package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	fbapp "firebase.google.com/go/v4"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	"adstream/internal/adapter/api"
	"adstream/internal/adapter/api/handler"
	apimiddleware "adstream/internal/adapter/api/middleware"
	"adstream/internal/adapter/api/router"
	"adstream/internal/adapter/repository"
	"adstream/internal/domain/service"
	"adstream/internal/infrastructure/firebase"
	"adstream/internal/infrastructure/ratelimit"
	"adstream/internal/infrastructure/storage"
	"adstream/internal/infrastructure/websocket"
	"adstream/internal/usecase"
	"adstream/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opt option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opt = option.WithCredentialsJSON([]byte(serviceAccountJSON))
	} else {
		serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH")
		if serviceAccountPath == "" {
			serviceAccountPath = "./service-account.json"
		}
		if _, err := os.Stat(serviceAccountPath); os.IsNotExist(err) {
			log.Fatalf("Service account file does not exist: %s", serviceAccountPath)
		}
		opt = option.WithCredentialsFile(serviceAccountPath)
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	fbAuth, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	fbMessaging, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Messaging: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	categoryRepo := repository.NewFirestoreCategoryRepository(firestoreClient)
	storeRepo := repository.NewFirestoreStoreRepository(firestoreClient)
	planRepo := repository.NewFirestorePlanRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	chatRepo := repository.NewFirestoreChatRepository(firestoreClient)
	notificationRepo := repository.NewFirestoreNotificationRepository(firestoreClient)
	deviceRepo := repository.NewFirestoreDeviceRepository(firestoreClient)

	authClient := firebase.NewAuthClient(fbAuth)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	rateLimiter := ratelimit.NewRateLimiter()
	rateLimiter.StartCleanupRoutine()

	paymentService := service.NewStripePaymentService(cfg.StripeSecretKey, cfg.StripePublishableKey)
	mailService := service.NewMailgunService(cfg.MailgunDomain, cfg.MailgunApiKey, cfg.MailFrom)
	pushService := service.NewFCMPushService(fbMessaging)

	userUseCase := usecase.NewUserUseCase(userRepo)
	categoryUseCase := usecase.NewCategoryUseCase(categoryRepo)
	storeUseCase := usecase.NewStoreUseCase(storeRepo, userRepo)
	planUseCase := usecase.NewPlanUseCase(planRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo, categoryRepo, planRepo, userRepo)
	chatUseCase := usecase.NewChatUseCase(chatRepo, listingRepo, userRepo, wsManager, rateLimiter)
	notificationUseCase := usecase.NewNotificationUseCase(notificationRepo, deviceRepo, userRepo, wsManager, pushService, mailService)
	checkoutUseCase := usecase.NewCheckoutUseCase(listingRepo, planRepo, userRepo, paymentService, storageClient, notificationUseCase)

	// Inbound realtime events flow through the chat usecase.
	wsManager.SetHandler(chatUseCase)

	handler.Setup(userUseCase, categoryUseCase, storeUseCase, planUseCase, listingUseCase, chatUseCase, notificationUseCase, checkoutUseCase)
	handler.SetupHealthHandler()
	handler.SetupWebSocketHandler(wsManager)

	e := echo.New()

	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	router.Setup(e, authMiddleware, adminMiddleware)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
