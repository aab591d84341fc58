package cmd

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/nobotchat/relay/botengine"
	"github.com/nobotchat/relay/botengine/providers"
	"github.com/nobotchat/relay/config"
	convRepo "github.com/nobotchat/relay/conversation/repository"
	domainWorkspace "github.com/nobotchat/relay/domains/workspace"
	"github.com/nobotchat/relay/infrastructure/mongodb"
	"github.com/nobotchat/relay/pkg/msgworker"
	"github.com/nobotchat/relay/ui/websocket"
	"github.com/nobotchat/relay/usecase"
	wsRepo "github.com/nobotchat/relay/workspace/repository"
)

var (
	appCtx    context.Context
	appCancel context.CancelFunc

	mongoClient *mongodb.Client

	workspaceRepo    wsRepo.IWorkspaceRepository
	conversationRepo convRepo.IConversationRepository

	hub        *websocket.Hub
	workerPool *msgworker.Pool
	botEngine  *botengine.Engine

	inboxService     *usecase.InboxService
	workspaceService domainWorkspace.IWorkspaceUsecase
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Realtime conversation relay with automated first response",
	Long: `Multi-tenant conversation relay: accepts visitor and agent messages
over websocket and the widget HTTP API, persists them, fans updates out to
subscribed clients and drafts automated replies through a configurable AI
provider.`,
}

func init() {
	time.Local = time.UTC

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().String("port", "", "HTTP listen port (overrides APP_PORT)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging (overrides APP_DEBUG)")
	rootCmd.PersistentFlags().String("mongo-uri", "", "MongoDB connection string, or 'memory' for the in-memory store")
	rootCmd.PersistentFlags().Int("workers", 0, "message worker pool size (overrides MESSAGE_WORKERS)")
}

// Execute runs the CLI entrypoint.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatalln(err)
	}
}

// initApp loads config, connects storage and wires every subsystem.
// Called by serving subcommands after flag parsing.
func initApp(cmd *cobra.Command) {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	if port, _ := cmd.Flags().GetString("port"); port != "" {
		cfg.App.Port = port
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.App.Debug = true
	}
	if uri, _ := cmd.Flags().GetString("mongo-uri"); uri != "" {
		cfg.Database.MongoURI = uri
	}
	if workers, _ := cmd.Flags().GetInt("workers"); workers > 0 {
		cfg.WorkerPool.Size = workers
	}

	if cfg.App.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	appCtx, appCancel = context.WithCancel(context.Background())

	if cfg.Database.MongoURI == "memory" {
		logrus.Warn("[INIT] Using in-memory store, data is lost on restart")
		workspaceRepo = wsRepo.NewMemoryWorkspaceRepository()
		conversationRepo = convRepo.NewMemoryConversationRepository()
	} else {
		mongoClient, err = mongodb.Connect(cfg.Database.MongoURI, cfg.Database.MongoDB)
		if err != nil {
			logrus.Fatalf("Failed to connect to MongoDB: %v", err)
		}
		workspaceRepo = wsRepo.NewMongoWorkspaceRepository(mongoClient.Database)
		mongoConvRepo := convRepo.NewMongoConversationRepository(mongoClient.Database)
		if err := mongoConvRepo.EnsureIndexes(appCtx); err != nil {
			logrus.Warnf("[INIT] Failed to ensure indexes: %v", err)
		}
		conversationRepo = mongoConvRepo
	}

	hub = websocket.NewHub()

	workerPool = msgworker.NewPool(cfg.WorkerPool.Size, cfg.WorkerPool.QueueSize)
	workerPool.Start(appCtx)

	botEngine = botengine.NewEngine(conversationRepo, hub, workerPool, cfg.AI)
	botEngine.RegisterProvider(providers.NewGeminiProvider())
	botEngine.RegisterProvider(providers.NewOpenAIProvider())

	inboxService = usecase.NewInboxService(workspaceRepo, conversationRepo, hub, botEngine)
	workspaceService = usecase.NewWorkspaceService(workspaceRepo, cfg.AI.DefaultReplyDelayMs, cfg.AI.DefaultTypingDurationMs)

	logrus.Infof("[INIT] Relay initialized (store=%s, provider=%s, workers=%d)",
		storeLabel(cfg.Database.MongoURI), cfg.AI.Provider, cfg.WorkerPool.Size)
}

// StopApp tears subsystems down in reverse dependency order.
func StopApp() {
	if workerPool != nil {
		workerPool.Stop()
	}
	if appCancel != nil {
		appCancel()
	}
	if mongoClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := mongoClient.Close(ctx); err != nil {
			logrus.Errorf("[INIT] Error closing MongoDB connection: %v", err)
		}
	}
}

func storeLabel(uri string) string {
	if uri == "memory" {
		return "memory"
	}
	return "mongodb"
}
