package app

import (
	"context"
	"fmt"
	"net/http"

	server "github.com/admin/cosmic-connect/internal/adapters/primary/http"
	adminController "github.com/admin/cosmic-connect/internal/adapters/primary/http/controllers/admin"
	astrologerController "github.com/admin/cosmic-connect/internal/adapters/primary/http/controllers/astrologer"
	authController "github.com/admin/cosmic-connect/internal/adapters/primary/http/controllers/auth"
	catalogController "github.com/admin/cosmic-connect/internal/adapters/primary/http/controllers/catalog"
	chatController "github.com/admin/cosmic-connect/internal/adapters/primary/http/controllers/chat"
	healthcheckController "github.com/admin/cosmic-connect/internal/adapters/primary/http/controllers/healthcheck"
	"github.com/admin/cosmic-connect/internal/adapters/primary/http/middlewares"
	kafkaConsumerAdapter "github.com/admin/cosmic-connect/internal/adapters/primary/kafka"
	kafkaHandlers "github.com/admin/cosmic-connect/internal/adapters/primary/kafka/handlers"
	alerterAdapter "github.com/admin/cosmic-connect/internal/adapters/secondary/alerter"
	kafkaAdapter "github.com/admin/cosmic-connect/internal/adapters/secondary/kafka"
	"github.com/admin/cosmic-connect/internal/adapters/secondary/storage/inmemory"
	"github.com/admin/cosmic-connect/internal/adapters/secondary/storage/pg"
	redisAdapter "github.com/admin/cosmic-connect/internal/adapters/secondary/storage/redis"
	s3Adapter "github.com/admin/cosmic-connect/internal/adapters/secondary/storage/s3"
	"github.com/admin/cosmic-connect/internal/ports/cache"
	"github.com/admin/cosmic-connect/internal/ports/feed"
	"github.com/admin/cosmic-connect/internal/ports/kafka"
	"github.com/admin/cosmic-connect/internal/ports/repository"
	"github.com/admin/cosmic-connect/internal/ports/service"
	astrologerRepo "github.com/admin/cosmic-connect/internal/repository/astrologer"
	chatRepo "github.com/admin/cosmic-connect/internal/repository/chat"
	messageRepo "github.com/admin/cosmic-connect/internal/repository/message"
	paymentRepo "github.com/admin/cosmic-connect/internal/repository/payment"
	profileRepo "github.com/admin/cosmic-connect/internal/repository/profile"
	alerterService "github.com/admin/cosmic-connect/internal/services/alerter"
	"github.com/admin/cosmic-connect/internal/services/events"
	jobScheduler "github.com/admin/cosmic-connect/internal/services/jobs"
	astrologerUsecase "github.com/admin/cosmic-connect/internal/usecases/astrologer"
	authUsecase "github.com/admin/cosmic-connect/internal/usecases/auth"
	catalogUsecase "github.com/admin/cosmic-connect/internal/usecases/catalog"
	chatUsecase "github.com/admin/cosmic-connect/internal/usecases/chat"
	paymentUsecase "github.com/admin/cosmic-connect/internal/usecases/payment"
	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

const eventsProducerName = "events"

type Dependencies struct {
	DB             *sqlx.DB
	Redis          *redis.Client
	HTTPServer     *http.Server
	KafkaProducers map[string]*kafkaAdapter.EventProducer
	KafkaConsumers map[string]*kafkaConsumerAdapter.Consumer
	Cache          cache.Cache
	JobScheduler   *jobScheduler.Scheduler
}

// initDependencies инициализирует все зависимости приложения
func (a *App) initDependencies(ctx context.Context) (*Dependencies, error) {
	db, err := a.initPostgres(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to init postgres: %w", err)
	}

	persistenceLayer := pg.NewDB(db)
	repos := a.initRepositories(persistenceLayer)

	externalServices, err := a.initExternalServices()
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to init external services: %w", err)
	}

	kafkaProducers, kafkaConsumers := a.initKafka(externalServices.Alerter)

	var publisher kafka.IEventPublisher = kafkaAdapter.NewLogPublisher(a.Log)
	if prod, ok := kafkaProducers[eventsProducerName]; ok {
		publisher = prod
	}
	dispatcher := events.NewDispatcher(publisher, a.Log)

	useCases := a.initUseCases(persistenceLayer, repos, externalServices, dispatcher)
	httpServer := a.initHTTP(persistenceLayer, useCases)
	scheduler := a.initJobScheduler(externalServices.Alerter, useCases.Payment)

	return &Dependencies{
		DB:             db,
		Redis:          externalServices.Redis,
		HTTPServer:     httpServer,
		KafkaProducers: kafkaProducers,
		KafkaConsumers: kafkaConsumers,
		Cache:          externalServices.Cache,
		JobScheduler:   scheduler,
	}, nil
}

// repositories содержит инициализированные репозитории
type repositories struct {
	Profile    repository.IProfileRepo
	Astrologer repository.IAstrologerRepo
	Chat       repository.IChatRepo
	Message    repository.IMessageRepo
	Payment    repository.IPaymentRepo
}

// initRepositories инициализирует репозитории для работы с БД
func (a *App) initRepositories(persistenceLayer *pg.DB) *repositories {
	return &repositories{
		Profile:    profileRepo.New(persistenceLayer, a.Log),
		Astrologer: astrologerRepo.New(persistenceLayer, a.Log),
		Chat:       chatRepo.New(persistenceLayer, a.Log),
		Message:    messageRepo.New(persistenceLayer, a.Log),
		Payment:    paymentRepo.New(persistenceLayer, a.Log),
	}
}

// externalServices содержит внешние сервисы
type externalServices struct {
	Alerter service.IAlerterService // может быть nil
	Cache   cache.Cache             // может быть nil
	Redis   *redis.Client           // может быть nil
	Feed    feed.IMessageFeed
	Proofs  *s3Adapter.ProofStore
}

// initExternalServices инициализирует Alerter, Redis (кэш и лента сообщений) и хранилище чеков
func (a *App) initExternalServices() (*externalServices, error) {
	services := &externalServices{}

	// Alerter - опциональный
	if alerterClient := alerterAdapter.NewClient(a.Cfg.Alerter, a.Log); alerterClient != nil {
		services.Alerter = alerterService.New(alerterClient, a.Cfg.Environment)
		a.Log.Info("alerter enabled")
	}

	// Redis - опциональный для кэша, обязательный для ленты в режиме redis
	if a.Cfg.Redis != nil && a.Cfg.Redis.Enabled {
		redisClient, err := a.Cfg.Redis.NewConnection()
		switch {
		case err == nil:
			services.Redis = redisClient
			services.Cache = redisAdapter.NewClient(redisClient)
			a.Log.Info("redis connected successfully")
		case a.Cfg.Chat.FeedDriver == feedDriverRedis:
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		default:
			a.Log.Warn("failed to init redis cache, continuing without cache", "error", err)
		}
	}

	if a.Cfg.Chat.FeedDriver == feedDriverRedis {
		services.Feed = redisAdapter.NewMessageFeed(services.Redis, a.Log)
	} else {
		a.Log.Warn("in-memory message feed enabled, live updates work within a single instance only")
		services.Feed = inmemory.NewMessageHub()
	}

	minioClient, err := a.Cfg.S3.NewClient()
	if err != nil {
		if services.Redis != nil {
			_ = services.Redis.Close()
		}
		return nil, fmt.Errorf("failed to init proof storage: %w", err)
	}
	services.Proofs = s3Adapter.NewProofStore(minioClient, a.Cfg.S3.Bucket, a.Log)
	a.Log.Info("proof storage connected successfully", "bucket", a.Cfg.S3.Bucket)

	return services, nil
}

// initKafka инициализирует Kafka producers и consumers
func (a *App) initKafka(alerterSvc service.IAlerterService) (
	producers map[string]*kafkaAdapter.EventProducer,
	consumers map[string]*kafkaConsumerAdapter.Consumer,
) {
	producers = make(map[string]*kafkaAdapter.EventProducer)
	consumers = make(map[string]*kafkaConsumerAdapter.Consumer)

	for _, kafkaCfg := range a.Cfg.Kafka.List {
		if kafkaCfg.Config.IsProducer() {
			prod, err := kafkaAdapter.NewProducer(kafkaCfg.Config, a.Log)
			if err != nil {
				a.Log.Warn("failed to create kafka producer", "error", err, "name", kafkaCfg.Name)
				continue
			}
			producers[kafkaCfg.Name] = prod
		}

		if kafkaCfg.Config.IsConsumer() {
			handler := a.createHandlerForTopic(kafkaCfg.Name, alerterSvc)
			if handler == nil {
				a.Log.Warn("no handler for kafka topic, skipping consumer", "name", kafkaCfg.Name)
				continue
			}

			consumer, err := kafkaConsumerAdapter.NewConsumer(kafkaCfg.Config, handler, a.Log)
			if err != nil {
				a.Log.Warn("failed to create kafka consumer", "error", err, "name", kafkaCfg.Name)
				continue
			}
			consumers[kafkaCfg.Name] = consumer
		}
	}

	if _, ok := producers[eventsProducerName]; !ok {
		a.Log.Warn("kafka events producer is not configured, domain events will only be logged")
	}

	return producers, consumers
}

// useCases содержит сценарии приложения
type useCases struct {
	Auth       *authUsecase.Service
	Catalog    *catalogUsecase.Service
	Astrologer *astrologerUsecase.Service
	Chat       *chatUsecase.Service
	Payment    *paymentUsecase.Service
}

// initUseCases инициализирует UseCases приложения
func (a *App) initUseCases(
	persistenceLayer *pg.DB,
	repos *repositories,
	externalServices *externalServices,
	dispatcher *events.Dispatcher,
) *useCases {
	return &useCases{
		Auth: authUsecase.New(
			persistenceLayer,
			repos.Profile,
			externalServices.Cache, // может быть nil
			a.Cfg.Auth,
			a.Log,
		),
		Catalog: catalogUsecase.New(
			repos.Profile,
			repos.Astrologer,
			repos.Chat,
			dispatcher,
			a.Log,
		),
		Astrologer: astrologerUsecase.New(repos.Astrologer, repos.Chat, a.Log),
		Chat: chatUsecase.New(
			repos.Profile,
			repos.Chat,
			repos.Message,
			repos.Payment,
			externalServices.Feed,
			externalServices.Proofs,
			dispatcher,
			a.Cfg.Chat,
			a.Log,
		),
		Payment: paymentUsecase.New(
			persistenceLayer,
			repos.Payment,
			repos.Chat,
			externalServices.Proofs,
			dispatcher,
			externalServices.Alerter, // может быть nil
			a.Cfg.Chat.ProofURLTTL,
			a.Log,
		),
	}
}

// initHTTP инициализирует HTTP сервер и контроллеры
func (a *App) initHTTP(persistenceLayer *pg.DB, uc *useCases) *http.Server {
	controllers := []server.Controller{
		healthcheckController.New(persistenceLayer, a.Log),
		authController.New(uc.Auth, a.Cfg.Server.SecureCookie, a.Log),
		catalogController.New(uc.Catalog, a.Log),
		astrologerController.New(uc.Astrologer, a.Log),
		chatController.New(uc.Chat, a.Cfg.Chat.ProofMaxBytes, a.Log),
		adminController.New(uc.Payment, a.Log),
	}

	extra := []gin.HandlerFunc{middlewares.Session(uc.Auth, a.Log)}

	return server.NewHTTPServer(a.Cfg.Server, a.Log, extra, controllers...)
}

// initJobScheduler инициализирует планировщик джоб
func (a *App) initJobScheduler(
	alerterSvc service.IAlerterService,
	payments *paymentUsecase.Service,
) *jobScheduler.Scheduler {
	scheduler := jobScheduler.NewScheduler(a.Log, alerterSvc)

	scheduler.Register(jobScheduler.NewActivationReconciler(payments, jobScheduler.DefaultReconcileInterval, a.Log))
	a.Log.Info("activation reconciler job registered")

	// Напоминания имеют смысл только при настроенном алертере
	if alerterSvc != nil {
		scheduler.Register(jobScheduler.NewPendingPaymentsReminder(payments, a.Cfg.Chat.PendingAlertAfter, a.Log))
		a.Log.Info("pending payments reminder job registered")
	}

	return scheduler
}

// initPostgres инициализирует подключение к PostgreSQL и запускает миграции
func (a *App) initPostgres(ctx context.Context) (*sqlx.DB, error) {
	db, err := a.Cfg.Postgres.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	a.Log.Info("postgres connected successfully")

	if err := pg.RunMigrations(ctx, db, a.Log); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// createHandlerForTopic создаёт handler для указанного топика Kafka
func (a *App) createHandlerForTopic(topicName string, alerterSvc service.IAlerterService) kafka.MessageHandler {
	switch topicName {
	case "admin_notifications":
		if alerterSvc == nil {
			a.Log.Warn("alerter is not configured, admin notifications consumer disabled")
			return nil
		}
		return kafkaHandlers.NewAdminNotificationHandler(alerterSvc, a.Log)
	default:
		a.Log.Warn("unknown kafka topic", "topic", topicName)
		return nil
	}
}
