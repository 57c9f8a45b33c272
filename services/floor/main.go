package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/appetiteclub/apt"
	"github.com/appetiteclub/apt/middleware"

	"github.com/appetiteclub/tableside/internal/floor"
	"github.com/appetiteclub/tableside/internal/mongo"
	"github.com/appetiteclub/tableside/pkg"
)

const (
	appNamespace = "FLOOR"
	appName      = "floor"
	appVersion   = "0.1.0"
)

func main() {
	config, err := apt.LoadConfig(appNamespace, os.Args[1:])
	if err != nil {
		log.Fatalf("%s(%s) cannot setup: %v", appName, appVersion, err)
	}

	logLevel, _ := config.GetString("log.level")
	logger := apt.NewLogger(logLevel)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	seedCtx, cancelSeeds := context.WithCancel(ctx)
	defer cancelSeeds()

	baseRepo := mongo.NewBaseRepo(config, logger)
	err = baseRepo.Start(ctx)
	if err != nil {
		log.Fatalf("%s(%s) cannot start base repository: %v", appName, appVersion, err)
	}

	db := baseRepo.GetDatabase()
	if db == nil {
		log.Fatalf("%s(%s) cannot initialize repository database: %v", appName, appVersion, errors.New("repository database is nil"))
	}

	store := mongo.NewSnapshotRepo(db)

	natsURL := config.GetStringOrDef("nats.url", "nats://localhost:4222")

	pub, err := pkg.NewNATSPublisher(natsURL)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS publisher: %v", appName, appVersion, err)
	}

	sub, err := pkg.NewNATSSubscriber(natsURL, logger)
	if err != nil {
		log.Fatalf("%s(%s) cannot connect to NATS subscriber: %v", appName, appVersion, err)
	}

	adminHash, _ := config.GetString("auth.admin.hash")
	authorizer, err := floor.NewBcryptAuthorizer(adminHash)
	if err != nil {
		log.Fatalf("%s(%s) cannot setup admin authorizer: %v", appName, appVersion, err)
	}

	tableCount, err := strconv.Atoi(config.GetStringOrDef("floor.tables", strconv.Itoa(floor.DefaultTableCount)))
	if err != nil || tableCount <= 0 {
		log.Fatalf("%s(%s) invalid floor.tables value", appName, appVersion)
	}

	catalog, err := floor.DefaultCatalog()
	if err != nil {
		log.Fatalf("%s(%s) cannot load menu: %v", appName, appVersion, err)
	}

	health := floor.NewHealthServer()

	fl := floor.New(floor.Deps{
		Catalog:    catalog,
		TableCount: tableCount,
		Store:      store,
		Authorizer: authorizer,
		Notifier: floor.Notifiers{
			floor.NewLogNotifier(logger),
			floor.NewEventNotifier(pub, logger),
		},
		Publisher: pub,
		Health:    health,
	}, logger)

	kitchenSub := floor.NewKitchenDisplaySubscriber(sub, fl, logger)

	floorLifecycle := apt.LifecycleHooks{
		OnStart: fl.Restore,
	}

	kitchenSubLifecycle := apt.LifecycleHooks{
		OnStart: kitchenSub.Start,
	}

	publisherLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return pub.Close()
		},
	}

	subLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			return sub.Close()
		},
	}

	healthLifecycle := apt.LifecycleHooks{
		OnStop: func(context.Context) error {
			health.Shutdown()
			return nil
		},
	}

	handler := floor.NewHandler(fl, config, logger)

	demoEnabled, _ := config.GetString("seeding.demo")
	var seedHooks apt.LifecycleHooks
	if demoEnabled == "true" {
		logger.Info("Demo seeding enabled for floor service")
		seedHooks = apt.LifecycleHooks{
			OnStart: floor.DemoSeedingFunc(seedCtx, fl, db, logger),
			OnStop: func(context.Context) error {
				cancelSeeds()
				return nil
			},
		}
	}

	stack := middleware.DefaultStack(middleware.StackOptions{
		Logger:      logger,
		DisableCORS: true,
	})
	stack = append(stack, middleware.InternalOnly())

	// Restore must run before anything can mutate the floor.
	lifecycles := []interface{}{
		apt.LifecycleHooks{OnStop: baseRepo.Stop},
		floorLifecycle,
		kitchenSubLifecycle,
		publisherLifecycle,
		subLifecycle,
		healthLifecycle,
	}
	if demoEnabled == "true" {
		lifecycles = append(lifecycles, seedHooks)
	}

	options := []apt.Option{
		apt.WithConfig(config),
		apt.WithLogger(logger),
		apt.WithHTTPMiddleware(stack...),
		apt.WithHTTPServerModules("web.port", handler),
		apt.WithGRPCServerModules("grpc.port", health),
		apt.WithLifecycle(lifecycles...),
		apt.WithHealthChecks(appName),
	}

	ms := apt.NewMicro(options...)
	logger.Infof("Starting %s(%s)", appName, appVersion)

	err = ms.Run(ctx)
	if err != nil {
		_ = baseRepo.Stop(context.Background())
		log.Fatalf("%s(%s) stopped: %v", appName, appVersion, err)
	}

	logger.Infof("%s(%s) stopped", appName, appVersion)
}
