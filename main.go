package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	firebase "firebase.google.com/go/v4"
	"github.com/hibiken/asynq"
	"github.com/katatrina/mentors-notifier/api"
	"github.com/katatrina/mentors-notifier/internal/event"
	"github.com/katatrina/mentors-notifier/internal/notification"
	"github.com/katatrina/mentors-notifier/internal/store"
	"github.com/katatrina/mentors-notifier/internal/trigger"
	"github.com/katatrina/mentors-notifier/internal/util"
	"github.com/katatrina/mentors-notifier/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"google.golang.org/api/option"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Firebase
	var opts []option.ClientOption
	if config.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.GoogleCredentialsFile))
	}

	firebaseApp, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: config.FirebaseProjectID}, opts...)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize firebase app 😣")
	}

	firestoreClient, err := firebaseApp.Firestore(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create firestore client 😣")
	}
	defer firestoreClient.Close()
	log.Info().Msg("connected to firestore ✅")

	messagingClient, err := firebaseApp.Messaging(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create messaging client 😣")
	}
	log.Info().Msg("messaging client created successfully ✅")

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})
	defer redisDb.Close()

	if err = redisDb.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis 😣")
	}
	log.Info().Msg("connected to redis ✅")

	redisOpt := asynq.RedisClientOpt{
		Addr: config.RedisServerAddress,
	}

	dbStore := store.NewStore(firestoreClient)

	sender := notification.NewFCMSender(messagingClient, config.AndroidChannelID)
	dispatcher := notification.NewDispatcher(dbStore, sender, config.Location())

	taskDistributor := worker.NewTaskDistributor(redisOpt, asynq.MaxRetry(config.NotificationMaxRetry), asynq.Queue(worker.QueueDefault))
	defer taskDistributor.Close()

	eventHandler := trigger.NewHandler(
		dbStore,
		taskDistributor,
		trigger.NewRedisGuard(redisDb, config.EventDedupTTL),
	)

	group, ctx := errgroup.WithContext(ctx)

	runTaskProcessor(ctx, group, redisOpt, dispatcher, config.WorkerConcurrency)

	if config.ListenEnabled() {
		runFirestoreListener(ctx, group, event.NewListener(firestoreClient, eventHandler))
	}

	if config.HTTPEnabled() {
		runHTTPServer(ctx, group, &config, eventHandler, dispatcher, worker.NewTaskInspector(redisOpt))
	}

	if err = group.Wait(); err != nil {
		log.Fatal().Err(err).Msg("service stopped with error 😣")
	}

	log.Info().Msg("service stopped gracefully 👋")
}

func runTaskProcessor(ctx context.Context, group *errgroup.Group, redisOpt asynq.RedisClientOpt, deliverer worker.Deliverer, concurrency int) {
	taskProcessor := worker.NewRedisTaskProcessor(redisOpt, deliverer, concurrency)

	group.Go(func() error {
		log.Info().Msg("start task processor ✅")
		if err := taskProcessor.Start(); err != nil {
			log.Error().Err(err).Msg("failed to start task processor 😣")
			return err
		}

		<-ctx.Done()
		log.Info().Msg("graceful shutdown task processor")
		taskProcessor.Shutdown()
		return nil
	})
}

func runFirestoreListener(ctx context.Context, group *errgroup.Group, listener *event.Listener) {
	group.Go(func() error {
		log.Info().Msg("start firestore listener ✅")
		return listener.Run(ctx)
	})
}

func runHTTPServer(ctx context.Context, group *errgroup.Group, config *util.Config, eventHandler event.Handler, evaluator api.EligibilityEvaluator, taskInspector worker.TaskInspector) {
	server, err := api.NewServer(config, eventHandler, evaluator, taskInspector)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	group.Go(func() error {
		return server.Start()
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info().Msg("graceful shutdown HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}
