package main

import (
	"context"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/bugsnag/panicwrap"
	"github.com/hashicorp/go-multierror"
	"github.com/wanderplan/api/data/events"
	"github.com/wanderplan/api/data/mutate"
	"github.com/wanderplan/api/data/query"
	"github.com/wanderplan/api/internal/api/sockets"
	"github.com/wanderplan/api/internal/configure"
	"github.com/wanderplan/api/internal/global"
	"github.com/wanderplan/api/internal/health"
	"github.com/wanderplan/api/internal/monitoring"
	"github.com/wanderplan/api/internal/rest"
	"github.com/wanderplan/api/internal/svc/mongo"
	"github.com/wanderplan/api/internal/svc/presences"
	"github.com/wanderplan/api/internal/svc/prometheus"
	"github.com/wanderplan/api/internal/svc/realtime"
	"github.com/wanderplan/api/internal/svc/redis"
	"github.com/wanderplan/api/internal/svc/trips"
	"go.uber.org/zap"
)

var (
	Version = "development"
	Unix    = ""
	Time    = "unknown"
	User    = "unknown"
)

func init() {
	if i, err := strconv.Atoi(Unix); err == nil {
		Time = time.Unix(int64(i), 0).Format(time.RFC3339)
	}
}

func main() {
	config := configure.New()

	exitStatus, err := panicwrap.BasicWrap(func(s string) {
		zap.S().Errorw("panic detected",
			"panic", s,
		)
	})
	if err != nil {
		zap.S().Errorw("failed to setup panic handler",
			"error", err,
		)
		os.Exit(2)
	}

	if exitStatus >= 0 {
		os.Exit(exitStatus)
	}

	if !config.NoHeader {
		zap.S().Info("Wanderplan API")
		zap.S().Infof("Version: %s", Version)
		zap.S().Infof("build.Time: %s", Time)
		zap.S().Infof("build.User: %s", User)
	}

	zap.S().Debugf("MaxProcs: %d", runtime.GOMAXPROCS(0))

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	gCtx, cancel := global.WithCancel(global.New(context.Background(), config))

	{
		gCtx.Inst().Mongo, err = mongo.Setup(gCtx, mongo.SetupOptions{
			URI:    config.Mongo.URI,
			DB:     config.Mongo.DB,
			Direct: config.Mongo.Direct,
		})
		if err != nil {
			zap.S().Fatalw("failed to setup mongo handler",
				"error", err,
			)
		}
	}

	{
		// The broker is optional: without it the relay runs in
		// single-instance mode and only local rooms hear broadcasts.
		gCtx.Inst().Redis, err = redis.Setup(gCtx, redis.SetupOptions{
			Username:   config.Redis.Username,
			Password:   config.Redis.Password,
			Database:   config.Redis.Database,
			Sentinel:   config.Redis.Sentinel,
			Addresses:  config.Redis.Addresses,
			MasterName: config.Redis.MasterName,
		})
		if err != nil {
			zap.S().Warnw("failed to setup redis handler, running without cross-instance relay",
				"error", err,
			)

			gCtx.Inst().Redis = nil
		}
	}

	{
		gCtx.Inst().Prometheus = prometheus.New(prometheus.Options{
			Labels: config.Monitoring.Labels.ToPrometheus(),
		})
	}

	hub := sockets.NewHub(gCtx)

	{
		gCtx.Inst().Query = query.New(gCtx.Inst().Mongo)
		gCtx.Inst().Mutate = mutate.New(mutate.InstanceOptions{
			Mongo: gCtx.Inst().Mongo,
		})

		gCtx.Inst().Gateway = hub

		gCtx.Inst().Events = events.NewPublisher(gCtx, gCtx.Inst().Redis, hub, gCtx.Inst().Prometheus.EventsPublished())
		events.Listen(gCtx, gCtx.Inst().Redis, hub)

		gCtx.Inst().Presences = presences.New(presences.Options{
			Mongo: gCtx.Inst().Mongo,
		})

		gCtx.Inst().Realtime = realtime.New(realtime.Options{
			Events: gCtx.Inst().Events,
		})

		gCtx.Inst().Trips = trips.New(trips.Options{
			Store:  gCtx.Inst().Mutate,
			Events: gCtx.Inst().Events,
		})
	}

	go hub.Run()

	wg := sync.WaitGroup{}

	if gCtx.Config().Health.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-health.New(gCtx)
		}()
	}
	if gCtx.Config().Monitoring.Enabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-monitoring.New(gCtx)
		}()
	}

	done := make(chan struct{})
	go func() {
		<-sig
		cancel()
		go func() {
			select {
			case <-time.After(time.Minute):
			case <-sig:
			}
			zap.S().Fatal("force shutdown")
		}()

		zap.S().Info("shutting down")

		wg.Wait()

		if err := teardown(gCtx); err != nil {
			zap.S().Errorw("teardown finished with errors",
				"error", err,
			)
		}

		close(done)
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := rest.New(gCtx); err != nil {
			zap.S().Fatalw("rest failed",
				"error", err,
			)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		<-sockets.New(gCtx, hub)
	}()

	zap.S().Info("running")

	<-done

	zap.S().Info("shutdown")
	os.Exit(0)
}

func teardown(gCtx global.Context) error {
	var result *multierror.Error

	if gCtx.Inst().Redis != nil {
		if err := gCtx.Inst().Redis.Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}

	if gCtx.Inst().Mongo != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		if err := gCtx.Inst().Mongo.RawClient().Disconnect(ctx); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
