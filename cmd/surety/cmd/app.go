package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/flightsurety/surety-node/config"
	"github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/statistics"
	"github.com/flightsurety/surety-node/core/surety"
	"github.com/flightsurety/surety-node/genesis"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/libs/log"
	db "github.com/tendermint/tm-db"
	"golang.org/x/sync/errgroup"
)

// app wires a registry node with its event fan-out and metrics.
type app struct {
	node     *surety.Surety
	notifier *events.Notifier
	kafka    *events.KafkaPublisher
	dbs      []db.DB
	logger   log.Logger
}

func newApp(cfg *config.Config, logger log.Logger, backend db.BackendType) (*app, error) {
	a := &app{notifier: events.NewNotifier(), logger: logger.With("module", "main")}

	stateDB, err := db.NewDB("state", backend, cfg.DBDir())
	if err != nil {
		return nil, errors.Wrap(err, "open state db")
	}
	a.dbs = append(a.dbs, stateDB)

	var eventsDB events.IEventsDB
	if cfg.Events.Enabled {
		ldb, err := db.NewDB("events", backend, cfg.DBDir())
		if err != nil {
			a.close()
			return nil, errors.Wrap(err, "open events db")
		}
		a.dbs = append(a.dbs, ldb)
		eventsDB = events.NewEventsStore(ldb, a.notifier)
	} else {
		eventsDB = events.NewPublishOnlyStore(a.notifier)
	}

	if len(cfg.Events.KafkaBrokers) > 0 {
		a.kafka = events.NewKafkaPublisher(cfg.Events.KafkaTopic, cfg.Events.KafkaBrokers, logger.With("module", "kafka"))
		a.notifier.Subscribe(a.kafka)
	}

	a.node, err = surety.NewSurety(cfg, stateDB, eventsDB, logger)
	if err != nil {
		a.close()
		return nil, err
	}

	if cfg.Prometheus {
		a.node.SetStatisticData(statistics.New(prometheus.DefaultRegisterer))
	}

	if a.node.Height() == 0 {
		if err := a.initChain(cfg); err != nil {
			a.close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) initChain(cfg *config.Config) error {
	doc, err := genesis.LoadOrCreate(cfg.GenesisFile(), cfg.Registry)
	if err != nil {
		return err
	}

	appState, err := genesis.AppState(doc)
	if err != nil {
		return err
	}

	if err := a.node.InitChain(appState); err != nil {
		return errors.Wrap(err, "init chain")
	}

	a.logger.Info("Registry initialized", "chain", doc.ChainID, "owner", appState.Owner.Hex())
	return nil
}

// run starts event delivery, block production and the metrics endpoint.
func (a *app) run(ctx context.Context, group *errgroup.Group, cfg *config.Config) {
	group.Go(func() error { return a.notifier.Run(ctx) })
	group.Go(func() error { return a.node.Run(ctx, cfg.BlockInterval) })

	if cfg.Prometheus {
		server := &http.Server{Addr: cfg.PrometheusListenAddr, Handler: promhttp.Handler()}
		group.Go(func() error {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return errors.Wrap(err, "prometheus endpoint")
			}
			return nil
		})
		group.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
	}
}

func (a *app) close() {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.logger.Error("Failed to close kafka writer", "err", err)
		}
	}
	for _, d := range a.dbs {
		if err := d.Close(); err != nil {
			a.logger.Error("Failed to close db", "err", err)
		}
	}
}
