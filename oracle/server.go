package oracle

import (
	"context"
	"math/big"
	"sync"

	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/events"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/pkg/errors"
	"github.com/tendermint/tendermint/libs/log"
	"golang.org/x/sync/errgroup"
)

type Indexes = [types.OracleIndexCount]uint8

// Registry is the part of the node oracles talk to.
type Registry interface {
	RegisterOracle(oracle types.Address, fee *big.Int) (Indexes, error)
	SubmitOracleResponse(index uint8, airline types.Address, flight string, timestamp uint64, status types.StatusCode, oracle types.Address) (bool, error)
}

// Server runs a set of oracles answering OracleRequest events.
type Server struct {
	registry Registry
	source   StatusSource
	logger   log.Logger

	lock    sync.RWMutex
	oracles map[types.Address]Indexes
	order   []types.Address

	requests chan *events.OracleRequestEvent
	done     chan struct{}
	stopOnce sync.Once
}

func NewServer(registry Registry, source StatusSource, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Server{
		registry: registry,
		source:   source,
		logger:   logger.With("module", "oracle"),
		oracles:  map[types.Address]Indexes{},
		requests: make(chan *events.OracleRequestEvent, 64),
		done:     make(chan struct{}),
	}
}

// RegisterOracles pays the registration fee for every account. Accounts
// already registered are skipped.
func (s *Server) RegisterOracles(accounts []types.Address) error {
	for _, account := range accounts {
		indexes, err := s.registry.RegisterOracle(account, types.OracleRegistrationFee())
		if code.Is(err, code.OracleAlreadyRegistered) {
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "register oracle %s", account.Hex())
		}

		s.lock.Lock()
		s.oracles[account] = indexes
		s.order = append(s.order, account)
		s.lock.Unlock()

		s.logger.Info("Oracle registered", "oracle", account.Hex(), "indexes", indexes)
	}

	return nil
}

// Oracles returns the registered oracles holding index.
func (s *Server) Oracles(index uint8) []types.Address {
	s.lock.RLock()
	defer s.lock.RUnlock()

	var holders []types.Address
	for _, oracle := range s.order {
		for _, i := range s.oracles[oracle] {
			if i == index {
				holders = append(holders, oracle)
				break
			}
		}
	}
	return holders
}

// Notify queues oracle requests. Other events are ignored.
func (s *Server) Notify(event events.Event) {
	request, ok := event.(*events.OracleRequestEvent)
	if !ok {
		return
	}

	select {
	case s.requests <- request:
	case <-s.done:
	}
}

// Run answers queued requests until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	defer s.stopOnce.Do(func() { close(s.done) })

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case request := <-s.requests:
			if err := s.Handle(ctx, request); err != nil {
				return err
			}
		}
	}
}

// Handle lets every oracle holding the request index report a status.
// Reports arriving after the request finalized are expected and dropped.
func (s *Server) Handle(ctx context.Context, request *events.OracleRequestEvent) error {
	group, ctx := errgroup.WithContext(ctx)

	for _, oracle := range s.Oracles(request.Index) {
		oracle := oracle
		group.Go(func() error {
			status, err := s.source.Status(ctx, request.Airline, request.Flight, request.Timestamp)
			if err != nil {
				return errors.Wrapf(err, "status of %s", request.Key())
			}

			accepted, err := s.registry.SubmitOracleResponse(request.Index, request.Airline, request.Flight, request.Timestamp, status, oracle)
			switch {
			case err == nil:
				s.logger.Debug("Report submitted", "oracle", oracle.Hex(), "flight", request.Key().String(), "status", status, "accepted", accepted)
			case code.Of(err) != code.Internal:
				s.logger.Debug("Report rejected", "oracle", oracle.Hex(), "flight", request.Key().String(), "code", code.Name(code.Of(err)))
			default:
				return err
			}
			return nil
		})
	}

	return group.Wait()
}
