package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/flightsurety/surety-node/core/code"
	"github.com/flightsurety/surety-node/core/types"
	"github.com/flightsurety/surety-node/log"
	"github.com/flightsurety/surety-node/oracle"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	db "github.com/tendermint/tm-db"
	"golang.org/x/sync/errgroup"
)

// Simulate runs a registry with a set of oracles, insures a few flights and
// lets the oracles settle them.
var Simulate = &cobra.Command{
	Use:   "simulate",
	Short: "Run oracles against a registry and settle insured flights",
	RunE:  simulate,
}

func init() {
	Simulate.Flags().Int("flights", 3, "number of insured flights")
	Simulate.Flags().Bool("persist", false, "use the configured database instead of memory")
	Simulate.Flags().Duration("timeout", 30*time.Second, "time to wait for every flight to settle")
}

// simulationAccount derives a stable address for the i-th simulated participant.
func simulationAccount(kind string, i int) types.Address {
	return types.BytesToAddress(crypto.Keccak256([]byte(fmt.Sprintf("%s-%d", kind, i))))
}

type simulatedFlight struct {
	passenger types.Address
	flight    string
	timestamp uint64
}

func simulate(cmd *cobra.Command, _ []string) error {
	flights, err := cmd.Flags().GetInt("flights")
	if err != nil {
		return err
	}
	persist, err := cmd.Flags().GetBool("persist")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}

	logger, err := log.NewLogger(cfg)
	if err != nil {
		return err
	}

	backend := db.MemDBBackend
	if persist {
		backend = db.BackendType(cfg.DBBackend)
	}

	a, err := newApp(cfg, logger, backend)
	if err != nil {
		return err
	}
	defer a.close()

	server := oracle.NewServer(a.node, oracle.FixedStatus(cfg.Simulation.Status), logger)
	a.notifier.Subscribe(server)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	group, ctx := errgroup.WithContext(ctx)
	a.run(ctx, group, cfg)
	group.Go(func() error { return server.Run(ctx) })

	accounts := make([]types.Address, cfg.Simulation.Oracles)
	for i := range accounts {
		accounts[i] = simulationAccount("oracle", i)
	}
	if err := server.RegisterOracles(accounts); err != nil {
		cancel()
		_ = group.Wait()
		return err
	}

	insured, err := insureFlights(a, server, flights)
	if err != nil {
		cancel()
		_ = group.Wait()
		return err
	}

	settleErr := waitSettled(ctx, a, insured, timeout)
	report(a, insured)

	cancel()
	if err := group.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return settleErr
}

func insureFlights(a *app, server *oracle.Server, count int) ([]simulatedFlight, error) {
	airline := types.HexToAddress(cfg.Registry.FirstAirline)

	if !a.node.IsFunded(airline) {
		if _, err := a.node.FundAirline(airline, types.FundingThreshold()); err != nil {
			return nil, errors.Wrap(err, "fund first airline")
		}
	}

	departure := uint64(time.Now().Unix())
	insured := make([]simulatedFlight, 0, count)
	for i := 0; i < count; i++ {
		f := simulatedFlight{
			passenger: simulationAccount("passenger", i),
			flight:    fmt.Sprintf("SF%03d", i+1),
			timestamp: departure + uint64(i)*3600,
		}

		if _, err := a.node.BuyInsurance(f.passenger, f.flight, airline, types.PremiumCap()); err != nil && !code.Is(err, code.PolicyCapExceeded) {
			return nil, errors.Wrapf(err, "insure %s", f.flight)
		}

		_, index, err := a.node.FetchFlightStatus(airline, f.flight, f.timestamp)
		if err != nil {
			return nil, errors.Wrapf(err, "request status of %s", f.flight)
		}
		a.logger.Info("Status requested", "flight", f.flight, "index", index, "oracles", len(server.Oracles(index)))

		insured = append(insured, f)
	}

	return insured, nil
}

func waitSettled(ctx context.Context, a *app, insured []simulatedFlight, timeout time.Duration) error {
	airline := types.HexToAddress(cfg.Registry.FirstAirline)

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(timeout)

	for {
		settled := 0
		for _, f := range insured {
			if _, finalized := a.node.FlightStatus(airline, f.flight, f.timestamp); finalized {
				settled++
			}
		}
		if settled == len(insured) {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return errors.Errorf("%d of %d flights settled in %s", settled, len(insured), timeout)
		case <-ticker.C:
		}
	}
}

func report(a *app, insured []simulatedFlight) {
	airline := types.HexToAddress(cfg.Registry.FirstAirline)

	for _, f := range insured {
		status, finalized := a.node.FlightStatus(airline, f.flight, f.timestamp)
		if !finalized {
			a.logger.Info("Flight not settled", "flight", f.flight)
			continue
		}

		credit := a.node.CreditedAmount(f.passenger)
		a.logger.Info("Flight settled", "flight", f.flight, "status", status, "credit", credit.String())

		if credit.Sign() > 0 {
			amount, err := a.node.Withdraw(f.passenger)
			if err != nil {
				a.logger.Error("Withdraw failed", "passenger", f.passenger.Hex(), "err", err)
				continue
			}
			a.logger.Info("Payout withdrawn", "passenger", f.passenger.Hex(), "amount", amount.String())
		}
	}

	a.logger.Info("Registry balance", "wei", a.node.ContractBalance().String())
}
