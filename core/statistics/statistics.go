package statistics

import (
	"math/big"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Data collects node metrics. A nil *Data is valid and records nothing.
type Data struct {
	BlockStart struct {
		sync.RWMutex
		height uint64
		time   time.Time
	}
	BlockEnd blockEnd

	Tx       txCounters
	Registry registryGauges
}

type LastBlockInfo struct {
	Height   uint64
	Duration float64
}

type blockEnd struct {
	sync.RWMutex
	HeightProm    prometheus.Gauge
	DurationProm  prometheus.Gauge
	LastBlockInfo LastBlockInfo
}

type txCounters struct {
	total *prometheus.CounterVec
}

type registryGauges struct {
	airlines        prometheus.Gauge
	oracles         prometheus.Gauge
	openRequests    prometheus.Gauge
	finalized       prometheus.Counter
	contractBalance prometheus.Gauge
}

// New creates the collectors and registers them with registerer.
func New(registerer prometheus.Registerer) *Data {
	txVec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "surety_transactions_total",
			Help: "Processed operations by type and result code",
		},
		[]string{"type", "code"},
	)
	lastBlockDuration := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "surety_last_block_duration",
			Help: "Last block duration",
		},
	)
	height := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "surety_height",
			Help: "Current height",
		},
	)
	airlines := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "surety_registered_airlines",
			Help: "Registered airlines",
		},
	)
	oracles := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "surety_registered_oracles",
			Help: "Registered oracles",
		},
	)
	openRequests := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "surety_open_requests",
			Help: "Open oracle requests",
		},
	)
	finalized := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "surety_finalized_requests_total",
			Help: "Finalized flight statuses",
		},
	)
	contractBalance := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "surety_contract_balance_ether",
			Help: "Contract balance in ether",
		},
	)
	registerer.MustRegister(txVec, lastBlockDuration, height, airlines, oracles, openRequests, finalized, contractBalance)

	return &Data{
		Tx:       txCounters{total: txVec},
		BlockEnd: blockEnd{HeightProm: height, DurationProm: lastBlockDuration},
		Registry: registryGauges{
			airlines:        airlines,
			oracles:         oracles,
			openRequests:    openRequests,
			finalized:       finalized,
			contractBalance: contractBalance,
		},
	}
}

func (d *Data) SetStartBlock(height uint64, now time.Time) {
	if d == nil {
		return
	}

	d.BlockStart.Lock()
	defer d.BlockStart.Unlock()

	d.BlockStart.height = height
	d.BlockStart.time = now
}

func (d *Data) SetEndBlockDuration(timeEnd time.Time, height uint64) {
	if d == nil {
		return
	}

	d.BlockStart.RLock()
	defer d.BlockStart.RUnlock()

	if height != d.BlockStart.height {
		return
	}

	d.BlockEnd.Lock()
	defer d.BlockEnd.Unlock()

	durationSeconds := timeEnd.Sub(d.BlockStart.time).Seconds()

	d.BlockEnd.HeightProm.Set(float64(height))
	d.BlockEnd.DurationProm.Set(durationSeconds)

	d.BlockEnd.LastBlockInfo.Height = height
	d.BlockEnd.LastBlockInfo.Duration = durationSeconds
}

func (d *Data) GetLastBlockInfo() LastBlockInfo {
	if d == nil {
		return LastBlockInfo{}
	}

	d.BlockEnd.RLock()
	defer d.BlockEnd.RUnlock()

	return d.BlockEnd.LastBlockInfo
}

func (d *Data) CountTx(txType string, code uint32) {
	if d == nil {
		return
	}

	d.Tx.total.WithLabelValues(txType, strconv.FormatUint(uint64(code), 10)).Inc()
}

func (d *Data) SetRegisteredAirlines(count uint32) {
	if d == nil {
		return
	}
	d.Registry.airlines.Set(float64(count))
}

func (d *Data) AddOracle() {
	if d == nil {
		return
	}
	d.Registry.oracles.Inc()
}

func (d *Data) RequestOpened() {
	if d == nil {
		return
	}
	d.Registry.openRequests.Inc()
}

func (d *Data) RequestFinalized() {
	if d == nil {
		return
	}
	d.Registry.openRequests.Dec()
	d.Registry.finalized.Inc()
}

func (d *Data) SetContractBalance(wei *big.Int) {
	if d == nil {
		return
	}

	ether, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e18)).Float64()
	d.Registry.contractBalance.Set(ether)
}
