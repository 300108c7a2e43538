package oracle

import (
	"context"
	"math/rand"
	"sync"

	"github.com/flightsurety/surety-node/core/types"
)

// StatusSource tells an oracle the status of a departure.
type StatusSource interface {
	Status(ctx context.Context, airline types.Address, flight string, timestamp uint64) (types.StatusCode, error)
}

// FixedStatus reports the same status for every departure.
type FixedStatus types.StatusCode

func (s FixedStatus) Status(context.Context, types.Address, string, uint64) (types.StatusCode, error) {
	return types.StatusCode(s), nil
}

var knownStatuses = []types.StatusCode{
	types.StatusUnknown,
	types.StatusOnTime,
	types.StatusLateAirline,
	types.StatusLateWeather,
	types.StatusLateTechnical,
	types.StatusLateOther,
}

// RandomStatus picks one of the known statuses for each call.
type RandomStatus struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func NewRandomStatus(seed int64) *RandomStatus {
	return &RandomStatus{rnd: rand.New(rand.NewSource(seed))}
}

func (s *RandomStatus) Status(context.Context, types.Address, string, uint64) (types.StatusCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return knownStatuses[s.rnd.Intn(len(knownStatuses))], nil
}
