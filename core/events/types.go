package events

import (
	"encoding/json"

	"github.com/flightsurety/surety-node/core/types"
	"github.com/tendermint/go-amino"
)

// Event type names
const (
	TypeAirlineRegisteredEvent            = "surety/AirlineRegistered"
	TypeAirlineRegistrationConsensusEvent = "surety/AirlineRegistrationConsensus"
	TypeAirlineFundedEvent                = "surety/AirlineFunded"
	TypeInsurancePurchasedEvent           = "surety/InsurancePurchased"
	TypePassengerCreditedEvent            = "surety/PassengerCredited"
	TypeCreditInsureesEvent               = "surety/CreditInsurees"
	TypeInsuranceWithdrawnEvent           = "surety/InsuranceWithdrawn"
	TypeOracleRegisteredEvent             = "surety/OracleRegistered"
	TypeOracleRequestEvent                = "surety/OracleRequest"
	TypeOracleReportEvent                 = "surety/OracleReport"
	TypeFlightStatusInfoEvent             = "surety/FlightStatusInfo"
	TypeCallerAuthorizationEvent          = "surety/CallerAuthorization"
	TypeOperatingStatusEvent              = "surety/OperatingStatus"
)

type Event interface {
	Type() string
}

type Events []Event

func registerAminoEvents(codec *amino.Codec) {
	codec.RegisterInterface((*Event)(nil), nil)
	codec.RegisterConcrete(&AirlineRegisteredEvent{}, TypeAirlineRegisteredEvent, nil)
	codec.RegisterConcrete(&AirlineRegistrationConsensusEvent{}, TypeAirlineRegistrationConsensusEvent, nil)
	codec.RegisterConcrete(&AirlineFundedEvent{}, TypeAirlineFundedEvent, nil)
	codec.RegisterConcrete(&InsurancePurchasedEvent{}, TypeInsurancePurchasedEvent, nil)
	codec.RegisterConcrete(&PassengerCreditedEvent{}, TypePassengerCreditedEvent, nil)
	codec.RegisterConcrete(&CreditInsureesEvent{}, TypeCreditInsureesEvent, nil)
	codec.RegisterConcrete(&InsuranceWithdrawnEvent{}, TypeInsuranceWithdrawnEvent, nil)
	codec.RegisterConcrete(&OracleRegisteredEvent{}, TypeOracleRegisteredEvent, nil)
	codec.RegisterConcrete(&OracleRequestEvent{}, TypeOracleRequestEvent, nil)
	codec.RegisterConcrete(&OracleReportEvent{}, TypeOracleReportEvent, nil)
	codec.RegisterConcrete(&FlightStatusInfoEvent{}, TypeFlightStatusInfoEvent, nil)
	codec.RegisterConcrete(&CallerAuthorizationEvent{}, TypeCallerAuthorizationEvent, nil)
	codec.RegisterConcrete(&OperatingStatusEvent{}, TypeOperatingStatusEvent, nil)
}

// MarshalJSON encodes an event together with its type name, the format
// external subscribers receive.
func MarshalJSON(event Event) ([]byte, error) {
	return json.Marshal(struct {
		Type  string `json:"type"`
		Value Event  `json:"value"`
	}{
		Type:  event.Type(),
		Value: event,
	})
}

type AirlineRegisteredEvent struct {
	Airline types.Address `json:"airline"`
	Count   uint32        `json:"count"`
}

func (e *AirlineRegisteredEvent) Type() string { return TypeAirlineRegisteredEvent }

type AirlineRegistrationConsensusEvent struct {
	Airline types.Address `json:"airline"`
	Voter   types.Address `json:"voter"`
	Votes   uint32        `json:"votes"`
}

func (e *AirlineRegistrationConsensusEvent) Type() string {
	return TypeAirlineRegistrationConsensusEvent
}

type AirlineFundedEvent struct {
	Airline types.Address `json:"airline"`
	Amount  string        `json:"amount"`
	Total   string        `json:"total"`
}

func (e *AirlineFundedEvent) Type() string { return TypeAirlineFundedEvent }

type InsurancePurchasedEvent struct {
	Passenger types.Address `json:"passenger"`
	Flight    string        `json:"flight"`
	Airline   types.Address `json:"airline"`
	Premium   string        `json:"premium"`
}

func (e *InsurancePurchasedEvent) Type() string { return TypeInsurancePurchasedEvent }

type PassengerCreditedEvent struct {
	Passenger types.Address `json:"passenger"`
	Flight    string        `json:"flight"`
	Airline   types.Address `json:"airline"`
	Amount    string        `json:"amount"`
}

func (e *PassengerCreditedEvent) Type() string { return TypePassengerCreditedEvent }

type CreditInsureesEvent struct {
	Flight  string        `json:"flight"`
	Airline types.Address `json:"airline"`
	Total   string        `json:"total"`
	Count   uint32        `json:"count"`
}

func (e *CreditInsureesEvent) Type() string { return TypeCreditInsureesEvent }

type InsuranceWithdrawnEvent struct {
	Passenger types.Address `json:"passenger"`
	Amount    string        `json:"amount"`
}

func (e *InsuranceWithdrawnEvent) Type() string { return TypeInsuranceWithdrawnEvent }

type OracleRegisteredEvent struct {
	Oracle  types.Address                 `json:"oracle"`
	Indexes [types.OracleIndexCount]uint8 `json:"indexes"`
}

func (e *OracleRegisteredEvent) Type() string { return TypeOracleRegisteredEvent }

type OracleRequestEvent struct {
	Index     uint8         `json:"index"`
	Airline   types.Address `json:"airline"`
	Flight    string        `json:"flight"`
	Timestamp uint64        `json:"timestamp"`
}

func (e *OracleRequestEvent) Type() string { return TypeOracleRequestEvent }

func (e *OracleRequestEvent) Key() types.ScheduleKey {
	return types.ScheduleKey{Airline: e.Airline, Flight: e.Flight, Timestamp: e.Timestamp}
}

type OracleReportEvent struct {
	Index     uint8            `json:"index"`
	Airline   types.Address    `json:"airline"`
	Flight    string           `json:"flight"`
	Timestamp uint64           `json:"timestamp"`
	Status    types.StatusCode `json:"status"`
	Oracle    types.Address    `json:"oracle"`
}

func (e *OracleReportEvent) Type() string { return TypeOracleReportEvent }

type FlightStatusInfoEvent struct {
	Airline   types.Address    `json:"airline"`
	Flight    string           `json:"flight"`
	Timestamp uint64           `json:"timestamp"`
	Status    types.StatusCode `json:"status"`
}

func (e *FlightStatusInfoEvent) Type() string { return TypeFlightStatusInfoEvent }

type CallerAuthorizationEvent struct {
	Caller     types.Address `json:"caller"`
	Authorized bool          `json:"authorized"`
}

func (e *CallerAuthorizationEvent) Type() string { return TypeCallerAuthorizationEvent }

type OperatingStatusEvent struct {
	Operational bool `json:"operational"`
}

func (e *OperatingStatusEvent) Type() string { return TypeOperatingStatusEvent }
