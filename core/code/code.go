package code

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Codes for transaction checks and delivers responses
const (
	// general
	OK             uint32 = 0
	Internal       uint32 = 1
	NotOperational uint32 = 101
	Unauthorized   uint32 = 102
	NotAuthorized  uint32 = 103
	InvalidAmount  uint32 = 104
	DecodeError    uint32 = 105

	// airlines
	ProposerNotFunded uint32 = 201
	AlreadyRegistered uint32 = 202
	InsufficientFunds uint32 = 203
	AirlineNotFound   uint32 = 204

	// insurance
	UnknownFlight     uint32 = 301
	PolicyCapExceeded uint32 = 302
	NoCredit          uint32 = 303
	FlightSettled     uint32 = 304
	NotDelayed        uint32 = 305

	// oracles
	InsufficientFee         uint32 = 401
	NotRegistered           uint32 = 402
	IndexMismatch           uint32 = 403
	RequestClosed           uint32 = 404
	OracleAlreadyRegistered uint32 = 405
	InvalidStatusCode       uint32 = 406
)

var names = map[uint32]string{
	OK:                      "OK",
	Internal:                "Internal",
	NotOperational:          "NotOperational",
	Unauthorized:            "Unauthorized",
	NotAuthorized:           "NotAuthorized",
	InvalidAmount:           "InvalidAmount",
	DecodeError:             "DecodeError",
	ProposerNotFunded:       "ProposerNotFunded",
	AlreadyRegistered:       "AlreadyRegistered",
	InsufficientFunds:       "InsufficientFunds",
	AirlineNotFound:         "AirlineNotFound",
	UnknownFlight:           "UnknownFlight",
	PolicyCapExceeded:       "PolicyCapExceeded",
	NoCredit:                "NoCredit",
	FlightSettled:           "FlightSettled",
	NotDelayed:              "NotDelayed",
	InsufficientFee:         "InsufficientFee",
	NotRegistered:           "NotRegistered",
	IndexMismatch:           "IndexMismatch",
	RequestClosed:           "RequestClosed",
	OracleAlreadyRegistered: "OracleAlreadyRegistered",
	InvalidStatusCode:       "InvalidStatusCode",
}

// Name returns the symbolic name of a code.
func Name(c uint32) string {
	if name, ok := names[c]; ok {
		return name
	}

	return strconv.FormatUint(uint64(c), 10)
}

// Error is a rejected operation. The state is left untouched whenever an
// Error is returned.
type Error struct {
	Code uint32
	Log  string
	Info string
}

func NewError(c uint32, log, info string) *Error {
	return &Error{Code: c, Log: log, Info: info}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (code %d): %s", Name(e.Code), e.Code, e.Log)
}

// Of extracts the code carried by err. nil maps to OK, errors without a code
// map to Internal.
func Of(err error) uint32 {
	if err == nil {
		return OK
	}

	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}

	return Internal
}

// Is reports whether err is an *Error with the given code.
func Is(err error, c uint32) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == c
}

func NewNotOperational() *notOperational {
	return &notOperational{Code: strconv.Itoa(int(NotOperational))}
}

type notOperational struct {
	Code string `json:"code,omitempty"`
}

func NewDecodeError() *decodeError {
	return &decodeError{Code: strconv.Itoa(int(DecodeError))}
}

type decodeError struct {
	Code string `json:"code,omitempty"`
}

func NewUnauthorized(caller, owner string) *unauthorized {
	return &unauthorized{Code: strconv.Itoa(int(Unauthorized)), Caller: caller, Owner: owner}
}

type unauthorized struct {
	Code   string `json:"code,omitempty"`
	Caller string `json:"caller,omitempty"`
	Owner  string `json:"owner,omitempty"`
}

func NewNotAuthorized(caller string) *notAuthorized {
	return &notAuthorized{Code: strconv.Itoa(int(NotAuthorized)), Caller: caller}
}

type notAuthorized struct {
	Code   string `json:"code,omitempty"`
	Caller string `json:"caller,omitempty"`
}

func NewInvalidAmount(field, value string) *invalidAmount {
	return &invalidAmount{Code: strconv.Itoa(int(InvalidAmount)), Field: field, Value: value}
}

type invalidAmount struct {
	Code  string `json:"code,omitempty"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`
}

func NewProposerNotFunded(proposer, funded, needed string) *proposerNotFunded {
	return &proposerNotFunded{Code: strconv.Itoa(int(ProposerNotFunded)), Proposer: proposer, Funded: funded, Needed: needed}
}

type proposerNotFunded struct {
	Code     string `json:"code,omitempty"`
	Proposer string `json:"proposer,omitempty"`
	Funded   string `json:"funded,omitempty"`
	Needed   string `json:"needed,omitempty"`
}

func NewAlreadyRegistered(airline string) *alreadyRegistered {
	return &alreadyRegistered{Code: strconv.Itoa(int(AlreadyRegistered)), Airline: airline}
}

type alreadyRegistered struct {
	Code    string `json:"code,omitempty"`
	Airline string `json:"airline,omitempty"`
}

func NewInsufficientFunds(address, amount string) *insufficientFunds {
	return &insufficientFunds{Code: strconv.Itoa(int(InsufficientFunds)), Address: address, Amount: amount}
}

type insufficientFunds struct {
	Code    string `json:"code,omitempty"`
	Address string `json:"address,omitempty"`
	Amount  string `json:"amount,omitempty"`
}

func NewAirlineNotFound(airline string) *airlineNotFound {
	return &airlineNotFound{Code: strconv.Itoa(int(AirlineNotFound)), Airline: airline}
}

type airlineNotFound struct {
	Code    string `json:"code,omitempty"`
	Airline string `json:"airline,omitempty"`
}

func NewUnknownFlight(airline, flight string) *unknownFlight {
	return &unknownFlight{Code: strconv.Itoa(int(UnknownFlight)), Airline: airline, Flight: flight}
}

type unknownFlight struct {
	Code    string `json:"code,omitempty"`
	Airline string `json:"airline,omitempty"`
	Flight  string `json:"flight,omitempty"`
}

func NewPolicyCapExceeded(premium, total, maxPremium string) *policyCapExceeded {
	return &policyCapExceeded{Code: strconv.Itoa(int(PolicyCapExceeded)), Premium: premium, Total: total, MaxPremium: maxPremium}
}

type policyCapExceeded struct {
	Code       string `json:"code,omitempty"`
	Premium    string `json:"premium,omitempty"`
	Total      string `json:"total,omitempty"`
	MaxPremium string `json:"max_premium,omitempty"`
}

func NewNoCredit(passenger string) *noCredit {
	return &noCredit{Code: strconv.Itoa(int(NoCredit)), Passenger: passenger}
}

type noCredit struct {
	Code      string `json:"code,omitempty"`
	Passenger string `json:"passenger,omitempty"`
}

func NewFlightSettled(airline, flight string) *flightSettled {
	return &flightSettled{Code: strconv.Itoa(int(FlightSettled)), Airline: airline, Flight: flight}
}

type flightSettled struct {
	Code    string `json:"code,omitempty"`
	Airline string `json:"airline,omitempty"`
	Flight  string `json:"flight,omitempty"`
}

func NewNotDelayed(airline, flight, status string) *notDelayed {
	return &notDelayed{Code: strconv.Itoa(int(NotDelayed)), Airline: airline, Flight: flight, Status: status}
}

type notDelayed struct {
	Code    string `json:"code,omitempty"`
	Airline string `json:"airline,omitempty"`
	Flight  string `json:"flight,omitempty"`
	Status  string `json:"status,omitempty"`
}

func NewInsufficientFee(fee, needed string) *insufficientFee {
	return &insufficientFee{Code: strconv.Itoa(int(InsufficientFee)), Fee: fee, Needed: needed}
}

type insufficientFee struct {
	Code   string `json:"code,omitempty"`
	Fee    string `json:"fee,omitempty"`
	Needed string `json:"needed,omitempty"`
}

func NewNotRegistered(oracle string) *notRegistered {
	return &notRegistered{Code: strconv.Itoa(int(NotRegistered)), Oracle: oracle}
}

type notRegistered struct {
	Code   string `json:"code,omitempty"`
	Oracle string `json:"oracle,omitempty"`
}

func NewIndexMismatch(oracle string, index string) *indexMismatch {
	return &indexMismatch{Code: strconv.Itoa(int(IndexMismatch)), Oracle: oracle, Index: index}
}

type indexMismatch struct {
	Code   string `json:"code,omitempty"`
	Oracle string `json:"oracle,omitempty"`
	Index  string `json:"index,omitempty"`
}

func NewRequestClosed(airline, flight, timestamp string) *requestClosed {
	return &requestClosed{Code: strconv.Itoa(int(RequestClosed)), Airline: airline, Flight: flight, Timestamp: timestamp}
}

type requestClosed struct {
	Code      string `json:"code,omitempty"`
	Airline   string `json:"airline,omitempty"`
	Flight    string `json:"flight,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

func NewOracleAlreadyRegistered(oracle string) *oracleAlreadyRegistered {
	return &oracleAlreadyRegistered{Code: strconv.Itoa(int(OracleAlreadyRegistered)), Oracle: oracle}
}

type oracleAlreadyRegistered struct {
	Code   string `json:"code,omitempty"`
	Oracle string `json:"oracle,omitempty"`
}

func NewInvalidStatusCode(status string) *invalidStatusCode {
	return &invalidStatusCode{Code: strconv.Itoa(int(InvalidStatusCode)), Status: status}
}

type invalidStatusCode struct {
	Code   string `json:"code,omitempty"`
	Status string `json:"status,omitempty"`
}
