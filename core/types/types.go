package types

import (
	"encoding/binary"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	HashLength    = common.HashLength
	AddressLength = common.AddressLength
)

// Address is a 20 byte account address. Airlines, passengers, oracles and
// calling contracts share the same address space.
type Address = common.Address

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash = common.Hash

func HexToAddress(s string) Address   { return common.HexToAddress(s) }
func BytesToAddress(b []byte) Address { return common.BytesToAddress(b) }
func HexToHash(s string) Hash         { return common.HexToHash(s) }
func BytesToHash(b []byte) Hash       { return common.BytesToHash(b) }

// IsHexAddress verifies whether a string can represent a valid hex-encoded address.
func IsHexAddress(s string) bool { return common.IsHexAddress(s) }

// StatusCode is a flight status reported by oracles.
type StatusCode uint8

const (
	StatusUnknown       StatusCode = 0
	StatusOnTime        StatusCode = 10
	StatusLateAirline   StatusCode = 20
	StatusLateWeather   StatusCode = 30
	StatusLateTechnical StatusCode = 40
	StatusLateOther     StatusCode = 50
)

func (s StatusCode) String() string {
	switch s {
	case StatusUnknown:
		return "Unknown"
	case StatusOnTime:
		return "OnTime"
	case StatusLateAirline:
		return "LateAirline"
	case StatusLateWeather:
		return "LateWeather"
	case StatusLateTechnical:
		return "LateTechnical"
	case StatusLateOther:
		return "LateOther"
	}

	return fmt.Sprintf("StatusCode(%d)", uint8(s))
}

// IsValid reports whether s is one of the known flight status codes.
func (s StatusCode) IsValid() bool {
	return s <= StatusLateOther && s%10 == 0
}

// PaysOut reports whether passengers are refunded for a flight with this status.
// Only delays caused by the airline are insured.
func (s StatusCode) PaysOut() bool {
	return s == StatusLateAirline
}

// FlightKey identifies an insured flight of an airline.
type FlightKey struct {
	Airline Address
	Flight  string
}

func (k FlightKey) Hash() Hash {
	return crypto.Keccak256Hash(k.Airline.Bytes(), []byte(k.Flight))
}

func (k FlightKey) String() string {
	return fmt.Sprintf("%s/%s", k.Airline.Hex(), k.Flight)
}

// ScheduleKey identifies a single departure of a flight.
type ScheduleKey struct {
	Airline   Address
	Flight    string
	Timestamp uint64
}

func (k ScheduleKey) FlightKey() FlightKey {
	return FlightKey{Airline: k.Airline, Flight: k.Flight}
}

func (k ScheduleKey) Hash() Hash {
	return crypto.Keccak256Hash(k.Airline.Bytes(), []byte(k.Flight), Uint64Bytes(k.Timestamp))
}

func (k ScheduleKey) String() string {
	return fmt.Sprintf("%s/%s@%d", k.Airline.Hex(), k.Flight, k.Timestamp)
}

// RequestID returns the identifier of an oracle request opened for key with
// the given index.
func RequestID(index uint8, key ScheduleKey) Hash {
	return crypto.Keccak256Hash([]byte{index}, key.Airline.Bytes(), []byte(key.Flight), Uint64Bytes(key.Timestamp))
}

// PolicyID returns the identifier of the policy a passenger holds on a flight.
func PolicyID(passenger Address, key FlightKey) Hash {
	return crypto.Keccak256Hash(passenger.Bytes(), key.Airline.Bytes(), []byte(key.Flight))
}

func Uint64Bytes(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
