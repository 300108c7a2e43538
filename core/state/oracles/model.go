package oracles

import (
	"github.com/flightsurety/surety-node/core/types"
)

type Oracle struct {
	Indexes [types.OracleIndexCount]uint8

	address types.Address
}

func (o *Oracle) HasIndex(index uint8) bool {
	for _, i := range o.Indexes {
		if i == index {
			return true
		}
	}
	return false
}

// Request is an open call for oracles holding Index to report the status
// of one departure.
type Request struct {
	Index     uint8
	Airline   types.Address
	Flight    string
	Timestamp uint64
	Requester types.Address
	Open      bool
	Responses []*Response

	markDirty func(types.Hash)
}

type Response struct {
	Status  types.StatusCode
	Oracles []types.Address
}

func (r *Request) Key() types.ScheduleKey {
	return types.ScheduleKey{Airline: r.Airline, Flight: r.Flight, Timestamp: r.Timestamp}
}

func (r *Request) ID() types.Hash {
	return types.RequestID(r.Index, r.Key())
}

func (r *Request) response(status types.StatusCode) *Response {
	for _, resp := range r.Responses {
		if resp.Status == status {
			return resp
		}
	}
	return nil
}

// Votes returns how many oracles reported status.
func (r *Request) Votes(status types.StatusCode) int {
	resp := r.response(status)
	if resp == nil {
		return 0
	}
	return len(resp.Oracles)
}

// addVote records the report of oracle and returns the number of matching
// reports, or zero when the oracle already reported this status.
func (r *Request) addVote(oracle types.Address, status types.StatusCode) int {
	resp := r.response(status)
	if resp == nil {
		resp = &Response{Status: status}
		r.Responses = append(r.Responses, resp)
	}

	for _, o := range resp.Oracles {
		if o == oracle {
			return 0
		}
	}

	resp.Oracles = append(resp.Oracles, oracle)
	r.markDirty(r.ID())

	return len(resp.Oracles)
}

func (r *Request) setOpen(open bool) {
	r.Open = open
	r.markDirty(r.ID())
}

// FlightStatus is the finalized status of one departure.
type FlightStatus struct {
	Airline   types.Address
	Flight    string
	Timestamp uint64
	Status    types.StatusCode
}
