package domain

import "time"

// ClientState is either Active or Inactive. The on-time/delinquent label of an
// active client is never stored; it is derived from the payments of the
// period being looked at.
type ClientState interface {
	isClientState()
}

// Active is the state of a client that is still billed
type Active struct {
	PaidThisPeriod bool
}

// Inactive is the state of a client that is no longer billed
type Inactive struct {
	Reason string
	Since  time.Time
}

func (Active) isClientState()   {}
func (Inactive) isClientState() {}

// StatusOf derives the status label from a state
func StatusOf(s ClientState) ClientStatus {
	switch st := s.(type) {
	case Inactive:
		return StatusInactive
	case Active:
		if st.PaidThisPeriod {
			return StatusOnTime
		}
		return StatusDelinquent
	}
	return StatusDelinquent
}

// IsInactive reports whether the client is inactive
func (c Client) IsInactive() bool {
	_, ok := c.State.(Inactive)
	return ok
}

// Status returns the derived status label of the client
func (c Client) Status() ClientStatus {
	return StatusOf(c.State)
}
