package model

import "time"

// SignalDirection is the trade side of a seeded signal.
type SignalDirection string

const (
	DirectionBuy  SignalDirection = "BUY"
	DirectionSell SignalDirection = "SELL"
)

// SignalState is the lifecycle state of a tracked signal.
// State is the only mutable field of a Signal and is advanced exclusively
// through the store's conditional update.
type SignalState string

const (
	SignalPrepared        SignalState = "PREPARED"
	SignalWaitingForEntry SignalState = "WAITING_FOR_ENTRY"
	SignalEntryHit        SignalState = "ENTRY_HIT"
	SignalTPHit           SignalState = "TP_HIT"
	SignalSLHit           SignalState = "SL_HIT"
	SignalTimeExit        SignalState = "TIME_EXIT"
	SignalCancelled       SignalState = "CANCELLED"
)

// Terminal reports whether the state ends the signal's lifecycle.
func (s SignalState) Terminal() bool {
	switch s {
	case SignalTPHit, SignalSLHit, SignalTimeExit, SignalCancelled:
		return true
	}
	return false
}

// NonTerminalStates lists every state the watcher and janitor must track.
func NonTerminalStates() []SignalState {
	return []SignalState{SignalPrepared, SignalWaitingForEntry, SignalEntryHit}
}

// Signal is the stateful entity under lifecycle management. Created once from
// a StructureState, destroyed when it reaches a terminal state, never resurrected.
// Deadlines are computed once at creation (UTC) and never re-derived.
type Signal struct {
	ID            string          `db:"id"`
	Symbol        string          `db:"symbol"`
	Direction     SignalDirection `db:"direction"`
	EntryPrice    float64         `db:"entry_price"`
	TakeProfit    float64         `db:"take_profit"`
	StopLoss      float64         `db:"stop_loss"`
	State         SignalState     `db:"state"`
	Reason        string          `db:"reason"`
	TraceID       string          `db:"trace_id"`
	CreatedAt     time.Time       `db:"created_at"`
	EntryDeadline time.Time       `db:"entry_deadline"`
	TradeDeadline time.Time       `db:"trade_deadline"`
	UpdatedAt     time.Time       `db:"updated_at"`
}
