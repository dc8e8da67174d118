package webhooks

import "fmt"

type OutcomeKind int

const (
	// OutcomeSuccess carries a payload the caller can continue with.
	OutcomeSuccess OutcomeKind = iota
	// OutcomeFatal means the workflow cannot continue.
	OutcomeFatal
	// OutcomeRecoverable means the step failed but the workflow may finish;
	// Message holds a textual stand-in for the missing payload.
	OutcomeRecoverable
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFatal:
		return "fatal"
	case OutcomeRecoverable:
		return "recoverable"
	default:
		return fmt.Sprintf("OutcomeKind(%d)", int(k))
	}
}

// Outcome is the result of one remote call.
type Outcome[T any] struct {
	Kind    OutcomeKind
	Payload T
	Message string
	Err     error
}

func success[T any](payload T) Outcome[T] {
	return Outcome[T]{Kind: OutcomeSuccess, Payload: payload}
}

func fatal[T any](err error) Outcome[T] {
	return Outcome[T]{Kind: OutcomeFatal, Message: err.Error(), Err: err}
}

func recoverable[T any](message string, err error) Outcome[T] {
	return Outcome[T]{Kind: OutcomeRecoverable, Message: message, Err: err}
}

func (o Outcome[T]) OK() bool { return o.Kind == OutcomeSuccess }
