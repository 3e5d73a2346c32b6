package github

import "fmt"

// Reason classifies why a hosting-provider call did not produce a value.
type Reason string

const (
	ReasonNone             Reason = "none"
	ReasonNotInstalled     Reason = "not-installed"
	ReasonNotAuthenticated Reason = "not-authenticated"
	ReasonNotFound         Reason = "not-found"
	ReasonForbidden        Reason = "forbidden"
	ReasonCommandFailed    Reason = "command-failed"
	ReasonInvalidResponse  Reason = "invalid-response"
)

// Hint returns a short manual remediation for the reason.
func (r Reason) Hint() string {
	switch r {
	case ReasonNotInstalled:
		return "install the GitHub CLI from https://cli.github.com"
	case ReasonNotAuthenticated:
		return "run 'gh auth login'"
	case ReasonNotFound:
		return "check the repository exists and the name is correct"
	case ReasonForbidden:
		return "this needs admin rights on the repository; ask an owner to apply it"
	case ReasonInvalidResponse:
		return "upgrade the GitHub CLI and retry"
	case ReasonCommandFailed:
		return "rerun with --debug to see the gh output"
	default:
		return ""
	}
}

// Outcome is the typed result of a hosting-provider call. Value is only
// meaningful when Reason is ReasonNone.
type Outcome[T any] struct {
	Value  T
	Reason Reason
	// Detail is the trimmed provider message for failed calls.
	Detail string
}

// OK reports whether the call succeeded.
func (o Outcome[T]) OK() bool {
	return o.Reason == ReasonNone || o.Reason == ""
}

// Err converts a failed outcome into an error.
func (o Outcome[T]) Err() error {
	if o.OK() {
		return nil
	}
	return &CallError{Reason: o.Reason, Detail: o.Detail}
}

// CallError is the error form of a failed Outcome.
type CallError struct {
	Reason Reason
	Detail string
}

func (e *CallError) Error() string {
	if e.Detail == "" {
		return string(e.Reason)
	}
	return fmt.Sprintf("%s: %s", e.Reason, e.Detail)
}

func ok[T any](v T) Outcome[T] {
	return Outcome[T]{Value: v, Reason: ReasonNone}
}

func fail[T any](reason Reason, detail string) Outcome[T] {
	return Outcome[T]{Reason: reason, Detail: detail}
}

// recast carries a failure over to an outcome of another type.
func recast[T, U any](o Outcome[U]) Outcome[T] {
	return Outcome[T]{Reason: o.Reason, Detail: o.Detail}
}
