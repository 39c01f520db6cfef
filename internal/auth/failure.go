package auth

// Reason classifies why an authentication attempt failed. Credential reasons
// map to 401 responses; system failures map to 500.
type Reason string

const (
	ReasonUnknownUser   Reason = "unknown_user"
	ReasonWrongPassword Reason = "wrong_password"
	ReasonSystem        Reason = "system"
)

// Failure is a typed authentication failure. For credential failures the
// Message is user-facing; system failures carry a wrapped cause that must
// only ever reach the logs.
type Failure struct {
	Reason  Reason
	Message string
	cause   error
}

func (f *Failure) Error() string {
	if f.cause != nil {
		return f.Message + ": " + f.cause.Error()
	}
	return f.Message
}

func (f *Failure) Unwrap() error { return f.cause }

// Credential reports whether the failure is the caller's fault (bad
// username or password) rather than ours.
func (f *Failure) Credential() bool { return f.Reason != ReasonSystem }

// The two credential failures, messages preserved verbatim.
var (
	ErrUnknownUser   = &Failure{Reason: ReasonUnknownUser, Message: "User does not exist."}
	ErrWrongPassword = &Failure{Reason: ReasonWrongPassword, Message: "Incorrect Password."}
)

func systemFailure(err error) *Failure {
	return &Failure{Reason: ReasonSystem, Message: "authentication lookup failed", cause: err}
}
