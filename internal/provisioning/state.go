package provisioning

// Secrets holds the resolved plaintext secret values for this run. They
// live in process memory only and are never emitted to any output sink.
type Secrets struct {
	RegistrationCode string
	ADPassword       string
}

// State holds the shared results of provisioning phases. It is
// progressively populated as each phase completes and is passed to
// subsequent phases that need earlier results.
type State struct {
	// Secret results (populated by the credential resolver)
	Secrets Secrets

	// Token is the one-time connector registration token (populated by
	// the token acquisition phase). Same non-logging contract as Secrets.
	Token string

	// AlreadyInstalled is set by the idempotency guard when a prior run
	// left the connector binary in place.
	AlreadyInstalled bool

	// Install results (populated by the install sequencer)
	InstallAttempts int
	Installed       bool
}

// NewState creates an empty provisioning state.
func NewState() *State {
	return &State{}
}
