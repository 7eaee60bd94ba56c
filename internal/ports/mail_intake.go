package ports

// MailIntake defines the interface for services that receive forwarded mail
type MailIntake interface {
	// Start starts accepting messages
	Start() error

	// Stop stops the intake service
	Stop() error
}
