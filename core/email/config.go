package email

// Config selects the outbound mail transport and dispatcher sizing.
type Config struct {
	// Driver picks the sender implementation: smtp, postmark, or dev.
	Driver string `env:"EMAIL_DRIVER" envDefault:"smtp"`
	// DevDir is where the dev driver writes rendered messages.
	DevDir string `env:"EMAIL_DEV_DIR" envDefault:"emails"`
	// QueueSize bounds the dispatch queue.
	QueueSize int `env:"EMAIL_QUEUE_SIZE" envDefault:"100"`
}
