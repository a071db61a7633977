package passreset

import "time"

// Config holds password reset settings loaded from the environment.
type Config struct {
	// PanelURL is the external base URL embedded in reset links.
	PanelURL string `env:"PANEL_URL,required"`
	// TokenTTL is how long an issued reset token stays redeemable.
	TokenTTL time.Duration `env:"PASSWORD_RESET_TTL" envDefault:"24h"`
}
