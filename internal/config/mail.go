package config

// MailConfig holds the SMTP relay used to deliver notification emails.
type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	// TLS selects the go-mail TLS policy: "mandatory", "opportunistic" or "none".
	TLS string
}

func LoadMailConfig() MailConfig {
	return MailConfig{
		Host:     envStr("SMTP_HOST", "localhost"),
		Port:     envInt("SMTP_PORT", 587),
		Username: envStr("SMTP_USERNAME", ""),
		Password: envStr("SMTP_PASSWORD", ""),
		From:     envStr("MAIL_FROM", "no-reply@tickets.local"),
		FromName: envStr("MAIL_FROM_NAME", "Event Tickets"),
		TLS:      envStr("SMTP_TLS", "opportunistic"),
	}
}
