package chat

import "time"

type Config struct {
	FeedDriver        string        `envconfig:"FEED_DRIVER" default:"redis"` // redis | memory
	ProofMaxBytes     int64         `envconfig:"PROOF_MAX_BYTES" default:"10485760"`
	ProofURLTTL       time.Duration `envconfig:"PROOF_URL_TTL" default:"15m"`
	PendingAlertAfter time.Duration `envconfig:"PENDING_ALERT_AFTER" default:"2h"`
}
