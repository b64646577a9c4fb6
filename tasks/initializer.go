package tasks

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"xsweep/monitoring"
	"xsweep/storage"
)

// CredentialVerifier checks the account connection and returns the
// authenticated screen name.
type CredentialVerifier interface {
	VerifyCredentials() (string, error)
}

// Initializer is the once-only bootstrap: it verifies the credentials
// actually work before any destructive call, then seeds the queue with a
// full retrieval pass.
type Initializer struct {
	verifier  CredentialVerifier
	retriever *Retriever
}

func NewInitializer(verifier CredentialVerifier, retriever *Retriever) *Initializer {
	return &Initializer{
		verifier:  verifier,
		retriever: retriever,
	}
}

func (i *Initializer) Run(ctx context.Context, state *storage.State, now time.Time) error {
	screenName, err := i.verifier.VerifyCredentials()
	if err != nil {
		monitoring.APIErrors.WithLabelValues("verify_credentials").Inc()
		return fmt.Errorf("verifying credentials: %w", err)
	}
	log.Infof("Connected as @%s", screenName)

	return i.retriever.Run(ctx, state, now)
}
