// Package identity wraps the external identity provider (Firebase Auth)
// behind a narrow interface so services never hold a provider client
// directly.
package identity

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/google/uuid"

	"agencydesk-backend/internal/domain"
	"agencydesk-backend/internal/logger"
)

// Provider is the contract this core consumes from the external identity
// provider.
type Provider interface {
	// DeleteIdentity removes the provider-side account. Failure must abort
	// any local mutation that depends on it.
	DeleteIdentity(ctx context.Context, id string) error
	// SetCredential updates the provider-side password for the account.
	SetCredential(ctx context.Context, id, newCredential string) error
}

// HasExternalIdentity reports whether an account has a provider-side record.
// Accounts created after the provider migration carry RFC 4122 UUIDs that
// double as the provider uid; legacy rows imported from the pre-migration
// system kept their numeric ids and never had a provider account, so the
// provider step is skipped for them.
func HasExternalIdentity(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

type firebaseProvider struct {
	client *auth.Client
}

// NewFirebaseProvider initializes the Firebase Admin SDK from a service
// account credentials file.
func NewFirebaseProvider(ctx context.Context, credentialsFile, projectID string) (Provider, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase auth client: %w", err)
	}
	return &firebaseProvider{client: client}, nil
}

func (p *firebaseProvider) DeleteIdentity(ctx context.Context, id string) error {
	logger.ExternalServiceCall("firebase", "DeleteUser", "uid", id)
	err := p.client.DeleteUser(ctx, id)
	logger.ExternalServiceResult("firebase", "DeleteUser", err, "uid", id)
	if err != nil {
		if auth.IsUserNotFound(err) {
			// Already gone on the provider side; the local mutation may
			// proceed.
			return nil
		}
		return domain.Dependencyf("identity provider delete failed for %s: %v", id, err)
	}
	return nil
}

func (p *firebaseProvider) SetCredential(ctx context.Context, id, newCredential string) error {
	logger.ExternalServiceCall("firebase", "UpdateUser", "uid", id)
	params := (&auth.UserToUpdate{}).Password(newCredential)
	_, err := p.client.UpdateUser(ctx, id, params)
	logger.ExternalServiceResult("firebase", "UpdateUser", err, "uid", id)
	if err != nil {
		return domain.Dependencyf("identity provider credential update failed for %s: %v", id, err)
	}
	return nil
}
