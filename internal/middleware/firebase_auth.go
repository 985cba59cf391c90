package middleware

import (
	"context"

	"firebase.google.com/go/v4/auth"
)

// IDTokenVerifier is the part of the Firebase auth client used here
type IDTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// verifyFirebaseToken accepts a raw Firebase ID token and returns its UID
func verifyFirebaseToken(ctx context.Context, verifier IDTokenVerifier, idToken string) (string, error) {
	token, err := verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		return "", err
	}
	return token.UID, nil
}
