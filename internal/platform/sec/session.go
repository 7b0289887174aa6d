// Copyright (c) 2026 StudyBuddy. All rights reserved.
// Author: arman@studybuddy.dev

package sec

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// sessionKeyLength is the size in bytes of the HMAC signing key.
const sessionKeyLength = 32

// SessionClaims is the payload embedded inside a signed session token.
//
// # Why custom claims?
//
// By embedding the session ID and username directly inside the token, the
// [middleware.Authenticate] layer can reconstruct the active session WITHOUT
// any server-side session table lookup on every request.
type SessionClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the token payload small.
	SessionID string `json:"sid"`
	Username  string `json:"unm"`
}

// SessionSigner issues and verifies signed session tokens using HS256.
//
// # Key Lifecycle
//
// The signing key is generated once per process start and never persisted.
// Every session is therefore invalidated on restart. This is an accepted
// consequence of keeping the server free of durable session state.
type SessionSigner struct {
	key    []byte
	issuer string
}

// NewSessionSigner creates a [SessionSigner] with a fresh random signing key.
func NewSessionSigner(issuer string) (*SessionSigner, error) {
	key := make([]byte, sessionKeyLength)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("sec: failed to generate session key: %w", err)
	}

	return &SessionSigner{key: key, issuer: issuer}, nil
}

// Sign creates a signed session token for the given session ID and username.
func (signer *SessionSigner) Sign(sessionID, username string, timeToLive time.Duration) (string, error) {
	currentTime := time.Now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		SessionID: sessionID,
		Username:  username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(signer.key)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session token: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature and validity of a session token string.
func (signer *SessionSigner) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return signer.key, nil
	})

	if err != nil {
		return nil, fmt.Errorf("sec: invalid session token: %w", err)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid session claims")
	}

	return claims, nil
}
