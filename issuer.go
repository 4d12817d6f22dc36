package authgate

import (
	"context"
	"time"

	"github.com/rvalden/authgate/internal"
)

// issueTokenPair builds the access/refresh pair for a user: a signed access
// token, a fresh opaque refresh secret, and a new active store record holding
// the secret's digest. The raw secret leaves this function exactly once, in
// the returned pair.
func (e *Engine) issueTokenPair(ctx context.Context, userID string) (*TokenPair, error) {
	access, err := e.accessTokens.Create(userID)
	if err != nil {
		return nil, err
	}

	secret, err := internal.NewRefreshSecret()
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(e.config.JWT.RefreshTTL)
	if _, err := e.tokens.Create(ctx, userID, internal.DigestToken(secret), expiresAt); err != nil {
		return nil, storeErr(err)
	}

	e.metricInc(MetricTokenPairIssued)

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: secret,
		ExpiresIn:    int64(e.config.JWT.AccessTTL / time.Second),
	}, nil
}
