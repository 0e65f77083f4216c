package jwt

import (
	"sync"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

type Service interface {
	GenerateAccessToken(subject string, isAdmin bool) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	RevokeToken(token string)
	IsTokenRevoked(token string) bool
}

type JWTService struct {
	secretKey                 string
	accessTokenExpirationTime string
	tokenAuth                 *jwtauth.JWTAuth
	revokedTokens             map[string]int64 // token -> exp (unix seconds)
	mu                        sync.RWMutex
	now                       func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string) Service {
	return &JWTService{
		secretKey:                 secretKey,
		accessTokenExpirationTime: accessTokenExpirationTime,
		tokenAuth:                 jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		revokedTokens:             make(map[string]int64),
		now:                       time.Now,
	}
}

func (j *JWTService) GenerateAccessToken(subject string, isAdmin bool) (token string, expiresAt int64, err error) {
	expDuration, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		return "", 0, err
	}
	expiresAt = j.now().Add(expDuration).Unix()

	claims := map[string]interface{}{
		"sub":      subject,
		"is_admin": isAdmin,
		"type":     "access",
		"exp":      expiresAt,
	}
	jwtauth.SetIssuedAt(claims, j.now())

	_, tokenString, err := j.tokenAuth.Encode(claims)
	return tokenString, expiresAt, err
}

// RevokeToken blacklists token until its own expiry; after that the signature
// check rejects it anyway, so the entry is dropped.
func (j *JWTService) RevokeToken(token string) {
	exp := j.expiryOf(token)

	j.mu.Lock()
	defer j.mu.Unlock()
	j.pruneLocked()
	j.revokedTokens[token] = exp
}

func (j *JWTService) IsTokenRevoked(token string) bool {
	now := j.now().Unix()

	j.mu.RLock()
	exp, revoked := j.revokedTokens[token]
	j.mu.RUnlock()
	if !revoked {
		return false
	}
	if exp > now {
		return true
	}

	j.mu.Lock()
	j.pruneLocked()
	j.mu.Unlock()
	return false
}

func (j *JWTService) expiryOf(token string) int64 {
	parsed, err := jwt.ParseString(token, jwt.WithVerify(false), jwt.WithValidate(false))
	if err == nil && !parsed.Expiration().IsZero() {
		return parsed.Expiration().Unix()
	}
	// unparseable tokens are kept for one access-token lifetime
	d, err := time.ParseDuration(j.accessTokenExpirationTime)
	if err != nil {
		d = time.Hour
	}
	return j.now().Add(d).Unix()
}

func (j *JWTService) pruneLocked() {
	now := j.now().Unix()
	for token, exp := range j.revokedTokens {
		if exp <= now {
			delete(j.revokedTokens, token)
		}
	}
}
