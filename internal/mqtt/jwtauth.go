package mqtt

import (
	"time"

	"github.com/dgrijalva/jwt-go"
)

// SignPasswordJWT mints a compact HS256 JWT suitable for use as the CONNECT password field,
// the pattern several managed MQTT brokers (e.g. cloud IoT hubs) use in place of a static
// password: the client proves identity by presenting a token signed with a shared key.
func SignPasswordJWT(clientID string, signingKey []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": clientID,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}
