package utils

import (
	"deathcert-service/internal/pkg/constvars"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v4"
)

func ParseJWT(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secret), nil
	})

	if err != nil {
		return "", err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		if sessionID, ok := claims[constvars.SessionTokenClaimKey].(string); ok && sessionID != "" {
			return sessionID, nil
		}
	}

	return "", errors.New("invalid token")
}

// ParseUnverifiedClaims reads the claims of a token without checking its
// signature.
func ParseUnverifiedClaims(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	_, _, err := jwt.NewParser().ParseUnverified(tokenString, claims)
	if err != nil {
		return nil, err
	}
	return claims, nil
}

// ExtractSessionToken reads the session token from the bearer header first,
// then from the session cookie.
func ExtractSessionToken(r *http.Request) string {
	header := r.Header.Get(constvars.HeaderAuthorization)
	if strings.HasPrefix(header, constvars.AuthorizationBearerPrefix) {
		return strings.TrimSpace(strings.TrimPrefix(header, constvars.AuthorizationBearerPrefix))
	}
	cookie, err := r.Cookie(constvars.SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}
