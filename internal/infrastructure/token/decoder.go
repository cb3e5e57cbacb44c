// Package token decodes session tokens issued by the auth API.
package token

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/upslab/labportal/internal/core/domain"
)

// maxExpSeconds bounds exp so that time.Unix stays in range.
const maxExpSeconds = math.MaxInt64 / 2

// ErrMalformed is wrapped by every decode failure.
var ErrMalformed = errors.New("malformed session token")

// Decoder extracts domain claims from a JWT. Time claims are never validated
// here: expiry is the session guard's decision.
type Decoder struct {
	key    []byte
	parser *jwt.Parser
}

// NewDecoder returns a decoder. With an empty verifyKey the token is decoded
// without checking its signature; the API remains the authority on every
// call it serves.
func NewDecoder(verifyKey string) *Decoder {
	return &Decoder{
		key: []byte(verifyKey),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithoutClaimsValidation(),
		),
	}
}

// Verifying reports whether signatures are checked.
func (d *Decoder) Verifying() bool { return len(d.key) > 0 }

func (d *Decoder) Decode(raw string) (*domain.Claims, error) {
	mc := jwt.MapClaims{}
	if d.Verifying() {
		_, err := d.parser.ParseWithClaims(raw, mc, func(*jwt.Token) (interface{}, error) {
			return d.key, nil
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
	} else if _, _, err := d.parser.ParseUnverified(raw, mc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	exp, ok := mc["exp"].(float64)
	if !ok || math.IsNaN(exp) || math.IsInf(exp, 0) {
		return nil, fmt.Errorf("%w: exp missing or not numeric", ErrMalformed)
	}
	sec, frac := math.Modf(exp)
	// Far-future and far-past values saturate instead of wrapping in int64.
	if sec > maxExpSeconds {
		sec, frac = maxExpSeconds, 0
	} else if sec < -maxExpSeconds {
		sec, frac = -maxExpSeconds, 0
	}

	claims := &domain.Claims{
		ExpiresAt:   time.Unix(int64(sec), int64(frac*1e9)),
		SubjectName: stringClaim(mc["nombre"]),
		Subject:     stringClaim(mc["sub"]),
		Email:       stringClaim(mc["correo"]),
	}
	// Only a JSON true grants the role; "true" or 1 do not.
	if admin, ok := mc["is_admin"].(bool); ok {
		claims.IsAdmin = admin
	}
	return claims, nil
}

func stringClaim(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}
