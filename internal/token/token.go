// Package token は署名付きセッショントークンの発行と検証を提供する。
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultLifetime はトークンの有効期間のデフォルト値。
const DefaultLifetime = 60 * time.Minute

// 検証失敗の内部分類。ハンドラー層ではすべて単一の401に集約され、
// 区別はログとメトリクスにのみ現れる。
var (
	// ErrMalformed はトークン文字列の構造が不正であることを示す。
	ErrMalformed = errors.New("token: malformed token")
	// ErrInvalidSignature は署名検証に失敗したことを示す。
	ErrInvalidSignature = errors.New("token: invalid signature")
	// ErrExpired はトークンの有効期限が切れていることを示す。
	ErrExpired = errors.New("token: token expired")
)

// Claims はトークンに埋め込むクレームセットを表す。
// 発行時に確定し、以後変更されない。
type Claims struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec はクレームセットと署名付きトークン文字列を相互変換する。
// 署名鍵は起動時に設定され、以後変更されない。
// 内部状態を持たないため複数ゴルーチンから同時に使用できる。
type Codec struct {
	secret   []byte
	lifetime time.Duration
}

// NewCodec はCodecを生成する。
// lifetimeが0以下の場合はDefaultLifetimeを使用する。
func NewCodec(secret []byte, lifetime time.Duration) *Codec {
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &Codec{secret: secret, lifetime: lifetime}
}

// Lifetime は発行するトークンの有効期間を返す。
func (c *Codec) Lifetime() time.Duration {
	return c.lifetime
}

// Encode は主体IDに対する署名付きトークンを発行する。
// 発行時刻と有効期限（発行時刻 + lifetime）をクレームに含める。
func (c *Codec) Encode(subject string) (string, error) {
	now := time.Now()

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.lifetime)),
	})

	signed, err := t.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Decode はトークン文字列を検証し、クレームセットを復元する。
// 署名アルゴリズムはHS256に固定し、トークン側が主張するアルゴリズムは
// 信用しない（"none"や非対称方式へのすり替えを拒否する）。
// 失敗はErrExpired、ErrInvalidSignature、ErrMalformedのいずれかに分類する。
func (c *Codec) Decode(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			return c.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrMalformed
	}

	out := &Claims{
		Subject:   claims.Subject,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}

	return out, nil
}

// classifyParseError はjwtライブラリのエラーを内部分類に変換する。
func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	default:
		return ErrMalformed
	}
}
