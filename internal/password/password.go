// Package password はArgon2idによるパスワードハッシュ化と検証を提供する。
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

// Params はArgon2idのコストパラメータを保持する。
type Params struct {
	MemoryKiB   uint32 // メモリ使用量（KiB）
	Iterations  uint32 // 反復回数
	Parallelism uint8  // 並列度
	SaltLength  uint32 // ソルト長（バイト）
	KeyLength   uint32 // 導出鍵長（バイト）
}

// DefaultParams は本番用のデフォルトコストパラメータ。
var DefaultParams = Params{
	MemoryKiB:   64 * 1024,
	Iterations:  3,
	Parallelism: 2,
	SaltLength:  16,
	KeyLength:   32,
}

// 保存済みハッシュに埋め込まれたパラメータの下限。
// これを下回るハッシュは強度不足として検証失敗扱いにする。
const (
	minMemoryKiB  = 8 * 1024
	minIterations = 1
	minSaltLength = 8
	minKeyLength  = 16
)

// 攻撃者が細工したハッシュ文字列による資源枯渇を防ぐ上限。
const (
	maxMemoryKiB  = 1024 * 1024
	maxIterations = 16
)

// Hasher はパスワードのハッシュ化と検証を行う。
// 状態を持たず、複数ゴルーチンから同時に使用できる。
type Hasher struct {
	params Params
}

// NewHasher はHasherを生成する。
func NewHasher(params Params) *Hasher {
	return &Hasher{params: params}
}

// Hash は平文パスワードをArgon2idでハッシュ化し、
// アルゴリズム・パラメータ・ソルト・ダイジェストを自己記述する
// PHC形式の文字列（$argon2id$v=19$m=..,t=..,p=..$salt$digest）を返す。
// ソルトは呼び出しごとに暗号論的乱数で生成するため、
// 同一平文でも毎回異なるハッシュ文字列になる。
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.params.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		h.params.Iterations,
		h.params.MemoryKiB,
		h.params.Parallelism,
		h.params.KeyLength,
	)

	encoded := fmt.Sprintf(
		"$argon2id$v=%d$m=%d,t=%d,p=%d$%s$%s",
		argon2.Version,
		h.params.MemoryKiB,
		h.params.Iterations,
		h.params.Parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	)

	return encoded, nil
}

// Verify は平文パスワードを保存済みハッシュと照合する。
// 照合は定数時間比較で行う。不一致・ハッシュ文字列の破損・
// パラメータ強度不足のいずれもfalseを返し、呼び出し側からは
// 区別できない（オラクル漏えい防止のため意図的な設計）。
func (h *Hasher) Verify(plaintext, encodedHash string) bool {
	params, salt, expected, err := decodeHash(encodedHash)
	if err != nil {
		return false
	}

	key := argon2.IDKey(
		[]byte(plaintext),
		salt,
		params.Iterations,
		params.MemoryKiB,
		params.Parallelism,
		params.KeyLength,
	)

	return subtle.ConstantTimeCompare(key, expected) == 1
}

// decodeHash はPHC形式のハッシュ文字列からパラメータ・ソルト・
// ダイジェストを取り出す。形式不正や強度範囲外はエラーを返す。
func decodeHash(encodedHash string) (Params, []byte, []byte, error) {
	var params Params

	parts := strings.Split(encodedHash, "$")
	if len(parts) != 6 {
		return params, nil, nil, fmt.Errorf("invalid hash format")
	}
	if parts[1] != "argon2id" {
		return params, nil, nil, fmt.Errorf("unsupported algorithm: %q", parts[1])
	}

	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil {
		return params, nil, nil, fmt.Errorf("invalid version segment: %w", err)
	}
	if version != argon2.Version {
		return params, nil, nil, fmt.Errorf("incompatible argon2 version: %d", version)
	}

	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &params.MemoryKiB, &params.Iterations, &params.Parallelism); err != nil {
		return params, nil, nil, fmt.Errorf("invalid params segment: %w", err)
	}

	salt, err := base64.RawStdEncoding.DecodeString(parts[4])
	if err != nil {
		return params, nil, nil, fmt.Errorf("invalid salt encoding: %w", err)
	}

	key, err := base64.RawStdEncoding.DecodeString(parts[5])
	if err != nil {
		return params, nil, nil, fmt.Errorf("invalid digest encoding: %w", err)
	}

	params.SaltLength = uint32(len(salt))
	params.KeyLength = uint32(len(key))

	if err := checkBounds(params); err != nil {
		return params, nil, nil, err
	}

	return params, salt, key, nil
}

// checkBounds はパラメータが強度下限と資源上限の範囲内かを検証する。
func checkBounds(p Params) error {
	if p.MemoryKiB < minMemoryKiB || p.MemoryKiB > maxMemoryKiB {
		return fmt.Errorf("memory parameter out of bounds: %d", p.MemoryKiB)
	}
	if p.Iterations < minIterations || p.Iterations > maxIterations {
		return fmt.Errorf("iterations parameter out of bounds: %d", p.Iterations)
	}
	if p.SaltLength < minSaltLength {
		return fmt.Errorf("salt too short: %d bytes", p.SaltLength)
	}
	if p.KeyLength < minKeyLength {
		return fmt.Errorf("digest too short: %d bytes", p.KeyLength)
	}
	if p.Parallelism == 0 {
		return fmt.Errorf("parallelism must be positive")
	}
	return nil
}
