package password

import (
	"strings"
	"testing"
)

// テストではデフォルトより軽いコストパラメータを使う。
var testParams = Params{
	MemoryKiB:   8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

func TestHash_ProducesPHCFormat(t *testing.T) {
	hasher := NewHasher(testParams)

	encoded, err := hasher.Hash("correct horse battery staple")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !strings.HasPrefix(encoded, "$argon2id$v=19$") {
		t.Errorf("hash should start with $argon2id$v=19$, got %q", encoded)
	}
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 {
		t.Errorf("hash should have 6 segments, got %d: %q", len(parts), encoded)
	}
	if !strings.Contains(encoded, "m=8192,t=1,p=1") {
		t.Errorf("hash should embed cost parameters, got %q", encoded)
	}
}

func TestHashVerify_RoundTrip(t *testing.T) {
	hasher := NewHasher(testParams)

	encoded, err := hasher.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if !hasher.Verify("s3cret-password", encoded) {
		t.Error("Verify() should succeed with the original password")
	}
}

func TestVerify_WrongPassword(t *testing.T) {
	hasher := NewHasher(testParams)

	encoded, err := hasher.Hash("s3cret-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	if hasher.Verify("wrong-password", encoded) {
		t.Error("Verify() should fail with a different password")
	}
}

func TestHash_SaltIsRandomPerCall(t *testing.T) {
	hasher := NewHasher(testParams)

	first, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}
	second, err := hasher.Hash("same-password")
	if err != nil {
		t.Fatalf("Hash() error = %v", err)
	}

	// ソルトが毎回異なるため、同一平文でもハッシュ文字列は一致しない
	if first == second {
		t.Error("two hashes of the same password should differ")
	}

	// どちらのハッシュでも検証は成功すること
	if !hasher.Verify("same-password", first) || !hasher.Verify("same-password", second) {
		t.Error("both hashes should verify against the original password")
	}
}

func TestVerify_MalformedHash(t *testing.T) {
	hasher := NewHasher(testParams)

	tests := []struct {
		name        string
		encodedHash string
	}{
		{"empty string", ""},
		{"plain text", "not-a-hash"},
		{"missing segments", "$argon2id$v=19$m=8192,t=1,p=1"},
		{"wrong algorithm", "$bcrypt$v=19$m=8192,t=1,p=1$c29tZXNhbHQwMDAwMDA$ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGk"},
		{"wrong version", "$argon2id$v=18$m=8192,t=1,p=1$c29tZXNhbHQwMDAwMDA$ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGk"},
		{"invalid params segment", "$argon2id$v=19$m=abc$c29tZXNhbHQwMDAwMDA$ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGk"},
		{"invalid salt base64", "$argon2id$v=19$m=8192,t=1,p=1$!!!invalid!!!$ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGk"},
		{"invalid digest base64", "$argon2id$v=19$m=8192,t=1,p=1$c29tZXNhbHQwMDAwMDA$!!!invalid!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hasher.Verify("any-password", tt.encodedHash) {
				t.Errorf("Verify() should fail for malformed hash %q", tt.encodedHash)
			}
		})
	}
}

func TestVerify_RejectsOutOfBoundsParameters(t *testing.T) {
	hasher := NewHasher(testParams)

	salt := "c29tZXNhbHQwMDAwMDA"                           // 14バイト
	digest := "ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGk" // 32バイト

	tests := []struct {
		name   string
		params string
	}{
		// 強度不足: 下限を下回るコストパラメータ
		{"memory below floor", "m=1024,t=1,p=1"},
		{"zero iterations", "m=8192,t=0,p=1"},
		{"zero parallelism", "m=8192,t=1,p=0"},
		// 資源枯渇: 細工された過大パラメータ
		{"memory above ceiling", "m=4194304,t=1,p=1"},
		{"iterations above ceiling", "m=8192,t=100,p=1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded := "$argon2id$v=19$" + tt.params + "$" + salt + "$" + digest
			if hasher.Verify("any-password", encoded) {
				t.Errorf("Verify() should reject hash with parameters %q", tt.params)
			}
		})
	}
}

func TestVerify_RejectsShortSaltAndDigest(t *testing.T) {
	hasher := NewHasher(testParams)

	// ソルト4バイト
	shortSalt := "$argon2id$v=19$m=8192,t=1,p=1$c2FsdA$ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGlnZXN0ZGk"
	if hasher.Verify("any-password", shortSalt) {
		t.Error("Verify() should reject hash with a short salt")
	}

	// ダイジェスト6バイト
	shortDigest := "$argon2id$v=19$m=8192,t=1,p=1$c29tZXNhbHQwMDAwMDA$ZGlnZXN0"
	if hasher.Verify("any-password", shortDigest) {
		t.Error("Verify() should reject hash with a short digest")
	}
}
