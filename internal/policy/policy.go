// Package policy はロールベースアクセス制御の純粋な判定を提供する。
package policy

import (
	"errors"

	"github.com/hitoshi/jobboard/internal/model"
)

// ErrDenied はIdentityのロールが要求ロールを満たさないことを示す。
// 呼び出し側はこれを403として表面化する。
var ErrDenied = errors.New("policy: access denied")

// ErrNoIdentity はIdentityが付与されていないことを示す。
// IdentityMiddleware通過後にのみ呼ばれる契約のため、
// これは呼び出し側のプログラミングエラーである。
var ErrNoIdentity = errors.New("policy: identity missing")

// Require はIdentityが要求ロールを満たすかを判定する。
// I/Oを行わず、Identityのロールと要求ロールの等価比較のみを行う。
func Require(identity *model.Identity, required model.Role) error {
	if identity == nil {
		return ErrNoIdentity
	}
	if identity.Role != required {
		return ErrDenied
	}
	return nil
}
