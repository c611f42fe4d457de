package identity

// Role は操作主体の役割を表す
type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuest Role = "guest"
)

// ParseRole は文字列から役割を解釈する
// 未知の値は最小権限の guest として扱う
func ParseRole(s string) Role {
	if s == string(RoleAdmin) {
		return RoleAdmin
	}
	return RoleGuest
}

// Actor は認証済みの操作主体を表す
// 認証自体は外部のゲートウェイで完了している前提で、コアは検証を行わない
type Actor struct {
	UserID string
	Role   Role
}

// IsAdmin は管理者かを返す
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
