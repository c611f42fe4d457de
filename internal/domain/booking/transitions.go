package booking

// CanTransition は from から to への遷移が遷移表で許可されているかを返す
// 終端状態（checked_out / cancelled）からの遷移は常に不正
func CanTransition(from, to Status) bool {
	switch from {
	case StatusPending:
		return to == StatusConfirmed || to == StatusCancelled
	case StatusConfirmed:
		return to == StatusCheckedIn || to == StatusCancelled
	case StatusCheckedIn:
		return to == StatusCheckedOut || to == StatusCancelled
	case StatusCheckedOut, StatusCancelled:
		return false
	}
	return false
}

// OccupiesRoom は to への遷移で客室を滞在中にするかを返す
func OccupiesRoom(to Status) bool {
	return to == StatusCheckedIn
}

// FreesRoom は from から to への遷移で客室を解放するかを返す
// 解放が起きるのはチェックアウトと、滞在中からのキャンセルのみ
// 保留・確定からのキャンセルでは客室は滞在中になっていないため副作用はない
func FreesRoom(from, to Status) bool {
	if from != StatusCheckedIn {
		return false
	}
	return to == StatusCheckedOut || to == StatusCancelled
}
