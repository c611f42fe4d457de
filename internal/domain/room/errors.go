package room

import "errors"

// Room ドメインのエラー定義
var (
	ErrRoomNotFound       = errors.New("客室が見つかりません")
	ErrRoomNumberRequired = errors.New("客室番号は必須です")
	ErrRoomNumberTaken    = errors.New("同じ客室番号が既に存在します")
	ErrInvalidCapacity    = errors.New("定員は1以上である必要があります")
	ErrInvalidPrice       = errors.New("1泊料金は0以上である必要があります")
	ErrInvalidStatus      = errors.New("客室ステータスが不正です")
)
