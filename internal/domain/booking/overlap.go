package booking

import "time"

// Overlaps は2つの半開区間 [aStart, aEnd) と [bStart, bEnd) が重なるかを返す
// 境界が一致するだけの区間（チェックアウト日＝チェックイン日）は重ならない
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// OverlapsRange は予約 b の宿泊期間が [start, end) と重なるかを返す
func (b *Booking) OverlapsRange(start, end time.Time) bool {
	return Overlaps(start, end, b.CheckIn, b.CheckOut)
}
