package domain

import "time"

type Stage string

const (
	StageConfirmed Stage = "confirmed"
	StagePreparing Stage = "preparing"
	StageOnTheWay  Stage = "on_way"
	StageDelivered Stage = "delivered"
)

type StageInfo struct {
	ID          Stage  `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// StageSequence returns the fixed order of progress stages. The slice is
// freshly allocated on every call.
func StageSequence() []StageInfo {
	return []StageInfo{
		{ID: StageConfirmed, Label: "Order Confirmed", Description: "We have received your order and are preparing it for the kitchen."},
		{ID: StagePreparing, Label: "Preparing Food", Description: "The restaurant is currently preparing your delicious meal."},
		{ID: StageOnTheWay, Label: "Out for Delivery", Description: "Your order is on its way! Track your rider for live updates."},
		{ID: StageDelivered, Label: "Delivered", Description: "Your food has been delivered. Enjoy your meal!"},
	}
}

// Ordinal returns the position of s in the sequence, or -1 for unknown stages.
func (s Stage) Ordinal() int {
	for i, info := range StageSequence() {
		if info.ID == s {
			return i
		}
	}
	return -1
}

func (s Stage) Terminal() bool { return s == StageDelivered }

func (s Stage) Info() (StageInfo, bool) {
	for _, info := range StageSequence() {
		if info.ID == s {
			return info, true
		}
	}
	return StageInfo{}, false
}

func StageAtOrdinal(k int) (Stage, bool) {
	seq := StageSequence()
	if k < 0 || k >= len(seq) {
		return "", false
	}
	return seq[k].ID, true
}

// Progress is a point-in-time view of an order's tracker.
type Progress struct {
	Current   Stage     `json:"current"`
	Completed []Stage   `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}
