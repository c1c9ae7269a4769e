package types

// Slip is a dock position holding at most one boat
type Slip struct {
	ID          int64  `json:"id" gorm:"primary_key"`
	Number      int    `json:"number"`
	CurrentBoat *int64 `json:"current_boat"`
}

// Occupied reports whether a boat is currently assigned to the slip
func (s *Slip) Occupied() bool {
	return s.CurrentBoat != nil
}

// Holds reports whether the given boat is the one at the slip
func (s *Slip) Holds(boatID int64) bool {
	return s.CurrentBoat != nil && *s.CurrentBoat == boatID
}

type SlipRequest struct {
	Number *int `json:"number" binding:"required"`
}

func (r *SlipRequest) Slip() Slip {
	return Slip{Number: *r.Number}
}
