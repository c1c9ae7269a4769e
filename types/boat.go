package types

// Boat is a vessel that can be moored at a Slip
type Boat struct {
	ID     int64   `json:"id" gorm:"primary_key"`
	Name   string  `json:"name"`
	Type   string  `json:"type"`
	Length float64 `json:"length"`
}

// BoatRequest is the body accepted when creating or replacing a boat.
// Pointers let a zero length or an empty name count as present.
type BoatRequest struct {
	Name   *string  `json:"name" binding:"required"`
	Type   *string  `json:"type" binding:"required"`
	Length *float64 `json:"length" binding:"required"`
}

func (r *BoatRequest) Boat() Boat {
	return Boat{
		Name:   *r.Name,
		Type:   *r.Type,
		Length: *r.Length,
	}
}
