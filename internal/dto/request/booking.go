package request

type CreateBookingRequest struct {
	ShowtimeID string   `json:"showtime_id" validate:"required,uuid"`
	Seats      []string `json:"seats" validate:"required,min=1,dive,required"`
}

type PayBookingRequest struct {
	Method string  `json:"payment_method" validate:"required,oneof=card upi netbanking wallet"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

type BookingListRequest struct {
	PaginatedRequest
	Status     string `json:"status" validate:"omitempty,oneof=pending confirmed cancelled expired"`
	ShowtimeID string `json:"showtime_id" validate:"omitempty,uuid"`
	UserID     string `json:"user_id" validate:"omitempty,uuid"`
}
