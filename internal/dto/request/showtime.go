package request

type ShowtimeRequest struct {
	MovieID    string  `json:"movie_id" validate:"required,uuid"`
	CinemaID   string  `json:"cinema_id" validate:"required,uuid"`
	Date       string  `json:"date" validate:"required,datetime=2006-01-02"`
	Time       string  `json:"time" validate:"required,datetime=15:04"`
	ScreenType string  `json:"screen_type" validate:"omitempty,oneof=Standard IMAX VIP 4DX"`
	Price      float64 `json:"price" validate:"required,gt=0,lte=10000"`
}

type GenerateShowtimesRequest struct {
	MovieID   string `json:"movie_id" validate:"required,uuid"`
	CinemaID  string `json:"cinema_id" validate:"required,uuid"`
	StartDate string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	Days      int    `json:"days" validate:"omitempty,min=1,max=30"`
}

// ShowtimeQuery holds the optional list filters; empty strings are unset.
type ShowtimeQuery struct {
	MovieID  string `json:"movie_id" validate:"omitempty,uuid"`
	CinemaID string `json:"cinema_id" validate:"omitempty,uuid"`
	Date     string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}

type HoldSeatsRequest struct {
	Seats []string `json:"seats" validate:"required,min=1,dive,required"`
}

type ReleaseSeatsRequest struct {
	Seats []string `json:"seats" validate:"omitempty,dive,required"`
}
