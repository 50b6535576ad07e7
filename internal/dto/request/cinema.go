package request

type CinemaRequest struct {
	Name       string   `json:"name" validate:"required,min=1,max=100"`
	Location   string   `json:"location" validate:"required,min=1,max=100"`
	Address    string   `json:"address" validate:"omitempty,max=300"`
	Screens    int      `json:"screens" validate:"required,min=1,max=50"`
	TotalSeats int      `json:"total_seats" validate:"omitempty,min=1,max=10000"`
	Amenities  []string `json:"amenities" validate:"omitempty,max=20,dive,min=1,max=50"`
	Contact    string   `json:"contact" validate:"omitempty,max=50"`
	Image      string   `json:"image" validate:"omitempty,url"`
}

type CinemaUpdateRequest struct {
	Name       *string   `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Location   *string   `json:"location,omitempty" validate:"omitempty,min=1,max=100"`
	Address    *string   `json:"address,omitempty" validate:"omitempty,max=300"`
	Screens    *int      `json:"screens,omitempty" validate:"omitempty,min=1,max=50"`
	TotalSeats *int      `json:"total_seats,omitempty" validate:"omitempty,min=1,max=10000"`
	Amenities  *[]string `json:"amenities,omitempty" validate:"omitempty,max=20,dive,min=1,max=50"`
	Contact    *string   `json:"contact,omitempty" validate:"omitempty,max=50"`
	Image      *string   `json:"image,omitempty" validate:"omitempty,url"`
}
