package entity

const DefaultCinemaSeats = 100

type Cinema struct {
	Base
	Name       string   `db:"name" json:"name"`
	Location   string   `db:"location" json:"location"`
	Address    string   `db:"address" json:"address"`
	Screens    int      `db:"screens" json:"screens"`
	TotalSeats int      `db:"total_seats" json:"total_seats"`
	Amenities  []string `db:"amenities" json:"amenities"`
	Contact    string   `db:"contact" json:"contact"`
	Image      string   `db:"image" json:"image"`
}
