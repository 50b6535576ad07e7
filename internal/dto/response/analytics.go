package response

type AnalyticsOverview struct {
	TotalCinemas   int64            `json:"total_cinemas"`
	TotalMovies    int64            `json:"total_movies"`
	TotalShowtimes int64            `json:"total_showtimes"`
	TotalBookings  int64            `json:"total_bookings"`
	TotalRevenue   float64          `json:"total_revenue"`
	CinemaBookings map[string]int64 `json:"cinema_bookings"`
	MovieBookings  map[string]int64 `json:"movie_bookings"`
}

type RevenuePoint struct {
	Date    string  `json:"date"`
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

type UsersPoint struct {
	Date  string `json:"date"`
	Label string `json:"label"`
	Users int    `json:"users"`
}

type MoviePerformance struct {
	MovieID  string  `json:"movie_id"`
	Title    string  `json:"title"`
	Poster   string  `json:"poster"`
	Bookings int     `json:"bookings"`
	Seats    int     `json:"seats"`
	Revenue  float64 `json:"revenue"`
}
