package request

type MovieRequest struct {
	Title           string   `json:"title" validate:"required,min=1,max=200"`
	Description     string   `json:"description" validate:"required,max=5000"`
	Poster          string   `json:"poster" validate:"omitempty,url"`
	Banner          string   `json:"banner" validate:"omitempty,url"`
	Rating          float64  `json:"rating" validate:"min=0,max=10"`
	DurationMinutes int      `json:"duration_minutes" validate:"omitempty,min=1,max=999"`
	ReleaseDate     string   `json:"release_date" validate:"omitempty,datetime=2006-01-02"`
	Genres          []string `json:"genres" validate:"omitempty,max=10,dive,min=1,max=50"`
	Language        string   `json:"language" validate:"omitempty,max=50"`
	Director        string   `json:"director" validate:"omitempty,max=100"`
	Cast            []string `json:"cast" validate:"omitempty,max=50,dive,min=1,max=100"`
	TrailerURL      string   `json:"trailer_url" validate:"omitempty,url"`
}

// MovieUpdateRequest changes only the fields present in the body.
type MovieUpdateRequest struct {
	Title           *string   `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Description     *string   `json:"description,omitempty" validate:"omitempty,max=5000"`
	Poster          *string   `json:"poster,omitempty" validate:"omitempty,url"`
	Banner          *string   `json:"banner,omitempty" validate:"omitempty,url"`
	Rating          *float64  `json:"rating,omitempty" validate:"omitempty,min=0,max=10"`
	DurationMinutes *int      `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=999"`
	ReleaseDate     *string   `json:"release_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Genres          *[]string `json:"genres,omitempty" validate:"omitempty,max=10,dive,min=1,max=50"`
	Language        *string   `json:"language,omitempty" validate:"omitempty,max=50"`
	Director        *string   `json:"director,omitempty" validate:"omitempty,max=100"`
	Cast            *[]string `json:"cast,omitempty" validate:"omitempty,max=50,dive,min=1,max=100"`
	TrailerURL      *string   `json:"trailer_url,omitempty" validate:"omitempty,url"`
}

type MovieListRequest struct {
	PaginatedRequest
	Query string `json:"q"`
	Genre string `json:"genre"`
}
