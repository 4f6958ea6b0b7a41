package rawg

// Genre is a RAWG genre reference.
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Platform is a RAWG platform reference.
type Platform struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug,omitempty"`
}

// Company is a developer or publisher reference.
type Company struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Screenshot is a single screenshot reference.
type Screenshot struct {
	ID    int    `json:"id"`
	Image string `json:"image"`
}

// Game is a RAWG listing entry.
type Game struct {
	ID               int          `json:"id"`
	Slug             string       `json:"slug"`
	Name             string       `json:"name"`
	Released         string       `json:"released,omitempty"`
	BackgroundImage  string       `json:"background_image,omitempty"`
	Rating           float64      `json:"rating,omitempty"`
	Metacritic       int          `json:"metacritic,omitempty"`
	Genres           []Genre      `json:"genres,omitempty"`
	ShortScreenshots []Screenshot `json:"short_screenshots,omitempty"`
}

// GameDetails is the full single-game record.
type GameDetails struct {
	ID               int            `json:"id"`
	Slug             string         `json:"slug"`
	Name             string         `json:"name"`
	DescriptionRaw   string         `json:"description_raw,omitempty"`
	Released         string         `json:"released,omitempty"`
	BackgroundImage  string         `json:"background_image,omitempty"`
	Website          string         `json:"website,omitempty"`
	Rating           float64        `json:"rating,omitempty"`
	Metacritic       int            `json:"metacritic,omitempty"`
	Genres           []Genre        `json:"genres,omitempty"`
	Platforms        []GamePlatform `json:"platforms,omitempty"`
	Developers       []Company      `json:"developers,omitempty"`
	Publishers       []Company      `json:"publishers,omitempty"`
	ShortScreenshots []Screenshot   `json:"short_screenshots,omitempty"`
}

// GamePlatform wraps the platform entry on a game record.
type GamePlatform struct {
	Platform Platform `json:"platform"`
}

// MovieData holds the playable URLs of a trailer by quality.
type MovieData struct {
	Max  string `json:"max,omitempty"`
	Q480 string `json:"480,omitempty"`
}

// Movie is a RAWG trailer entry.
type Movie struct {
	ID      int       `json:"id"`
	Name    string    `json:"name"`
	Preview string    `json:"preview,omitempty"`
	Data    MovieData `json:"data"`
}

// GamesPage is the listing response envelope.
type GamesPage struct {
	Count    int     `json:"count"`
	Next     *string `json:"next,omitempty"`
	Previous *string `json:"previous,omitempty"`
	Results  []Game  `json:"results"`
}

// screenshotsResponse is the screenshots listing envelope.
type screenshotsResponse struct {
	Count   int          `json:"count"`
	Results []Screenshot `json:"results"`
}

// moviesResponse is the trailer listing envelope.
type moviesResponse struct {
	Count   int     `json:"count"`
	Results []Movie `json:"results"`
}

// platformsResponse is the platform reference listing envelope.
type platformsResponse struct {
	Count   int        `json:"count"`
	Results []Platform `json:"results"`
}

// genresResponse is the genre reference listing envelope.
type genresResponse struct {
	Count   int     `json:"count"`
	Results []Genre `json:"results"`
}

// FilterCriteria holds the recognized catalog filter options. Zero-valued
// fields are omitted from the provider query entirely.
type FilterCriteria struct {
	Platforms  []int  `json:"platforms,omitempty"`  // platform id list
	Genres     []int  `json:"genres,omitempty"`     // genre id list
	Ordering   string `json:"ordering,omitempty"`   // e.g. "-rating", "-released"
	Search     string `json:"search,omitempty"`     // free-text search
	Dates      string `json:"dates,omitempty"`      // "YYYY-MM-DD,YYYY-MM-DD" range
	Metacritic string `json:"metacritic,omitempty"` // minimum critic score, e.g. "80,100"
	PageSize   int    `json:"pageSize,omitempty"`   // default 20
}
