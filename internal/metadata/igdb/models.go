package igdb

// Named is a reference entity carrying only id and display name.
type Named struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// InvolvedCompany links a game to a company in a given role.
type InvolvedCompany struct {
	ID        int   `json:"id"`
	Company   Named `json:"company"`
	Developer bool  `json:"developer"`
	Publisher bool  `json:"publisher"`
}

// Image is a screenshot or artwork reference.
type Image struct {
	ID  int    `json:"id"`
	URL string `json:"url"`
}

// Video is a video reference (VideoID is the hosting site's id).
type Video struct {
	ID      int    `json:"id"`
	VideoID string `json:"video_id"`
	Name    string `json:"name"`
}

// Game is the IGDB game record, limited to the fields the fusion layer reads.
type Game struct {
	ID                int               `json:"id"`
	Name              string            `json:"name"`
	Summary           string            `json:"summary,omitempty"`
	Storyline         string            `json:"storyline,omitempty"`
	FirstReleaseDate  int64             `json:"first_release_date,omitempty"`
	Genres            []Named           `json:"genres,omitempty"`
	Platforms         []Named           `json:"platforms,omitempty"`
	InvolvedCompanies []InvolvedCompany `json:"involved_companies,omitempty"`
	Screenshots       []Image           `json:"screenshots,omitempty"`
	Videos            []Video           `json:"videos,omitempty"`
}

// DeveloperNames returns the names of companies credited in the developer role.
func (g *Game) DeveloperNames() []string {
	return g.companyNames(func(c InvolvedCompany) bool { return c.Developer })
}

// PublisherNames returns the names of companies credited in the publisher role.
func (g *Game) PublisherNames() []string {
	return g.companyNames(func(c InvolvedCompany) bool { return c.Publisher })
}

func (g *Game) companyNames(keep func(InvolvedCompany) bool) []string {
	names := make([]string, 0, len(g.InvolvedCompanies))
	for _, c := range g.InvolvedCompanies {
		if keep(c) && c.Company.Name != "" {
			names = append(names, c.Company.Name)
		}
	}
	return names
}
