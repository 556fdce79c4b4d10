package usecase

type SignupInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Language    string `json:"language"`
	Level       string `json:"level,omitempty"`
	Frustration string `json:"frustration,omitempty"`

	// Provenance, captured from the request context by the handler.
	// Never taken from the JSON body.
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type SignupOutput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Language string `json:"language"`
}

type StatsOutput struct {
	TotalSignups int            `json:"total_signups"`
	Languages    map[string]int `json:"languages"`
}
