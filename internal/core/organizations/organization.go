package organizations

// Organization is a student organization that news posts can be attributed to
type Organization struct {
	Name             string `json:"name" db:"name"`
	Shorthand        string `json:"shorthand" db:"shorthand"`
	Slug             string `json:"slug" db:"slug"`
	Logo             string `json:"logo" db:"logo"`
	ShortDescription string `json:"short_description" db:"short_description"`
	LongDescription  string `json:"long_description" db:"long_description"`
	Website          string `json:"website" db:"website"`
	Email            string `json:"email" db:"email"`
	Instagram        string `json:"instagram" db:"instagram"`
	LinkedIn         string `json:"linked_in" db:"linked_in"`
	YouTube          string `json:"youtube" db:"youtube"`
	HeelLife         string `json:"heel_life" db:"heel_life"`
	ID               int64  `json:"id" db:"id"`
	Public           bool   `json:"public" db:"public"`
}

// CreateOrganizationRequest represents input for registering an organization
type CreateOrganizationRequest struct {
	Name             string `json:"name"`
	Shorthand        string `json:"shorthand"`
	Slug             string `json:"slug"`
	Logo             string `json:"logo"`
	ShortDescription string `json:"short_description"`
	LongDescription  string `json:"long_description"`
	Website          string `json:"website"`
	Email            string `json:"email"`
	Instagram        string `json:"instagram"`
	LinkedIn         string `json:"linked_in"`
	YouTube          string `json:"youtube"`
	HeelLife         string `json:"heel_life"`
	Public           bool   `json:"public"`
}
