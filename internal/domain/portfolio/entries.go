package portfolio

type Education struct {
	ID           string `json:"id"`
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	Current      bool   `json:"current"`
	Description  string `json:"description"`
}

func (e Education) EntryID() string { return e.ID }

type Experience struct {
	ID          string `json:"id"`
	Company     string `json:"company"`
	Position    string `json:"position"`
	Location    string `json:"location"`
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Current     bool   `json:"current"`
	Description string `json:"description"`
}

func (e Experience) EntryID() string { return e.ID }

type Project struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Technologies  []string `json:"technologies"`
	URL           string   `json:"url"`
	RepositoryURL string   `json:"repository_url"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
}

func (p Project) EntryID() string { return p.ID }

type Certificate struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Issuer        string `json:"issuer"`
	IssueDate     string `json:"issue_date"`
	ExpiryDate    string `json:"expiry_date"`
	CredentialID  string `json:"credential_id"`
	CredentialURL string `json:"credential_url"`
}

func (c Certificate) EntryID() string { return c.ID }

type Skill struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Level    string `json:"level"`
	Category string `json:"category"`
}

func (s Skill) EntryID() string { return s.ID }

type SocialLink struct {
	ID       string `json:"id"`
	Platform string `json:"platform"`
	URL      string `json:"url"`
	Username string `json:"username"`
}

func (l SocialLink) EntryID() string { return l.ID }
