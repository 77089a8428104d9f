package portfolio

import c "github.com/khoahotran/career-studio/internal/domain/collection"

var EducationSchema = c.NewSchema("education",
	c.Text("institution", "Institution", true, func(e *Education) *string { return &e.Institution }),
	c.Text("degree", "Degree", true, func(e *Education) *string { return &e.Degree }),
	c.Text("field_of_study", "Field of study", false, func(e *Education) *string { return &e.FieldOfStudy }),
	c.Month("start_date", "Start date", true, func(e *Education) *string { return &e.StartDate }),
	c.Month("end_date", "End date", false, func(e *Education) *string { return &e.EndDate }),
	c.Bool("current", "Currently studying", func(e *Education) *bool { return &e.Current }),
	c.LongText("description", "Description", false, func(e *Education) *string { return &e.Description }),
)

var ExperienceSchema = c.NewSchema("experience",
	c.Text("company", "Company", true, func(e *Experience) *string { return &e.Company }),
	c.Text("position", "Position", true, func(e *Experience) *string { return &e.Position }),
	c.Text("location", "Location", false, func(e *Experience) *string { return &e.Location }),
	c.Month("start_date", "Start date", true, func(e *Experience) *string { return &e.StartDate }),
	c.Month("end_date", "End date", false, func(e *Experience) *string { return &e.EndDate }),
	c.Bool("current", "Currently working here", func(e *Experience) *bool { return &e.Current }),
	c.LongText("description", "Description", false, func(e *Experience) *string { return &e.Description }),
)

var ProjectSchema = c.NewSchema("project",
	c.Text("name", "Project name", true, func(p *Project) *string { return &p.Name }),
	c.LongText("description", "Description", false, func(p *Project) *string { return &p.Description }),
	c.Tags("technologies", "Technologies", false, func(p *Project) *[]string { return &p.Technologies }),
	c.URL("url", "Live URL", false, func(p *Project) *string { return &p.URL }),
	c.URL("repository_url", "Repository URL", false, func(p *Project) *string { return &p.RepositoryURL }),
	c.Month("start_date", "Start date", false, func(p *Project) *string { return &p.StartDate }),
	c.Month("end_date", "End date", false, func(p *Project) *string { return &p.EndDate }),
)

var CertificateSchema = c.NewSchema("certificate",
	c.Text("name", "Certificate name", true, func(x *Certificate) *string { return &x.Name }),
	c.Text("issuer", "Issuing organization", true, func(x *Certificate) *string { return &x.Issuer }),
	c.Month("issue_date", "Issue date", false, func(x *Certificate) *string { return &x.IssueDate }),
	c.Month("expiry_date", "Expiry date", false, func(x *Certificate) *string { return &x.ExpiryDate }),
	c.Text("credential_id", "Credential ID", false, func(x *Certificate) *string { return &x.CredentialID }),
	c.URL("credential_url", "Credential URL", false, func(x *Certificate) *string { return &x.CredentialURL }),
)

var SkillSchema = c.NewSchema("skill",
	c.Text("name", "Skill", true, func(s *Skill) *string { return &s.Name }),
	c.Text("level", "Level", false, func(s *Skill) *string { return &s.Level }),
	c.Text("category", "Category", false, func(s *Skill) *string { return &s.Category }),
)

var SocialLinkSchema = c.NewSchema("social_link",
	c.Text("platform", "Platform", true, func(l *SocialLink) *string { return &l.Platform }),
	c.URL("url", "Profile URL", true, func(l *SocialLink) *string { return &l.URL }),
	c.Text("username", "Username", false, func(l *SocialLink) *string { return &l.Username }),
)

// PersonalInfoSchema reuses the field machinery for the single personal info
// record. It is never placed in a collection.
var PersonalInfoSchema = c.NewSchema("personal_info",
	c.Text("full_name", "Full name", true, func(p *PersonalInfo) *string { return &p.FullName }),
	c.Text("headline", "Headline", false, func(p *PersonalInfo) *string { return &p.Headline }),
	c.Text("email", "Email", false, func(p *PersonalInfo) *string { return &p.Email }),
	c.Text("phone", "Phone", false, func(p *PersonalInfo) *string { return &p.Phone }),
	c.Text("location", "Location", false, func(p *PersonalInfo) *string { return &p.Location }),
	c.LongText("summary", "Summary", false, func(p *PersonalInfo) *string { return &p.Summary }),
	c.URL("website", "Website", false, func(p *PersonalInfo) *string { return &p.Website }),
	c.URL("avatar_url", "Avatar", false, func(p *PersonalInfo) *string { return &p.AvatarURL }),
)
