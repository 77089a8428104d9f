package portfolio

import (
	"errors"
	"fmt"

	"github.com/khoahotran/career-studio/internal/domain/collection"
)

type SectionName string

const (
	SectionEducation    SectionName = "education"
	SectionExperience   SectionName = "experience"
	SectionProjects     SectionName = "projects"
	SectionCertificates SectionName = "certificates"
	SectionSkills       SectionName = "skills"
	SectionSocialLinks  SectionName = "social_links"
)

var ErrUnknownSection = errors.New("unknown section")

// Section exposes the collection editor of one portfolio collection without
// its type parameter, so callers can pick a section by name.
type Section interface {
	Name() SectionName
	Spec() collection.SchemaSpec
	Entries(p *Portfolio) any
	IDs(p *Portfolio) []string
	Entry(p *Portfolio, id string) (any, bool)
	Add(p *Portfolio, open *collection.Disclosure) (id string, entry any)
	Update(p *Portfolio, open *collection.Disclosure, id, field string, value any) (bool, error)
	Remove(p *Portfolio, open *collection.Disclosure, id string) bool
	Toggle(p *Portfolio, open *collection.Disclosure, id string) bool
	Issues(p *Portfolio) map[string][]collection.Issue
	EntryIssues(p *Portfolio, id string) []collection.Issue
}

type section[T collection.Entry] struct {
	name    SectionName
	schema  *collection.Schema[T]
	factory collection.Factory[T]
	ids     collection.IDSource
	ref     func(*Portfolio) *[]T
}

func (s *section[T]) editor(p *Portfolio, open *collection.Disclosure) *collection.Editor[T] {
	data := s.ref(p)
	return collection.NewEditor(collection.EditorConfig[T]{
		Schema:   s.schema,
		Factory:  s.factory,
		IDs:      s.ids,
		Data:     *data,
		Open:     open,
		OnChange: func(next []T) { *data = next },
	})
}

func (s *section[T]) Name() SectionName { return s.name }

func (s *section[T]) Spec() collection.SchemaSpec { return s.schema.Spec() }

func (s *section[T]) Entries(p *Portfolio) any { return *s.ref(p) }

func (s *section[T]) IDs(p *Portfolio) []string { return collection.IDs(*s.ref(p)) }

func (s *section[T]) Entry(p *Portfolio, id string) (any, bool) {
	return collection.Find(*s.ref(p), id)
}

func (s *section[T]) Add(p *Portfolio, open *collection.Disclosure) (string, any) {
	entry := s.editor(p, open).Add()
	return entry.EntryID(), entry
}

func (s *section[T]) Update(p *Portfolio, open *collection.Disclosure, id, field string, value any) (bool, error) {
	return s.editor(p, open).Update(id, field, value)
}

func (s *section[T]) Remove(p *Portfolio, open *collection.Disclosure, id string) bool {
	return s.editor(p, open).Remove(id)
}

func (s *section[T]) Toggle(p *Portfolio, open *collection.Disclosure, id string) bool {
	return s.editor(p, open).Toggle(id)
}

func (s *section[T]) Issues(p *Portfolio) map[string][]collection.Issue {
	return s.editor(p, nil).Issues()
}

func (s *section[T]) EntryIssues(p *Portfolio, id string) []collection.Issue {
	entry, ok := collection.Find(*s.ref(p), id)
	if !ok {
		return nil
	}
	return s.schema.Issues(entry)
}

// Sections is the registry of every repeatable portfolio section.
type Sections struct {
	order  []Section
	byName map[SectionName]Section
}

func NewSections(ids collection.IDSource) *Sections {
	all := []Section{
		&section[Education]{
			name: SectionEducation, schema: EducationSchema, ids: ids,
			factory: func(id string) Education { return Education{ID: id} },
			ref:     func(p *Portfolio) *[]Education { return &p.Education },
		},
		&section[Experience]{
			name: SectionExperience, schema: ExperienceSchema, ids: ids,
			factory: func(id string) Experience { return Experience{ID: id} },
			ref:     func(p *Portfolio) *[]Experience { return &p.Experience },
		},
		&section[Project]{
			name: SectionProjects, schema: ProjectSchema, ids: ids,
			factory: func(id string) Project { return Project{ID: id, Technologies: []string{}} },
			ref:     func(p *Portfolio) *[]Project { return &p.Projects },
		},
		&section[Certificate]{
			name: SectionCertificates, schema: CertificateSchema, ids: ids,
			factory: func(id string) Certificate { return Certificate{ID: id} },
			ref:     func(p *Portfolio) *[]Certificate { return &p.Certificates },
		},
		&section[Skill]{
			name: SectionSkills, schema: SkillSchema, ids: ids,
			factory: func(id string) Skill { return Skill{ID: id} },
			ref:     func(p *Portfolio) *[]Skill { return &p.Skills },
		},
		&section[SocialLink]{
			name: SectionSocialLinks, schema: SocialLinkSchema, ids: ids,
			factory: func(id string) SocialLink { return SocialLink{ID: id} },
			ref:     func(p *Portfolio) *[]SocialLink { return &p.SocialLinks },
		},
	}

	s := &Sections{order: all, byName: make(map[SectionName]Section, len(all))}
	for _, sec := range all {
		s.byName[sec.Name()] = sec
	}
	return s
}

func (s *Sections) Get(name string) (Section, error) {
	sec, ok := s.byName[SectionName(name)]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSection, name)
	}
	return sec, nil
}

// All returns the sections in display order.
func (s *Sections) All() []Section {
	return s.order
}

// SetPersonalField edits one field of the personal info record.
func SetPersonalField(p *Portfolio, field string, value any) error {
	next, err := PersonalInfoSchema.Set(p.PersonalInfo, field, value)
	if err != nil {
		return err
	}
	p.PersonalInfo = next
	return nil
}

// Review collects every non-blocking issue of a portfolio.
type Review struct {
	PersonalInfo []collection.Issue                            `json:"personal_info"`
	Sections     map[SectionName]map[string][]collection.Issue `json:"sections"`
}

func (r Review) Empty() bool {
	return len(r.PersonalInfo) == 0 && len(r.Sections) == 0
}

func (s *Sections) Review(p *Portfolio) Review {
	r := Review{
		PersonalInfo: PersonalInfoSchema.Issues(p.PersonalInfo),
		Sections:     make(map[SectionName]map[string][]collection.Issue),
	}
	for _, sec := range s.order {
		if issues := sec.Issues(p); len(issues) > 0 {
			r.Sections[sec.Name()] = issues
		}
	}
	return r
}
