// Package resume defines the canonical structured schema that parsed
// resumes are extracted into, along with its JSON schema for validating
// model output.
package resume

// Record is the canonical resume structure. Every field is present in the
// serialized form whether it was populated by the model or substituted as
// the empty fallback, so consumers never branch on missing keys.
type Record struct {
	Basics       Basics        `json:"basics"`
	Work         []Work        `json:"work"`
	Education    []Education   `json:"education"`
	Skills       Skills        `json:"skills"`
	Projects     []Project     `json:"projects"`
	Volunteer    []Volunteer   `json:"volunteer"`
	Awards       []Award       `json:"awards"`
	Certificates []Certificate `json:"certificates"`
	Publications []Publication `json:"publications"`
	Languages    []Language    `json:"languages"`
	Interests    []Interest    `json:"interests"`
	References   []Reference   `json:"references"`
}

// Basics holds contact and summary information.
type Basics struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Website  string `json:"website"`
	LinkedIn string `json:"linkedin"`
	Summary  string `json:"summary"`
}

// Work is a single employment entry.
type Work struct {
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Description string   `json:"description"`
	Highlights  []string `json:"highlights"`
}

// Education is a single education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa"`
	Description string `json:"description"`
}

// Skills groups skills into four fixed categories.
type Skills struct {
	Technical            []string `json:"technical"`
	Professional         []string `json:"professional"`
	LanguagesProgramming []string `json:"languages_programming"`
	Tools                []string `json:"tools"`
}

// Project is a single project entry.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	URL          string   `json:"url"`
	Highlights   []string `json:"highlights"`
}

// Volunteer is a single volunteer entry.
type Volunteer struct {
	Organization string   `json:"organization"`
	Position     string   `json:"position"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Description  string   `json:"description"`
	Highlights   []string `json:"highlights"`
}

// Award is a single award entry.
type Award struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Awarder     string `json:"awarder"`
	Description string `json:"description"`
}

// Certificate is a single certification entry.
type Certificate struct {
	Name        string `json:"name"`
	Issuer      string `json:"issuer"`
	Date        string `json:"date"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Publication is a single publication entry.
type Publication struct {
	Title       string `json:"title"`
	Publisher   string `json:"publisher"`
	Date        string `json:"date"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Language is a spoken language entry.
type Language struct {
	Language string `json:"language"`
	Fluency  string `json:"fluency"`
}

// Interest is a single interest entry.
type Interest struct {
	Name     string   `json:"name"`
	Keywords []string `json:"keywords"`
}

// Reference is a single reference entry.
type Reference struct {
	Name         string `json:"name"`
	Position     string `json:"position"`
	Company      string `json:"company"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// EmptyRecord returns the canonical empty fallback. All lists are non-nil
// so the serialized shape is identical to a populated record.
func EmptyRecord() Record {
	return Record{
		Basics: Basics{},
		Work:   []Work{},
		Skills: Skills{
			Technical:            []string{},
			Professional:         []string{},
			LanguagesProgramming: []string{},
			Tools:                []string{},
		},
		Education:    []Education{},
		Projects:     []Project{},
		Volunteer:    []Volunteer{},
		Awards:       []Award{},
		Certificates: []Certificate{},
		Publications: []Publication{},
		Languages:    []Language{},
		Interests:    []Interest{},
		References:   []Reference{},
	}
}

// Normalize replaces nil lists with empty ones so a record decoded from
// model output serializes with the same shape as EmptyRecord.
func (r *Record) Normalize() {
	if r.Work == nil {
		r.Work = []Work{}
	}
	for i := range r.Work {
		if r.Work[i].Highlights == nil {
			r.Work[i].Highlights = []string{}
		}
	}
	if r.Education == nil {
		r.Education = []Education{}
	}
	if r.Skills.Technical == nil {
		r.Skills.Technical = []string{}
	}
	if r.Skills.Professional == nil {
		r.Skills.Professional = []string{}
	}
	if r.Skills.LanguagesProgramming == nil {
		r.Skills.LanguagesProgramming = []string{}
	}
	if r.Skills.Tools == nil {
		r.Skills.Tools = []string{}
	}
	if r.Projects == nil {
		r.Projects = []Project{}
	}
	for i := range r.Projects {
		if r.Projects[i].Technologies == nil {
			r.Projects[i].Technologies = []string{}
		}
		if r.Projects[i].Highlights == nil {
			r.Projects[i].Highlights = []string{}
		}
	}
	if r.Volunteer == nil {
		r.Volunteer = []Volunteer{}
	}
	for i := range r.Volunteer {
		if r.Volunteer[i].Highlights == nil {
			r.Volunteer[i].Highlights = []string{}
		}
	}
	if r.Awards == nil {
		r.Awards = []Award{}
	}
	if r.Certificates == nil {
		r.Certificates = []Certificate{}
	}
	if r.Publications == nil {
		r.Publications = []Publication{}
	}
	if r.Languages == nil {
		r.Languages = []Language{}
	}
	if r.Interests == nil {
		r.Interests = []Interest{}
	}
	for i := range r.Interests {
		if r.Interests[i].Keywords == nil {
			r.Interests[i].Keywords = []string{}
		}
	}
	if r.References == nil {
		r.References = []Reference{}
	}
}

// SectionCounts returns per-section entry counts. Display-only; never part
// of the serialized record.
func (r *Record) SectionCounts() map[string]int {
	return map[string]int{
		"work":         len(r.Work),
		"education":    len(r.Education),
		"projects":     len(r.Projects),
		"volunteer":    len(r.Volunteer),
		"awards":       len(r.Awards),
		"certificates": len(r.Certificates),
		"publications": len(r.Publications),
		"languages":    len(r.Languages),
		"interests":    len(r.Interests),
		"references":   len(r.References),
	}
}
