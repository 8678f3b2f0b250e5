package domain

// ProfileUpdate lists every field a user may change on their own profile.
// Nil means unchanged. Email, role and credentials are not editable here.
type ProfileUpdate struct {
	Name      *string   `json:"name" validate:"omitempty,min=1,max=100"`
	Skills    *[]string `json:"skills" validate:"omitempty,max=100,dive,max=100"`
	ResumeURL *string   `json:"resumeUrl" validate:"omitempty,max=2048"`
	Location  *string   `json:"location" validate:"omitempty,max=200"`
	Gender    *string   `json:"gender" validate:"omitempty,max=50"`
	DOB       *string   `json:"dob" validate:"omitempty,max=50"`
	Phone     *string   `json:"phone" validate:"omitempty,max=50"`
	Languages *[]string `json:"languages" validate:"omitempty,max=50,dive,max=100"`
	Bio       *string   `json:"bio" validate:"omitempty,max=200"`

	Education      *[]Education   `json:"education" validate:"omitempty,max=50,dive"`
	Internships    *[]Internship  `json:"internships" validate:"omitempty,max=50,dive"`
	Projects       *[]Project     `json:"projects" validate:"omitempty,max=50,dive"`
	Certifications *[]Achievement `json:"certifications" validate:"omitempty,max=50,dive"`
	Awards         *[]Achievement `json:"awards" validate:"omitempty,max=50,dive"`
	Clubs          *[]string      `json:"clubs" validate:"omitempty,max=50,dive,max=100"`

	Company        *string `json:"company" validate:"omitempty,max=200"`
	Position       *string `json:"position" validate:"omitempty,max=200"`
	Industry       *string `json:"industry" validate:"omitempty,max=200"`
	CompanyWebsite *string `json:"companyWebsite" validate:"omitempty,max=2048"`
}

// RecruiterFields returns the json names of recruiter-only fields that are
// set on u.
func (u ProfileUpdate) RecruiterFields() []string {
	var set []string
	if u.Company != nil {
		set = append(set, "company")
	}
	if u.Position != nil {
		set = append(set, "position")
	}
	if u.Industry != nil {
		set = append(set, "industry")
	}
	if u.CompanyWebsite != nil {
		set = append(set, "companyWebsite")
	}
	return set
}

// Apply merges the set fields into user.
func (u ProfileUpdate) Apply(user *User) {
	setString(&user.Name, u.Name)
	p := &user.Profile

	setSlice(&p.Skills, u.Skills)
	setString(&p.ResumeURL, u.ResumeURL)
	setString(&p.Location, u.Location)
	setString(&p.Gender, u.Gender)
	setString(&p.DOB, u.DOB)
	setString(&p.Phone, u.Phone)
	setSlice(&p.Languages, u.Languages)
	setString(&p.Bio, u.Bio)

	setSlice(&p.Education, u.Education)
	setSlice(&p.Internships, u.Internships)
	setSlice(&p.Projects, u.Projects)
	setSlice(&p.Certifications, u.Certifications)
	setSlice(&p.Awards, u.Awards)
	setSlice(&p.Clubs, u.Clubs)

	setString(&p.Company, u.Company)
	setString(&p.Position, u.Position)
	setString(&p.Industry, u.Industry)
	setString(&p.CompanyWebsite, u.CompanyWebsite)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setSlice[T any](dst *[]T, src *[]T) {
	if src != nil {
		*dst = *src
	}
}
