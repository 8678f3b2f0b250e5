package domain

import "time"

type ID string

type Role string

const (
	RoleJobSeeker Role = "job-seeker"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// User is the stored account. RefreshTokenHash is empty when no session is
// active.
type User struct {
	ID               ID
	Name             string
	Email            string
	PasswordHash     string
	Role             Role
	RefreshTokenHash string
	Profile          Profile
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type Education struct {
	Institution string   `json:"institution,omitempty" validate:"max=200"`
	Course      string   `json:"course,omitempty" validate:"max=200"`
	Grade       *float64 `json:"grade,omitempty"`
}

type Internship struct {
	Company     string `json:"company,omitempty" validate:"max=200"`
	Role        string `json:"role,omitempty" validate:"max=200"`
	Duration    string `json:"duration,omitempty" validate:"max=100"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

type Project struct {
	Title        string   `json:"title,omitempty" validate:"max=200"`
	Description  string   `json:"description,omitempty" validate:"max=2000"`
	Technologies []string `json:"technologies,omitempty" validate:"max=50,dive,max=100"`
	Link         string   `json:"link,omitempty" validate:"omitempty,url"`
}

// Achievement covers both certifications and awards.
type Achievement struct {
	Title  string `json:"title,omitempty" validate:"max=200"`
	Issuer string `json:"issuer,omitempty" validate:"max=200"`
	Date   string `json:"date,omitempty" validate:"max=50"`
}

// Profile is persisted as one JSONB document.
type Profile struct {
	Skills    []string `json:"skills,omitempty"`
	ResumeURL string   `json:"resumeUrl,omitempty"`
	Location  string   `json:"location,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	DOB       string   `json:"dob,omitempty"`
	Phone     string   `json:"phone,omitempty"`
	Languages []string `json:"languages,omitempty"`
	Bio       string   `json:"bio,omitempty"`

	Education      []Education   `json:"education,omitempty"`
	Internships    []Internship  `json:"internships,omitempty"`
	Projects       []Project     `json:"projects,omitempty"`
	Certifications []Achievement `json:"certifications,omitempty"`
	Awards         []Achievement `json:"awards,omitempty"`
	Clubs          []string      `json:"clubs,omitempty"`

	Company        string `json:"company,omitempty"`
	Position       string `json:"position,omitempty"`
	Industry       string `json:"industry,omitempty"`
	CompanyWebsite string `json:"companyWebsite,omitempty"`
}

// Summary is the creator/applicant view embedded in job and application
// responses.
type Summary struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// View is a user without credentials.
type View struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	Profile   Profile   `json:"profile"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u User) View() View {
	return View{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func (u User) Summary() Summary {
	return Summary{ID: u.ID, Name: u.Name, Email: u.Email}
}
