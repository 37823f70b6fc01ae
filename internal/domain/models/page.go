package models

// FormMode tells whether the form creates a new record or edits an existing one.
type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)

// Tone selects how a notification is displayed.
type Tone string

const (
	ToneDark  Tone = "dark"
	ToneError Tone = "error"
)

// Stats holds the aggregate tiles shown above the table.
type Stats struct {
	Total      int    `json:"total"`
	Math       string `json:"stat_math"`
	Literature string `json:"stat_literature"`
	English    string `json:"stat_english"`
}

// FormValues are the raw string contents of the student form fields.
type FormValues struct {
	FirstName       string `json:"first_name" form:"first_name"`
	LastName        string `json:"last_name" form:"last_name"`
	Email           string `json:"email" form:"email"`
	DateOfBirth     string `json:"date_of_birth" form:"date_of_birth"`
	HomeTown        string `json:"home_town" form:"home_town"`
	MathScore       string `json:"math_score" form:"math_score"`
	LiteratureScore string `json:"literature_score" form:"literature_score"`
	EnglishScore    string `json:"english_score" form:"english_score"`
}

// FormState describes how the form should be drawn.
type FormState struct {
	Mode      FormMode   `json:"mode"`
	EditingID StudentID  `json:"editing_id,omitempty"`
	Title     string     `json:"title"`
	Subtitle  string     `json:"subtitle"`
	Values    FormValues `json:"values"`
}

// Row is one display-ready table row.
type Row struct {
	ID              StudentID `json:"student_id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	DateOfBirth     string    `json:"date_of_birth"`
	HomeTown        string    `json:"home_town"`
	MathScore       string    `json:"math_score"`
	LiteratureScore string    `json:"literature_score"`
	EnglishScore    string    `json:"english_score"`
}

// Table is either a list of rows or a single placeholder message.
type Table struct {
	Rows        []Row  `json:"rows"`
	Placeholder string `json:"placeholder,omitempty"`
}

// Notification is a transient toast raised after an action.
type Notification struct {
	Message string `json:"message"`
	Tone    Tone   `json:"tone"`
}

// Confirmation asks the user to approve a destructive action.
type Confirmation struct {
	Prompt    string    `json:"prompt"`
	StudentID StudentID `json:"student_id"`
}

// Page is the complete description of the UI after a command ran.
type Page struct {
	Stats        Stats         `json:"stats"`
	Table        Table         `json:"table"`
	Form         FormState     `json:"form"`
	Query        string        `json:"query"`
	Notification *Notification `json:"notification,omitempty"`
	Confirm      *Confirmation `json:"confirm,omitempty"`
}
