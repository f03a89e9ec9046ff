package forms

// Every form carries json tags (request field names), validate tags and a
// form tag with the prompt label. Fields tagged form:"-" are set by the
// console, not prompted.

type BranchForm struct {
	Name      string `json:"name" validate:"notblank" form:"Name"`
	Address   string `json:"address" validate:"notblank" form:"Address"`
	ExtraInfo string `json:"extra_info" form:"Extra info"`
}

type RoomForm struct {
	Name      string `json:"name" validate:"notblank" form:"Name"`
	Capacity  int    `json:"capacity" validate:"gte=1,lte=1000" form:"Capacity"`
	ExtraInfo string `json:"extra_info" form:"Extra info"`
	Branch    int64  `json:"branch" validate:"required" form:"-"`
}

type PaymentTypeForm struct {
	Name     string `json:"name" validate:"notblank" form:"Name"`
	IsActive bool   `json:"is_active" form:"Active (yes/no)"`
}

type StudentForm struct {
	FullName    string `json:"full_name" validate:"notblank" form:"Full name"`
	PhoneNumber string `json:"phone_number" validate:"phone" form:"Phone (998XXXXXXXXX)"`
	Gender      string `json:"gender" validate:"oneof=male female" form:"Gender (male/female)"`
	BirthDate   string `json:"birth_date,omitempty" validate:"omitempty,date" form:"Birth date (YYYY-MM-DD)"`
	Comment     string `json:"comment,omitempty" form:"Comment"`
	Branch      int64  `json:"branch,omitempty" form:"-"`
}

type TeacherForm struct {
	FullName       string `json:"full_name" validate:"notblank" form:"Full name"`
	PhoneNumber    string `json:"phone_number" validate:"phone" form:"Phone (998XXXXXXXXX)"`
	Password       string `json:"password,omitempty" validate:"omitempty,min=6" form:"Password"`
	EnrollmentDate string `json:"enrollment_date" validate:"date" form:"Enrollment date (YYYY-MM-DD)"`
	Salary         string `json:"salary,omitempty" validate:"omitempty,money" form:"Salary"`
	Percentage     string `json:"percentage,omitempty" validate:"omitempty,money" form:"Percentage"`
	Create         bool   `json:"-" form:"-"`
}

// DefaultTeacherPercentage is the pay share a new teacher gets when neither
// salary nor percentage is given.
const DefaultTeacherPercentage = "70"

// ApplyDefaults fills the pay share of a new teacher created without pay
// terms.
func (f *TeacherForm) ApplyDefaults() {
	if f.Create && f.Salary == "" && f.Percentage == "" {
		f.Percentage = DefaultTeacherPercentage
	}
}

// ApplyDefaults runs the form's own defaults, if it has any. form must be a
// pointer for the defaults to stick.
func ApplyDefaults(form any) {
	if d, ok := form.(interface{ ApplyDefaults() }); ok {
		d.ApplyDefaults()
	}
}

// StaffForm creates any user account. Roles are sent as the backend's
// is_ceo / is_admin / is_teacher flags.
type StaffForm struct {
	FullName       string `json:"full_name" validate:"notblank" form:"Full name"`
	PhoneNumber    string `json:"phone_number" validate:"phone" form:"Phone (998XXXXXXXXX)"`
	Password       string `json:"password,omitempty" validate:"omitempty,min=6" form:"Password"`
	EnrollmentDate string `json:"enrollment_date" validate:"date" form:"Enrollment date (YYYY-MM-DD)"`
	IsCEO          bool   `json:"is_ceo" form:"CEO (yes/no)"`
	IsAdmin        bool   `json:"is_admin" form:"Admin (yes/no)"`
	IsTeacher      bool   `json:"is_teacher" form:"Teacher (yes/no)"`
	Salary         string `json:"salary,omitempty" validate:"omitempty,money" form:"Salary"`
	Percentage     string `json:"percentage,omitempty" validate:"omitempty,money" form:"Percentage"`
	Create         bool   `json:"-" form:"-"`
}

type GroupForm struct {
	Name            string `json:"name" validate:"notblank" form:"Name"`
	Price           string `json:"price,omitempty" validate:"omitempty,money" form:"Price"`
	Teacher         int64  `json:"teacher" validate:"required" form:"Teacher ID"`
	Room            *int64 `json:"room" form:"Room ID"`
	StartDate       string `json:"start_date" validate:"date" form:"Start date (YYYY-MM-DD)"`
	EndDate         string `json:"end_date" validate:"date" form:"End date (YYYY-MM-DD)"`
	CourseStartTime string `json:"course_start_time" validate:"clock" form:"Lesson start (HH:MM)"`
	CourseEndTime   string `json:"course_end_time" validate:"clock" form:"Lesson end (HH:MM)"`
	Weekdays        string `json:"weekdays" validate:"weekdays" form:"Weekdays (e.g. 135)"`
	Color           string `json:"color" validate:"hexcolor" form:"Color (#RRGGBB)"`
	TextColor       string `json:"text_color" validate:"hexcolor" form:"Text color (#RRGGBB)"`
	Comment         string `json:"comment,omitempty" form:"Comment"`
	Branch          int64  `json:"branch,omitempty" form:"-"`
	Create          bool   `json:"-" form:"-"`
}

// Transaction types and categories accepted by the finance API.
const (
	Debit  = "DEBIT"
	Credit = "CREDIT"
)

var Categories = []string{"MONTHLY_FEE", "PAYMENT", "DISCOUNT", "BONUS", "REFUND", "OTHER_FEE"}

type PaymentForm struct {
	StudentGroup    int64  `json:"student_group" validate:"required" form:"Enrollment ID"`
	TransactionType string `json:"transaction_type" validate:"oneof=DEBIT CREDIT" form:"Type (DEBIT/CREDIT)"`
	Category        string `json:"category" validate:"oneof=MONTHLY_FEE PAYMENT DISCOUNT BONUS REFUND OTHER_FEE" form:"Category"`
	Amount          string `json:"amount" validate:"money" form:"Amount"`
	PaymentType     *int64 `json:"payment_type" form:"Payment type ID"`
	Comment         string `json:"comment" form:"Comment"`
}

type EnrollmentForm struct {
	Student  int64  `json:"student" validate:"required" form:"-"`
	Group    int64  `json:"group" validate:"required" form:"-"`
	JoinedAt string `json:"joined_at" validate:"date" form:"Joined at (YYYY-MM-DD)"`
	Price    string `json:"price,omitempty" validate:"omitempty,money" form:"Individual price (empty for group price)"`
}

type ProfileForm struct {
	FullName string `json:"full_name" validate:"notblank" form:"Full name"`
}

type PasswordForm struct {
	OldPassword     string `json:"old_password" validate:"required" form:"-"`
	NewPassword     string `json:"new_password" validate:"min=8" form:"-"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=NewPassword" form:"-"`
}
