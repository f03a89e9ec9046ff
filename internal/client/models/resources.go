package models

// Branch is an office of the education center.
type Branch struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	ExtraInfo  string `json:"extra_info"`
	IsArchived bool   `json:"is_archived"`
}

type Room struct {
	ID                int64  `json:"id"`
	Name              string `json:"name"`
	Branch            int64  `json:"branch"`
	Capacity          int    `json:"capacity"`
	ExtraInfo         string `json:"extra_info"`
	IsArchived        bool   `json:"is_archived"`
	ActiveGroupsCount int    `json:"active_groups_count"`
}

// StudentGroupInfo is the short group membership shown in the student list.
type StudentGroupInfo struct {
	Name    string `json:"name"`
	Teacher string `json:"teacher"`
}

type Student struct {
	ID           int64              `json:"id"`
	FullName     string             `json:"full_name"`
	PhoneNumber  Phone              `json:"phone_number"`
	ProfilePhoto string             `json:"profile_photo"`
	Gender       string             `json:"gender"`
	BirthDate    string             `json:"birth_date"`
	Comment      string             `json:"comment"`
	IsArchived   bool               `json:"is_archived"`
	BranchName   string             `json:"branch_name"`
	Groups       []StudentGroupInfo `json:"groups"`
	Balance      Decimal            `json:"balance"`
}

type Teacher struct {
	ID                  int64   `json:"id"`
	FullName            string  `json:"full_name"`
	PhoneNumber         Phone   `json:"phone_number"`
	ProfilePhoto        string  `json:"profile_photo"`
	IsActive            bool    `json:"is_active"`
	EnrollmentDate      string  `json:"enrollment_date"`
	Salary              Decimal `json:"salary"`
	Percentage          Decimal `json:"percentage"`
	ActiveGroupsCount   int     `json:"active_groups_count"`
	ActiveStudentsCount int     `json:"active_students_count"`
}

// Staff is any user account (CEO, admin or teacher) as listed on the staff screen.
type Staff struct {
	ID             int64    `json:"id"`
	FullName       string   `json:"full_name"`
	PhoneNumber    Phone    `json:"phone_number"`
	ProfilePhoto   string   `json:"profile_photo"`
	Roles          []string `json:"roles"`
	IsActive       bool     `json:"is_active"`
	IsCEO          bool     `json:"is_ceo"`
	IsAdmin        bool     `json:"is_admin"`
	IsTeacher      bool     `json:"is_teacher"`
	EnrollmentDate string   `json:"enrollment_date"`
	Salary         Decimal  `json:"salary"`
	Percentage     Decimal  `json:"percentage"`
}

type Group struct {
	ID              int64   `json:"id"`
	Name            string  `json:"name"`
	StartDate       string  `json:"start_date"`
	EndDate         string  `json:"end_date"`
	CourseStartTime string  `json:"course_start_time"`
	CourseEndTime   string  `json:"course_end_time"`
	Weekdays        string  `json:"weekdays"`
	Comment         string  `json:"comment"`
	IsArchived      bool    `json:"is_archived"`
	Color           string  `json:"color"`
	TextColor       string  `json:"text_color"`
	Teacher         int64   `json:"teacher"`
	Branch          int64   `json:"branch"`
	Room            *int64  `json:"room"`
	TeacherName     string  `json:"teacher_name"`
	BranchName      string  `json:"branch_name"`
	RoomName        string  `json:"room_name"`
	CurrentPrice    Decimal `json:"current_price"`
	StudentsCount   int     `json:"students_count"`
}

type PaymentType struct {
	ID                int64   `json:"id"`
	Name              string  `json:"name"`
	IsActive          bool    `json:"is_active"`
	CurrentMonthTotal Decimal `json:"current_month_total"`
	LastMonthTotal    Decimal `json:"last_month_total"`
}

// Payment is a finance transaction bound to a student's group enrollment.
type Payment struct {
	ID              int64   `json:"id"`
	StudentGroup    int64   `json:"student_group"`
	StudentName     string  `json:"student_name"`
	GroupName       string  `json:"group_name"`
	TransactionType string  `json:"transaction_type"`
	Category        string  `json:"category"`
	Amount          Decimal `json:"amount"`
	PaymentType     *int64  `json:"payment_type"`
	PaymentTypeName string  `json:"payment_type_name"`
	Comment         string  `json:"comment"`
	CreatedAt       string  `json:"created_at"`
}

// Enrollment links a student to a group.
type Enrollment struct {
	ID         int64   `json:"id"`
	Student    int64   `json:"student"`
	Group      int64   `json:"group"`
	GroupName  string  `json:"group_name"`
	JoinedAt   string  `json:"joined_at"`
	Price      Decimal `json:"price"`
	IsArchived bool    `json:"is_archived"`
}

// DashboardStats are the counters shown on the landing screen.
type DashboardStats struct {
	ActiveLeads       int `json:"active_leads"`
	Groups            int `json:"groups"`
	RemainingDebts    int `json:"remaining_debts"`
	Debtors           int `json:"debtors"`
	PaymentDueSoon    int `json:"payment_due_soon"`
	ActiveStudents    int `json:"active_students"`
	AttritionStudents int `json:"attrition_students"`
	Teachers          int `json:"teachers"`
	Admins            int `json:"admins"`
}

// SearchHit is one row of the global search.
type SearchHit struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}
