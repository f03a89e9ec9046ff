package cli

import (
	"context"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/eduadmin/internal/client/access"
	"github.com/dmitrijs2005/eduadmin/internal/client/forms"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
	"github.com/dmitrijs2005/eduadmin/internal/client/popup"
)

// resourceScreens maps list route names to screen factories.
func (a *App) resourceScreens() map[string]func() screen {
	return map[string]func() screen{
		"students":      func() screen { return newResourceScreen(a, a.studentsDef()) },
		"teachers":      func() screen { return newResourceScreen(a, a.teachersDef()) },
		"staff":         func() screen { return newResourceScreen(a, a.staffDef()) },
		"groups":        func() screen { return newResourceScreen(a, a.groupsDef()) },
		"payments":      func() screen { return newResourceScreen(a, a.paymentsDef()) },
		"rooms":         func() screen { return newResourceScreen(a, a.roomsDef()) },
		"branches":      func() screen { return newResourceScreen(a, a.branchesDef()) },
		"payment-types": func() screen { return newResourceScreen(a, a.paymentTypesDef()) },
		"my-groups":     func() screen { return newResourceScreen(a, a.myGroupsDef()) },
		"my-students":   func() screen { return newResourceScreen(a, a.myStudentsDef()) },
	}
}

// userIDText is the signed-in user's id as a filter value.
func (a *App) userIDText() string {
	if id := a.identity(); id != nil {
		return strconv.FormatInt(id.UserID, 10)
	}
	return ""
}

// myGroupsDef is the teacher's read-only view of the groups they teach.
func (a *App) myGroupsDef() resourceDef[models.Group] {
	def := a.groupsDef()
	def.heading = "My groups"
	def.filters = []string{"search", "is_archived", "branch"}
	def.fixed = map[string]string{"teacher": a.userIDText()}
	def.readOnly = true
	def.newForm, def.editForm, def.extra = nil, nil, nil
	return def
}

// myStudentsDef is the teacher's read-only view of the students in their
// groups.
func (a *App) myStudentsDef() resourceDef[models.Student] {
	def := a.studentsDef()
	def.heading = "My students"
	def.filters = slices.DeleteFunc(slices.Clone(def.filters), func(k string) bool { return k == "teacher_id" })
	def.fixed = map[string]string{"teacher_id": a.userIDText()}
	def.readOnly = true
	def.photo = false
	def.newForm, def.editForm, def.extra = nil, nil, nil
	return def
}

// branchOrZero is the selected branch id for new records, 0 when unset.
func (a *App) branchOrZero() int64 {
	id, _ := a.selectedBranch()
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// clock trims the backend's HH:MM:SS to HH:MM.
func clock(s string) string {
	if len(s) > 5 {
		return s[:5]
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// filterList opens a list screen and narrows it to one filter value.
func (a *App) filterList(ctx context.Context, path, key, value string) error {
	if err := a.Navigate(ctx, path); err != nil {
		return err
	}
	return a.Filter(ctx, key, value)
}

func (a *App) studentsDef() resourceDef[models.Student] {
	return resourceDef[models.Student]{
		noun:       "student",
		heading:    "Students",
		svc:        a.services.Students,
		filters:    []string{"search", "is_archived", "branch", "group_status", "payment_status", "group_id", "teacher_id"},
		archivable: true,
		photo:      true,
		columns:    []string{"NAME", "PHONE", "GROUPS", "BALANCE"},
		row: func(s models.Student) []string {
			names := make([]string, len(s.Groups))
			for i, g := range s.Groups {
				names[i] = g.Name
			}
			return []string{s.FullName, string(s.PhoneNumber), dash(strings.Join(names, ", ")), dash(string(s.Balance))}
		},
		id:       func(s models.Student) int64 { return s.ID },
		archived: func(s models.Student) bool { return s.IsArchived },
		details: func(s models.Student) []field {
			groups := make([]string, len(s.Groups))
			for i, g := range s.Groups {
				groups[i] = g.Name + " (" + g.Teacher + ")"
			}
			return []field{
				{"Name", s.FullName},
				{"Phone", string(s.PhoneNumber)},
				{"Gender", dash(s.Gender)},
				{"Birth date", dash(s.BirthDate)},
				{"Branch", dash(s.BranchName)},
				{"Groups", dash(strings.Join(groups, ", "))},
				{"Balance", dash(string(s.Balance))},
				{"Comment", dash(s.Comment)},
			}
		},
		newForm: func() any { return &forms.StudentForm{Branch: a.branchOrZero()} },
		editForm: func(s models.Student) any {
			return &forms.StudentForm{
				FullName:    s.FullName,
				PhoneNumber: string(s.PhoneNumber),
				Gender:      s.Gender,
				BirthDate:   s.BirthDate,
				Comment:     s.Comment,
			}
		},
		extra: func(ctx context.Context, s models.Student) []popup.Action {
			return []popup.Action{{
				Label:    "Enroll in group",
				Disabled: s.IsArchived,
				Run: func() error {
					group, err := getSimpleText(a.reader, "Group ID", a.out)
					if err != nil {
						return err
					}
					return a.Enroll(ctx, strconv.FormatInt(s.ID, 10), group)
				},
			}}
		},
	}
}

func (a *App) teachersDef() resourceDef[models.Teacher] {
	return resourceDef[models.Teacher]{
		noun:       "teacher",
		heading:    "Teachers",
		svc:        a.services.Teachers,
		filters:    []string{"is_archived"},
		archivable: true,
		photo:      true,
		columns:    []string{"NAME", "PHONE", "GROUPS", "STUDENTS", "SALARY", "PERCENT"},
		row: func(t models.Teacher) []string {
			return []string{t.FullName, string(t.PhoneNumber), itoa(t.ActiveGroupsCount), itoa(t.ActiveStudentsCount),
				dash(string(t.Salary)), dash(string(t.Percentage))}
		},
		id:       func(t models.Teacher) int64 { return t.ID },
		archived: func(t models.Teacher) bool { return !t.IsActive },
		details: func(t models.Teacher) []field {
			return []field{
				{"Name", t.FullName},
				{"Phone", string(t.PhoneNumber)},
				{"Enrolled", dash(t.EnrollmentDate)},
				{"Salary", dash(string(t.Salary))},
				{"Percentage", dash(string(t.Percentage))},
				{"Active groups", itoa(t.ActiveGroupsCount)},
				{"Active students", itoa(t.ActiveStudentsCount)},
			}
		},
		newForm: func() any { return &forms.TeacherForm{Create: true} },
		editForm: func(t models.Teacher) any {
			return &forms.TeacherForm{
				FullName:       t.FullName,
				PhoneNumber:    string(t.PhoneNumber),
				EnrollmentDate: t.EnrollmentDate,
				Salary:         string(t.Salary),
				Percentage:     string(t.Percentage),
			}
		},
		extra: func(ctx context.Context, t models.Teacher) []popup.Action {
			return []popup.Action{{
				Label: "Groups",
				Run: func() error {
					return a.filterList(ctx, access.PathGroups, "teacher", strconv.FormatInt(t.ID, 10))
				},
			}}
		},
	}
}

func (a *App) staffDef() resourceDef[models.Staff] {
	return resourceDef[models.Staff]{
		noun:       "staff member",
		heading:    "Staff",
		svc:        a.services.Staff,
		filters:    []string{"search", "is_archived", "is_admin", "is_teacher", "is_ceo"},
		archivable: true,
		photo:      true,
		columns:    []string{"NAME", "PHONE", "ROLES"},
		row: func(s models.Staff) []string {
			return []string{s.FullName, string(s.PhoneNumber), dash(staffRoles(s).String())}
		},
		id:       func(s models.Staff) int64 { return s.ID },
		archived: func(s models.Staff) bool { return !s.IsActive },
		details: func(s models.Staff) []field {
			return []field{
				{"Name", s.FullName},
				{"Phone", string(s.PhoneNumber)},
				{"Roles", dash(staffRoles(s).String())},
				{"Enrolled", dash(s.EnrollmentDate)},
				{"Salary", dash(string(s.Salary))},
				{"Percentage", dash(string(s.Percentage))},
			}
		},
		newForm: func() any { return &forms.StaffForm{Create: true} },
		editForm: func(s models.Staff) any {
			roles := staffRoles(s)
			return &forms.StaffForm{
				FullName:       s.FullName,
				PhoneNumber:    string(s.PhoneNumber),
				EnrollmentDate: s.EnrollmentDate,
				IsCEO:          roles.Has(models.RoleCEO),
				IsAdmin:        roles.Has(models.RoleAdmin),
				IsTeacher:      roles.Has(models.RoleTeacher),
				Salary:         string(s.Salary),
				Percentage:     string(s.Percentage),
			}
		},
	}
}

// staffRoles reads roles from the role list, falling back to the flags.
func staffRoles(s models.Staff) models.Roles {
	if len(s.Roles) > 0 {
		return models.NewRoles(s.Roles...)
	}
	var names []string
	if s.IsCEO {
		names = append(names, string(models.RoleCEO))
	}
	if s.IsAdmin {
		names = append(names, string(models.RoleAdmin))
	}
	if s.IsTeacher {
		names = append(names, string(models.RoleTeacher))
	}
	return models.NewRoles(names...)
}

func (a *App) groupsDef() resourceDef[models.Group] {
	return resourceDef[models.Group]{
		noun:       "group",
		heading:    "Groups",
		svc:        a.services.Groups,
		filters:    []string{"search", "is_archived", "branch", "teacher"},
		archivable: true,
		columns:    []string{"NAME", "TEACHER", "ROOM", "DAYS", "TIME", "PRICE", "STUDENTS"},
		row: func(g models.Group) []string {
			return []string{g.Name, dash(g.TeacherName), dash(g.RoomName), dash(g.Weekdays),
				clock(g.CourseStartTime) + "-" + clock(g.CourseEndTime), dash(string(g.CurrentPrice)), itoa(g.StudentsCount)}
		},
		id:       func(g models.Group) int64 { return g.ID },
		archived: func(g models.Group) bool { return g.IsArchived },
		details: func(g models.Group) []field {
			return []field{
				{"Name", g.Name},
				{"Teacher", dash(g.TeacherName)},
				{"Branch", dash(g.BranchName)},
				{"Room", dash(g.RoomName)},
				{"Dates", g.StartDate + " .. " + g.EndDate},
				{"Lessons", dash(g.Weekdays) + " " + clock(g.CourseStartTime) + "-" + clock(g.CourseEndTime)},
				{"Price", dash(string(g.CurrentPrice))},
				{"Students", itoa(g.StudentsCount)},
				{"Colors", g.Color + " / " + g.TextColor},
				{"Comment", dash(g.Comment)},
			}
		},
		newForm: func() any { return &forms.GroupForm{Create: true, Branch: a.branchOrZero()} },
		editForm: func(g models.Group) any {
			return &forms.GroupForm{
				Name:            g.Name,
				Teacher:         g.Teacher,
				Room:            g.Room,
				StartDate:       g.StartDate,
				EndDate:         g.EndDate,
				CourseStartTime: clock(g.CourseStartTime),
				CourseEndTime:   clock(g.CourseEndTime),
				Weekdays:        g.Weekdays,
				Color:           g.Color,
				TextColor:       g.TextColor,
				Comment:         g.Comment,
			}
		},
		extra: func(ctx context.Context, g models.Group) []popup.Action {
			return []popup.Action{{
				Label: "Students",
				Run: func() error {
					return a.filterList(ctx, access.PathStudents, "group_id", strconv.FormatInt(g.ID, 10))
				},
			}}
		},
	}
}

func (a *App) paymentsDef() resourceDef[models.Payment] {
	return resourceDef[models.Payment]{
		noun:    "payment",
		heading: "Payments",
		svc:     a.services.Payments,
		filters: []string{"search", "branch", "transaction_type", "category"},
		columns: []string{"DATE", "STUDENT", "GROUP", "TYPE", "CATEGORY", "AMOUNT", "METHOD"},
		row: func(p models.Payment) []string {
			return []string{dash(p.CreatedAt), p.StudentName, p.GroupName, p.TransactionType, p.Category,
				string(p.Amount), dash(p.PaymentTypeName)}
		},
		id: func(p models.Payment) int64 { return p.ID },
		details: func(p models.Payment) []field {
			return []field{
				{"Student", p.StudentName},
				{"Group", p.GroupName},
				{"Enrollment", strconv.FormatInt(p.StudentGroup, 10)},
				{"Type", p.TransactionType},
				{"Category", p.Category},
				{"Amount", string(p.Amount)},
				{"Method", dash(p.PaymentTypeName)},
				{"Created", dash(p.CreatedAt)},
				{"Comment", dash(p.Comment)},
			}
		},
		newForm: func() any { return &forms.PaymentForm{TransactionType: forms.Credit, Category: "PAYMENT"} },
		editForm: func(p models.Payment) any {
			return &forms.PaymentForm{
				StudentGroup:    p.StudentGroup,
				TransactionType: p.TransactionType,
				Category:        p.Category,
				Amount:          string(p.Amount),
				PaymentType:     p.PaymentType,
				Comment:         p.Comment,
			}
		},
	}
}

func (a *App) roomsDef() resourceDef[models.Room] {
	return resourceDef[models.Room]{
		noun:       "room",
		heading:    "Rooms",
		svc:        a.services.Rooms,
		filters:    []string{"search", "is_archived", "branch"},
		archivable: true,
		columns:    []string{"NAME", "CAPACITY", "GROUPS"},
		row: func(r models.Room) []string {
			return []string{r.Name, itoa(r.Capacity), itoa(r.ActiveGroupsCount)}
		},
		id:       func(r models.Room) int64 { return r.ID },
		archived: func(r models.Room) bool { return r.IsArchived },
		details: func(r models.Room) []field {
			return []field{
				{"Name", r.Name},
				{"Capacity", itoa(r.Capacity)},
				{"Active groups", itoa(r.ActiveGroupsCount)},
				{"Extra info", dash(r.ExtraInfo)},
			}
		},
		newForm: func() any { return &forms.RoomForm{Branch: a.branchOrZero()} },
		editForm: func(r models.Room) any {
			return &forms.RoomForm{Name: r.Name, Capacity: r.Capacity, ExtraInfo: r.ExtraInfo, Branch: r.Branch}
		},
	}
}

func (a *App) branchesDef() resourceDef[models.Branch] {
	return resourceDef[models.Branch]{
		noun:       "branch",
		heading:    "Branches",
		svc:        a.services.Branches,
		filters:    []string{"search", "is_archived"},
		archivable: true,
		columns:    []string{"NAME", "ADDRESS"},
		row: func(b models.Branch) []string {
			return []string{b.Name, b.Address}
		},
		id:       func(b models.Branch) int64 { return b.ID },
		archived: func(b models.Branch) bool { return b.IsArchived },
		details: func(b models.Branch) []field {
			return []field{
				{"Name", b.Name},
				{"Address", b.Address},
				{"Extra info", dash(b.ExtraInfo)},
			}
		},
		newForm: func() any { return &forms.BranchForm{} },
		editForm: func(b models.Branch) any {
			return &forms.BranchForm{Name: b.Name, Address: b.Address, ExtraInfo: b.ExtraInfo}
		},
	}
}

func (a *App) paymentTypesDef() resourceDef[models.PaymentType] {
	return resourceDef[models.PaymentType]{
		noun:    "payment type",
		heading: "Payment types",
		svc:     a.services.PaymentTypes,
		filters: []string{"is_active"},
		columns: []string{"NAME", "ACTIVE", "THIS MONTH", "LAST MONTH"},
		row: func(p models.PaymentType) []string {
			return []string{p.Name, yesNo(p.IsActive), dash(string(p.CurrentMonthTotal)), dash(string(p.LastMonthTotal))}
		},
		id: func(p models.PaymentType) int64 { return p.ID },
		details: func(p models.PaymentType) []field {
			return []field{
				{"Name", p.Name},
				{"Active", yesNo(p.IsActive)},
				{"This month", dash(string(p.CurrentMonthTotal))},
				{"Last month", dash(string(p.LastMonthTotal))},
			}
		},
		newForm: func() any { return &forms.PaymentTypeForm{IsActive: true} },
		editForm: func(p models.PaymentType) any {
			return &forms.PaymentTypeForm{Name: p.Name, IsActive: p.IsActive}
		},
	}
}
