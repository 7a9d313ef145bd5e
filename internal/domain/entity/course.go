package entity

import "time"

// Course represents a taught course. Each course has exactly one instructor.
type Course struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"` // Globally unique course name.
	Description  string    `json:"description"`
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	InstructedBy int64     `json:"instructedBy"`
	Instructor   *User     `json:"-"`
}

// CourseView is the course shape returned to callers, with the instructor and
// any loaded enrollment data flattened into public identity views.
type CourseView struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	StartDate   time.Time     `json:"startDate"`
	EndDate     time.Time     `json:"endDate"`
	Instructor  *PublicUser   `json:"instructor"`
	Students    []*PublicUser `json:"students,omitempty"`
	Groups      []*GroupView  `json:"groups,omitempty"`
}

// View reshapes the course into its public form. Enrollment slices are left
// nil and filled in by callers that loaded them.
func (c *Course) View() *CourseView {
	if c == nil {
		return nil
	}

	return &CourseView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		StartDate:   c.StartDate,
		EndDate:     c.EndDate,
		Instructor:  c.Instructor.Public(),
	}
}

// Group is a named subset of a course's students. A student belongs to at
// most one group within the same course.
type Group struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"` // Globally unique group name.
	CourseID int64   `json:"courseId"`
	Students []*User `json:"-"`
}

// GroupView is the group shape returned to callers.
type GroupView struct {
	ID       int64         `json:"id"`
	Name     string        `json:"name"`
	Students []*PublicUser `json:"students"`
}

// View reshapes the group and its loaded members into public form.
func (g *Group) View() *GroupView {
	if g == nil {
		return nil
	}

	students := make([]*PublicUser, 0, len(g.Students))
	for _, s := range g.Students {
		students = append(students, s.Public())
	}

	return &GroupView{ID: g.ID, Name: g.Name, Students: students}
}
