package stats

import "math"

// Group is the cache group of every stats/ read
const Group = "stats"

type MealTypeBreakdown struct {
	Breakfast int `json:"breakfast"`
	Lunch     int `json:"lunch"`
	Dinner    int `json:"dinner"`
}

type StudentTypeBreakdown struct {
	Scholarship int `json:"scholarship"`
	Contract    int `json:"contract"`
}

// Period aggregates the meals served in one window
type Period struct {
	TotalMeals             int                  `json:"total_meals"`
	UniqueStudents         int                  `json:"unique_students"`
	ByMealType             MealTypeBreakdown    `json:"by_meal_type"`
	ByStudentType          StudentTypeBreakdown `json:"by_student_type"`
	AverageMealsPerStudent float64              `json:"average_meals_per_student"`
}

type Overview struct {
	Timestamp           string `json:"timestamp"`
	TotalActiveStudents int    `json:"total_active_students"`
	Today               Period `json:"today"`
	ThisWeek            Period `json:"this_week"`
	ThisMonth           Period `json:"this_month"`
}

// Card is one headline figure of the overview page
type Card struct {
	Title   string
	Value   string
	Change  int // percent, rounded
	Caption string
}

func (c Card) Up() bool {
	return c.Change >= 0
}

// Cards derives the four headline figures of the overview page
func (o Overview) Cards() []Card {
	return []Card{
		{
			Title:   "Bugungi ovqatlar",
			Value:   formatInt(o.Today.TotalMeals),
			Change:  Change(float64(o.ThisMonth.TotalMeals), float64(o.Today.TotalMeals)),
			Caption: "Bugun berilgan ovqatlar",
		},
		{
			Title:   "Bugun ovqatlangan talabalar",
			Value:   formatInt(o.Today.UniqueStudents),
			Change:  Change(float64(o.ThisMonth.UniqueStudents), float64(o.Today.UniqueStudents)),
			Caption: "Noyob talabalar soni",
		},
		{
			Title:   "Oy davomida faol talabalar",
			Value:   formatInt(o.ThisMonth.UniqueStudents),
			Change:  Change(float64(o.ThisMonth.UniqueStudents), float64(o.ThisWeek.UniqueStudents)),
			Caption: "Shu oy ovqatlangan talabalar",
		},
		{
			Title:   "Talabaga o'rtacha ovqat",
			Value:   formatFloat(o.ThisMonth.AverageMealsPerStudent),
			Change:  Change(o.ThisMonth.AverageMealsPerStudent, o.ThisWeek.AverageMealsPerStudent),
			Caption: "Shu oy, haftaga nisbatan",
		},
	}
}

// Change is the percentage change from base to current, rounded. A zero base yields 0.
func Change(current, base float64) int {
	if base == 0 {
		return 0
	}
	return int(math.Round((current - base) / base * 100))
}

type RangeFilters struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	Course      *int   `json:"course"`
	StudentType string `json:"student_type"`
}

// RangeReport aggregates the meals served between two dates
type RangeReport struct {
	Period
	Filters RangeFilters `json:"filters"`
}

type NotEatingFilters struct {
	Days        int    `json:"days"`
	Course      int    `json:"course"`
	StudentType string `json:"student_type"`
}

type NotEatingStudent struct {
	ID                int     `json:"id"`
	PINFL             string  `json:"pinfl"`
	Name              string  `json:"name"`
	Course            int     `json:"course"`
	StudentType       string  `json:"student_type"`
	EnrollmentDate    string  `json:"enrollment_date"`
	UntilDate         string  `json:"until_date"`
	DaysSinceLastMeal *int    `json:"days_since_last_meal"`
	LastMealDate      *string `json:"last_meal_date"`
	TotalMeals        int     `json:"total_meals"`
}

// NeverAte reports a student with no recorded meal at all
func (s NotEatingStudent) NeverAte() bool {
	return s.LastMealDate == nil
}

type NotEatingReport struct {
	TotalActiveStudents  int                `json:"total_active_students"`
	StudentsNeverAte     int                `json:"students_never_ate"`
	StudentsInactiveDays int                `json:"students_inactive_days"`
	Filters              NotEatingFilters   `json:"filters"`
	Students             []NotEatingStudent `json:"students"`
}
