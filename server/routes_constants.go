package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteRoot = "/{$}"

	// Auth Routes - Sign in & Logout
	RouteSignIn = "/auth/sign-in"
	RouteLogout = "/auth/logout"

	// Dashboard Routes
	RouteDashboard = "/dashboard"
	RouteOverview  = "/dashboard/overview"
	RouteNoEating  = "/dashboard/no-eating"
	RouteProfile   = "/dashboard/profile/{id}"

	// Student Routes
	RouteStudents      = "/dashboard/student"
	RouteStudentNew    = "/dashboard/student/new"
	RouteStudent       = "/dashboard/student/{studentId}"
	RouteStudentDelete = "/dashboard/student/{studentId}/delete"

	RouteHealth = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)
