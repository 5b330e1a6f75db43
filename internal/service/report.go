package service

// Report describes one fixed report endpoint and the application that serves it.
type Report struct {
	// App is the name the serving process registers under.
	App string
	// BasePath is the route group the report lives under.
	BasePath string
	// Message is returned verbatim with status 200.
	Message string
}

var (
	CustomerReport = Report{
		App:      "CUSTOMER-SERVICE",
		BasePath: "/customer-api",
		Message:  "From Customer service",
	}
	EmployeeReport = Report{
		App:      "EMPLOYEE-SERVICE",
		BasePath: "/employee-api",
		Message:  "From Employee operations",
	}
)
