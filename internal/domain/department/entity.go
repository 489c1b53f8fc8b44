package department

type Department struct {
	ID        int64
	Name      string
	CompanyID int64

	// EmployeeCount is filled by List.
	EmployeeCount int
}
