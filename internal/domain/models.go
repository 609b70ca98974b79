package domain

// Employee represents a person on the payroll
type Employee struct {
	ID     int64  // Unique identifier
	Name   string // Full name
	Age    int    // Age in years
	Gender string // Free-form gender label, matched exactly by filters
	Salary int    // Salary in whole currency units
}

// EntityID returns the employee's identifier
func (e Employee) EntityID() int64 { return e.ID }

// WithID returns a copy of the employee carrying the given identifier
func (e Employee) WithID(id int64) Employee {
	e.ID = id
	return e
}

// Clone returns a copy of the employee
func (e Employee) Clone() Employee { return e }

// Company represents an employer and the employees embedded in it
type Company struct {
	ID        int64      // Unique identifier
	Name      string     // Company name
	Employees []Employee // Employees owned by the company, in order
}

// EntityID returns the company's identifier
func (c Company) EntityID() int64 { return c.ID }

// WithID returns a copy of the company carrying the given identifier
func (c Company) WithID(id int64) Company {
	c = c.Clone()
	c.ID = id
	return c
}

// Clone returns a deep copy of the company. The employees slice is never nil.
func (c Company) Clone() Company {
	employees := make([]Employee, len(c.Employees))
	copy(employees, c.Employees)
	c.Employees = employees
	return c
}
