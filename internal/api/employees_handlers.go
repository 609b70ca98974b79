package api

import (
	"encoding/json"
	"net/http"

	"github.com/jbweber/homelab/roster/internal/domain"
)

// EmployeeRequest is the body accepted by POST and PUT /employees.
// PUT only reads age and salary.
type EmployeeRequest struct {
	ID     int64  `json:"id,omitempty"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Salary int    `json:"salary"`
}

// EmployeeResponse is the JSON form of an employee
type EmployeeResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Salary int    `json:"salary"`
}

func (req EmployeeRequest) toDomain() domain.Employee {
	return domain.Employee{
		ID:     req.ID,
		Name:   req.Name,
		Age:    req.Age,
		Gender: req.Gender,
		Salary: req.Salary,
	}
}

func newEmployeeResponse(e domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:     e.ID,
		Name:   e.Name,
		Age:    e.Age,
		Gender: e.Gender,
		Salary: e.Salary,
	}
}

func newEmployeeResponses(employees []domain.Employee) []EmployeeResponse {
	response := make([]EmployeeResponse, len(employees))
	for i, e := range employees {
		response[i] = newEmployeeResponse(e)
	}
	return response
}

// listEmployeesHandler handles GET /employees.
//
// ?gender= filters by exact gender and wins over paging; ?page=&pageSize=
// returns one page. Without parameters every employee is returned.
func (a *API) listEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	var employees []domain.Employee
	var err error

	page, pageSize, paged, pageErr := parsePage(r)
	switch {
	case r.URL.Query().Has("gender"):
		employees, err = a.employees.FindByGender(r.Context(), r.URL.Query().Get("gender"))
	case pageErr != nil:
		a.writeError(w, http.StatusBadRequest, pageErr.Error())
		return
	case paged:
		employees, err = a.employees.FindByPage(r.Context(), page, pageSize)
	default:
		employees, err = a.employees.FindAll(r.Context())
	}
	if err != nil {
		a.writeServiceError(w, r, err, "list employees")
		return
	}

	a.writeJSON(w, http.StatusOK, newEmployeeResponses(employees))
}

func (a *API) getEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}

	employee, err := a.employees.FindByID(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err, "get employee")
		return
	}

	a.writeJSON(w, http.StatusOK, newEmployeeResponse(employee))
}

func (a *API) createEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	created, err := a.employees.Create(r.Context(), req.toDomain())
	if err != nil {
		a.writeServiceError(w, r, err, "create employee")
		return
	}

	a.writeJSON(w, http.StatusCreated, newEmployeeResponse(created))
}

// updateEmployeeHandler handles PUT /employees/{id}.
//
// Request: JSON employee body; only age and salary are applied.
// Returns 400 for invalid input, 404 if not found, 200 with the stored employee otherwise.
func (a *API) updateEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}

	var req EmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	updated, err := a.employees.Update(r.Context(), id, req.toDomain())
	if err != nil {
		a.writeServiceError(w, r, err, "update employee")
		return
	}

	a.writeJSON(w, http.StatusOK, newEmployeeResponse(updated))
}

func (a *API) deleteEmployeeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid employee ID")
		return
	}

	if err := a.employees.Delete(r.Context(), id); err != nil {
		a.writeServiceError(w, r, err, "delete employee")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
