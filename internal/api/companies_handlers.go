package api

import (
	"encoding/json"
	"net/http"

	"github.com/jbweber/homelab/roster/internal/domain"
)

// CompanyRequest is the body accepted by POST and PUT /companies.
// PUT only reads the name, and only when it is not empty.
type CompanyRequest struct {
	ID        int64             `json:"id,omitempty"`
	Name      string            `json:"name"`
	Employees []EmployeeRequest `json:"employees"`
}

// CompanyResponse is the JSON form of a company. Employees is never null.
type CompanyResponse struct {
	ID        int64              `json:"id"`
	Name      string             `json:"name"`
	Employees []EmployeeResponse `json:"employees"`
}

func (req CompanyRequest) toDomain() domain.Company {
	employees := make([]domain.Employee, len(req.Employees))
	for i, e := range req.Employees {
		employees[i] = e.toDomain()
	}
	return domain.Company{
		ID:        req.ID,
		Name:      req.Name,
		Employees: employees,
	}
}

func newCompanyResponse(c domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Employees: newEmployeeResponses(c.Employees),
	}
}

func (a *API) listCompaniesHandler(w http.ResponseWriter, r *http.Request) {
	var companies []domain.Company

	page, pageSize, paged, err := parsePage(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if paged {
		companies, err = a.companies.FindByPage(r.Context(), page, pageSize)
	} else {
		companies, err = a.companies.FindAll(r.Context())
	}
	if err != nil {
		a.writeServiceError(w, r, err, "list companies")
		return
	}

	response := make([]CompanyResponse, len(companies))
	for i, c := range companies {
		response[i] = newCompanyResponse(c)
	}
	a.writeJSON(w, http.StatusOK, response)
}

func (a *API) getCompanyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	company, err := a.companies.FindByID(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err, "get company")
		return
	}

	a.writeJSON(w, http.StatusOK, newCompanyResponse(company))
}

// getCompanyEmployeesHandler handles GET /companies/{id}/employees
func (a *API) getCompanyEmployeesHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	employees, err := a.companies.GetEmployees(r.Context(), id)
	if err != nil {
		a.writeServiceError(w, r, err, "get company employees")
		return
	}

	a.writeJSON(w, http.StatusOK, newEmployeeResponses(employees))
}

func (a *API) createCompanyHandler(w http.ResponseWriter, r *http.Request) {
	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	created, err := a.companies.Create(r.Context(), req.toDomain())
	if err != nil {
		a.writeServiceError(w, r, err, "create company")
		return
	}

	a.writeJSON(w, http.StatusCreated, newCompanyResponse(created))
}

func (a *API) updateCompanyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	var req CompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	updated, err := a.companies.Update(r.Context(), id, req.toDomain())
	if err != nil {
		a.writeServiceError(w, r, err, "update company")
		return
	}

	a.writeJSON(w, http.StatusOK, newCompanyResponse(updated))
}

func (a *API) deleteCompanyHandler(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		a.writeError(w, http.StatusBadRequest, "Invalid company ID")
		return
	}

	if err := a.companies.Delete(r.Context(), id); err != nil {
		a.writeServiceError(w, r, err, "delete company")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
