// Package fake holds in-memory stand-ins for repositories and
// infrastructure, used by service and handler tests.
package fake

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rakmedia/hr-backend-go/internal/domain/access"
	"github.com/rakmedia/hr-backend-go/internal/domain/auth"
	"github.com/rakmedia/hr-backend-go/internal/domain/company"
	"github.com/rakmedia/hr-backend-go/internal/domain/department"
	"github.com/rakmedia/hr-backend-go/internal/domain/employee"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/employeetype"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/jobrole"
	"github.com/rakmedia/hr-backend-go/internal/domain/master/position"
	"github.com/rakmedia/hr-backend-go/internal/domain/task"
	"github.com/rakmedia/hr-backend-go/internal/domain/user"
)

// Store is one shared in-memory database. Its repositories see each
// other's rows so joins like employee details can be reproduced.
type Store struct {
	mu sync.Mutex

	users         map[int64]user.User
	employees     map[int64]employee.Employee
	empDepts      map[int64][]int64
	companies     map[int64]company.Company
	departments   map[int64]department.Department
	employeeTypes map[int64]employeetype.EmployeeType
	jobRoles      map[int64]jobrole.JobRole
	positions     map[int64]position.Position
	tasks         map[int64]task.Task
	taskFiles     map[int64]task.TaskFile
	resets        []resetToken
	refresh       map[string]bool

	nextID int64
}

type resetToken struct {
	userID    int64
	token     string
	expiresAt time.Time
	used      bool
}

func NewStore() *Store {
	return &Store{
		users:         map[int64]user.User{},
		employees:     map[int64]employee.Employee{},
		empDepts:      map[int64][]int64{},
		companies:     map[int64]company.Company{},
		departments:   map[int64]department.Department{},
		employeeTypes: map[int64]employeetype.EmployeeType{},
		jobRoles:      map[int64]jobrole.JobRole{},
		positions:     map[int64]position.Position{},
		tasks:         map[int64]task.Task{},
		taskFiles:     map[int64]task.TaskFile{},
		refresh:       map[string]bool{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func sortedKeys[V any](m map[int64]V) []int64 {
	keys := make([]int64, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// ---- users ----

type Users struct{ *Store }

func (s *Store) Users() user.UserRepository { return Users{s} }

func (r Users) Create(ctx context.Context, u user.User) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return user.User{}, user.ErrUsernameExists
		}
	}
	u.ID = r.id()
	u.CreatedAt, u.UpdatedAt = time.Now(), time.Now()
	r.users[u.ID] = u
	return u, nil
}

func (r Users) withEmployee(u user.User) user.User {
	for _, e := range r.employees {
		if e.UserID != nil && *e.UserID == u.ID {
			id := e.ID
			u.EmployeeID = &id
		}
	}
	return u
}

func (r Users) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return r.withEmployee(u), nil
}

func (r Users) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			return r.withEmployee(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r Users) GetByEmail(ctx context.Context, email string) (user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range sortedKeys(r.users) {
		if u := r.users[id]; strings.EqualFold(u.Email, email) {
			return r.withEmployee(u), nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (r Users) UsernameExists(ctx context.Context, username string) (bool, error) {
	_, err := r.GetByUsername(ctx, username)
	return err == nil, nil
}

func (r Users) UpdateEmail(ctx context.Context, id int64, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Email = email
	r.users[id] = u
	return nil
}

func (r Users) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	r.users[id] = u
	return nil
}

func (r Users) ListWithoutEmployee(ctx context.Context) ([]user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []user.User
	for _, id := range sortedKeys(r.users) {
		if u := r.withEmployee(r.users[id]); u.EmployeeID == nil {
			out = append(out, u)
		}
	}
	return out, nil
}

// ---- tokens ----

type PasswordResets struct{ *Store }

func (s *Store) PasswordResets() auth.PasswordResetRepository { return PasswordResets{s} }

func (r PasswordResets) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, resetToken{userID: userID, token: token, expiresAt: expiresAt})
	return nil
}

func (r PasswordResets) Consume(ctx context.Context, userID int64, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, t := range r.resets {
		if t.userID == userID && t.token == token && !t.used && time.Now().Before(t.expiresAt) {
			r.resets[i].used = true
			return true, nil
		}
	}
	return false, nil
}

func (r PasswordResets) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.resets[:0]
	var n int64
	for _, t := range r.resets {
		if t.used || t.expiresAt.Before(before) {
			n++
			continue
		}
		kept = append(kept, t)
	}
	r.resets = kept
	return n, nil
}

// ResetTokens returns the stored reset tokens for userID.
func (s *Store) ResetTokens(userID int64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, t := range s.resets {
		if t.userID == userID {
			out = append(out, t.token)
		}
	}
	return out
}

type RefreshTokens struct{ *Store }

func (s *Store) RefreshTokens() auth.RefreshTokenRepository { return RefreshTokens{s} }

func (r RefreshTokens) CreateRefreshToken(ctx context.Context, userID int64, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.refresh[token] = false
	return nil
}

func (r RefreshTokens) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	revoked, ok := r.refresh[token]
	return !ok || revoked, nil
}

func (r RefreshTokens) RevokeRefreshToken(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.refresh[token]; ok {
		r.refresh[token] = true
	}
	return nil
}

func (r RefreshTokens) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

// ---- companies ----

type Companies struct{ *Store }

func (s *Store) Companies() company.CompanyRepository { return Companies{s} }

func (r Companies) Create(ctx context.Context, c company.Company) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.companies {
		if strings.EqualFold(existing.Name, c.Name) {
			return company.Company{}, company.ErrCompanyNameExists
		}
	}
	c.ID = r.id()
	c.CreatedAt, c.UpdatedAt = time.Now(), time.Now()
	r.companies[c.ID] = c
	return c, nil
}

func (r Companies) GetByID(ctx context.Context, id int64) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (r Companies) GetByName(ctx context.Context, name string) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.companies {
		if c.Name == name {
			return c, nil
		}
	}
	return company.Company{}, company.ErrCompanyNotFound
}

func (r Companies) GetDefault(ctx context.Context) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := sortedKeys(r.companies)
	if len(keys) == 0 {
		return company.Company{}, company.ErrNoCompany
	}
	return r.companies[keys[0]], nil
}

func (r Companies) List(ctx context.Context) ([]company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []company.Company
	for _, id := range sortedKeys(r.companies) {
		out = append(out, r.companies[id])
	}
	return out, nil
}

func (r Companies) Update(ctx context.Context, id int64, req company.UpdateCompanyRequest) (company.Company, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	if req.Name != nil {
		for _, existing := range r.companies {
			if existing.ID != id && strings.EqualFold(existing.Name, *req.Name) {
				return company.Company{}, company.ErrCompanyNameExists
			}
		}
		c.Name = *req.Name
	}
	if req.Description != nil {
		c.Description = *req.Description
	}
	c.UpdatedAt = time.Now()
	r.companies[id] = c
	return c, nil
}

func (r Companies) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.companies[id]; !ok {
		return company.ErrCompanyNotFound
	}
	delete(r.companies, id)
	return nil
}

// ---- departments ----

type Departments struct{ *Store }

func (s *Store) Departments() department.DepartmentRepository { return Departments{s} }

func (r Departments) Create(ctx context.Context, d department.Department) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.departments {
		if strings.EqualFold(existing.Name, d.Name) {
			return department.Department{}, department.ErrDepartmentNameExists
		}
	}
	d.ID = r.id()
	r.departments[d.ID] = d
	return d, nil
}

func (r Departments) countMembers(id int64) int {
	n := 0
	for _, depts := range r.empDepts {
		for _, d := range depts {
			if d == id {
				n++
			}
		}
	}
	return n
}

func (r Departments) GetByID(ctx context.Context, id int64) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	d.EmployeeCount = r.countMembers(id)
	return d, nil
}

func (r Departments) GetByName(ctx context.Context, name string) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range r.departments {
		if d.Name == name {
			return d, nil
		}
	}
	return department.Department{}, department.ErrDepartmentNotFound
}

func (r Departments) List(ctx context.Context) ([]department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []department.Department
	for _, id := range sortedKeys(r.departments) {
		d := r.departments[id]
		d.EmployeeCount = r.countMembers(id)
		out = append(out, d)
	}
	return out, nil
}

func (r Departments) CountExisting(ctx context.Context, ids []int64) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	seen := map[int64]bool{}
	for _, id := range ids {
		if _, ok := r.departments[id]; ok {
			seen[id] = true
		}
	}
	return len(seen), nil
}

func (r Departments) Update(ctx context.Context, id int64, name string) (department.Department, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.departments[id]
	if !ok {
		return department.Department{}, department.ErrDepartmentNotFound
	}
	for _, existing := range r.departments {
		if existing.ID != id && strings.EqualFold(existing.Name, name) {
			return department.Department{}, department.ErrDepartmentNameExists
		}
	}
	d.Name = name
	r.departments[id] = d
	return d, nil
}

func (r Departments) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.departments[id]; !ok {
		return department.ErrDepartmentNotFound
	}
	delete(r.departments, id)
	for emp, depts := range r.empDepts {
		kept := depts[:0]
		for _, d := range depts {
			if d != id {
				kept = append(kept, d)
			}
		}
		r.empDepts[emp] = kept
	}
	return nil
}

// ---- master data ----

type EmployeeTypes struct{ *Store }

func (s *Store) EmployeeTypes() employeetype.EmployeeTypeRepository { return EmployeeTypes{s} }

func (r EmployeeTypes) Create(ctx context.Context, name string) (employeetype.EmployeeType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employeeTypes {
		if strings.EqualFold(existing.Name, name) {
			return employeetype.EmployeeType{}, employeetype.ErrEmployeeTypeNameExists
		}
	}
	t := employeetype.EmployeeType{ID: r.id(), Name: name}
	r.employeeTypes[t.ID] = t
	return t, nil
}

func (r EmployeeTypes) GetByID(ctx context.Context, id int64) (employeetype.EmployeeType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.employeeTypes[id]
	if !ok {
		return employeetype.EmployeeType{}, employeetype.ErrEmployeeTypeNotFound
	}
	return t, nil
}

func (r EmployeeTypes) GetByName(ctx context.Context, name string) (employeetype.EmployeeType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.employeeTypes {
		if t.Name == name {
			return t, nil
		}
	}
	return employeetype.EmployeeType{}, employeetype.ErrEmployeeTypeNotFound
}

func (r EmployeeTypes) List(ctx context.Context) ([]employeetype.EmployeeType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employeetype.EmployeeType
	for _, id := range sortedKeys(r.employeeTypes) {
		out = append(out, r.employeeTypes[id])
	}
	return out, nil
}

type JobRoles struct{ *Store }

func (s *Store) JobRoles() jobrole.JobRoleRepository { return JobRoles{s} }

func (r JobRoles) Create(ctx context.Context, role jobrole.JobRole) (jobrole.JobRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.jobRoles {
		if strings.EqualFold(existing.Name, role.Name) {
			return jobrole.JobRole{}, jobrole.ErrJobRoleNameExists
		}
	}
	role.ID = r.id()
	r.jobRoles[role.ID] = role
	return role, nil
}

func (r JobRoles) GetByID(ctx context.Context, id int64) (jobrole.JobRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	role, ok := r.jobRoles[id]
	if !ok {
		return jobrole.JobRole{}, jobrole.ErrJobRoleNotFound
	}
	return role, nil
}

func (r JobRoles) GetByName(ctx context.Context, name string) (jobrole.JobRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, role := range r.jobRoles {
		if role.Name == name {
			return role, nil
		}
	}
	return jobrole.JobRole{}, jobrole.ErrJobRoleNotFound
}

func (r JobRoles) List(ctx context.Context) ([]jobrole.JobRole, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []jobrole.JobRole
	for _, id := range sortedKeys(r.jobRoles) {
		out = append(out, r.jobRoles[id])
	}
	return out, nil
}

type Positions struct{ *Store }

func (s *Store) Positions() position.PositionRepository { return Positions{s} }

func (r Positions) Create(ctx context.Context, jobRoleID, employeeTypeID int64) (position.Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.positions {
		if existing.JobRoleID == jobRoleID && existing.EmployeeTypeID == employeeTypeID {
			return position.Position{}, position.ErrPositionPairExists
		}
	}
	p := position.Position{ID: r.id(), JobRoleID: jobRoleID, EmployeeTypeID: employeeTypeID}
	r.positions[p.ID] = p
	return r.join(p), nil
}

func (r Positions) join(p position.Position) position.Position {
	p.JobRoleName = r.jobRoles[p.JobRoleID].Name
	p.EmployeeTypeName = r.employeeTypes[p.EmployeeTypeID].Name
	return p
}

func (r Positions) GetByID(ctx context.Context, id int64) (position.Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.positions[id]
	if !ok {
		return position.Position{}, position.ErrPositionNotFound
	}
	return r.join(p), nil
}

func (r Positions) List(ctx context.Context) ([]position.Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []position.Position
	for _, id := range sortedKeys(r.positions) {
		out = append(out, r.join(r.positions[id]))
	}
	return out, nil
}

// ---- employees ----

type Employees struct{ *Store }

func (s *Store) Employees() employee.EmployeeRepository { return Employees{s} }

func (r Employees) detail(e employee.Employee) employee.EmployeeWithDetails {
	d := employee.EmployeeWithDetails{Employee: e}
	if e.UserID != nil {
		if u, ok := r.users[*e.UserID]; ok {
			username, email := u.Username, u.Email
			d.Username, d.UserEmail = &username, &email
		}
	}
	if e.PositionID != nil {
		if p, ok := r.positions[*e.PositionID]; ok {
			p = Positions{r.Store}.join(p)
			role, typ := p.JobRoleName, p.EmployeeTypeName
			d.JobRoleName, d.EmployeeTypeName = &role, &typ
		}
	}
	for _, id := range r.empDepts[e.ID] {
		if dep, ok := r.departments[id]; ok {
			d.DepartmentIDs = append(d.DepartmentIDs, id)
			d.DepartmentNames = append(d.DepartmentNames, dep.Name)
		}
	}
	return d
}

func (r Employees) Create(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.employees {
		if existing.EmployeeCode == e.EmployeeCode {
			return employee.Employee{}, employee.ErrEmployeeCodeExists
		}
		if e.Email != nil && existing.Email != nil && strings.EqualFold(*existing.Email, *e.Email) {
			return employee.Employee{}, employee.ErrEmployeeEmailExists
		}
	}
	e.ID = r.id()
	e.CreatedAt, e.UpdatedAt = time.Now(), time.Now()
	r.employees[e.ID] = e
	return e, nil
}

func (r Employees) GetByID(ctx context.Context, id int64) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r Employees) GetDetailByID(ctx context.Context, id int64) (employee.EmployeeWithDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[id]
	if !ok {
		return employee.EmployeeWithDetails{}, employee.ErrEmployeeNotFound
	}
	return r.detail(e), nil
}

func (r Employees) GetByUserID(ctx context.Context, userID int64) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (r Employees) GetAccessProfile(ctx context.Context, userID int64) (access.Profile, error) {
	e, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return access.Profile{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return access.Profile{
		EmployeeID:       e.ID,
		CompanyID:        e.CompanyID,
		EmployeeTypeName: r.detail(e).EmployeeTypeName,
	}, nil
}

// List ignores field filters; it only orders and paginates.
func (r Employees) List(ctx context.Context, filter employee.Filter) ([]employee.EmployeeWithDetails, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	all := r.ordered(filter)
	total := int64(len(all))
	if filter.Paginate {
		start := filter.Offset()
		if start > len(all) {
			start = len(all)
		}
		end := start + filter.PageSize
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (r Employees) ordered(filter employee.Filter) []employee.EmployeeWithDetails {
	var out []employee.EmployeeWithDetails
	for _, id := range sortedKeys(r.employees) {
		out = append(out, r.detail(r.employees[id]))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if filter.Descending {
			return out[i].EmployeeCode > out[j].EmployeeCode
		}
		return out[i].EmployeeCode < out[j].EmployeeCode
	})
	return out
}

func (r Employees) ListDepartmentPeers(ctx context.Context, employeeID, companyID int64, filter employee.Filter) ([]employee.EmployeeWithDetails, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	mine := map[int64]bool{}
	for _, d := range r.empDepts[employeeID] {
		mine[d] = true
	}
	var out []employee.EmployeeWithDetails
	for _, e := range r.ordered(filter) {
		if e.ID == employeeID || e.CompanyID != companyID {
			continue
		}
		for _, d := range r.empDepts[e.ID] {
			if mine[d] {
				out = append(out, e)
				break
			}
		}
	}
	return out, nil
}

func (r Employees) ListWithoutUser(ctx context.Context) ([]employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []employee.Employee
	for _, id := range sortedKeys(r.employees) {
		if e := r.employees[id]; e.UserID == nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r Employees) Update(ctx context.Context, e employee.Employee) (employee.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.employees[e.ID]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	e.UserID, e.ProfilePicture, e.CreatedAt = old.UserID, old.ProfilePicture, old.CreatedAt
	e.UpdatedAt = time.Now()
	r.employees[e.ID] = e
	return e, nil
}

func (r Employees) SetDepartments(ctx context.Context, employeeID int64, departmentIDs []int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.empDepts[employeeID] = append([]int64(nil), departmentIDs...)
	return nil
}

func (r Employees) LinkUser(ctx context.Context, employeeID, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[employeeID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	if e.UserID != nil {
		return employee.ErrUserAlreadyLinked
	}
	e.UserID = &userID
	r.employees[employeeID] = e
	return nil
}

func (r Employees) UpdateProfilePicture(ctx context.Context, employeeID int64, path string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.employees[employeeID]
	if !ok {
		return employee.ErrEmployeeNotFound
	}
	e.ProfilePicture = &path
	r.employees[employeeID] = e
	return nil
}

func (r Employees) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	delete(r.employees, id)
	delete(r.empDepts, id)
	return nil
}

func (r Employees) CodeExists(ctx context.Context, code int, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.ID != excludeID && e.EmployeeCode == code {
			return true, nil
		}
	}
	return false, nil
}

func (r Employees) EmailExists(ctx context.Context, email string, excludeID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.employees {
		if e.ID != excludeID && e.Email != nil && strings.EqualFold(*e.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// ---- tasks ----

type Tasks struct{ *Store }

func (s *Store) Tasks() task.TaskRepository { return Tasks{s} }

func (r Tasks) employeeName(id int64) string {
	e := r.employees[id]
	if e.UserID != nil {
		if u, ok := r.users[*e.UserID]; ok {
			return u.Username
		}
	}
	return e.FullName()
}

func (r Tasks) join(t task.Task) task.Task {
	t.AssignedToName = r.employeeName(t.AssignedTo)
	t.AssignedByName = nil
	if t.AssignedBy != nil {
		name := r.employeeName(*t.AssignedBy)
		t.AssignedByName = &name
	}
	return t
}

func (r Tasks) Create(ctx context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.employees[t.AssignedTo]; !ok {
		return task.Task{}, task.ErrAssigneeNotFound
	}
	t.ID = r.id()
	t.CreatedAt = time.Now()
	r.tasks[t.ID] = t
	return r.join(t), nil
}

func (r Tasks) GetByID(ctx context.Context, id int64) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tasks[id]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	return r.join(t), nil
}

func (r Tasks) List(ctx context.Context, filter task.ListFilter) ([]task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []task.Task
	for _, id := range sortedKeys(r.tasks) {
		t := r.tasks[id]
		if filter.AssignedTo != nil && t.AssignedTo != *filter.AssignedTo {
			continue
		}
		if filter.AssignedBy != nil && (t.AssignedBy == nil || *t.AssignedBy != *filter.AssignedBy) {
			continue
		}
		out = append(out, r.join(t))
	}
	return out, nil
}

func (r Tasks) Update(ctx context.Context, t task.Task) (task.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.tasks[t.ID]
	if !ok {
		return task.Task{}, task.ErrTaskNotFound
	}
	if _, ok := r.employees[t.AssignedTo]; !ok {
		return task.Task{}, task.ErrAssigneeNotFound
	}
	t.CreatedAt = old.CreatedAt
	r.tasks[t.ID] = t
	return r.join(t), nil
}

func (r Tasks) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return task.ErrTaskNotFound
	}
	delete(r.tasks, id)
	for fid, f := range r.taskFiles {
		if f.TaskID == id {
			delete(r.taskFiles, fid)
		}
	}
	return nil
}

type TaskFiles struct{ *Store }

func (s *Store) TaskFiles() task.TaskFileRepository { return TaskFiles{s} }

func (r TaskFiles) join(f task.TaskFile) task.TaskFile {
	f.UploaderName = nil
	if f.UploadedBy != nil {
		if e, ok := r.employees[*f.UploadedBy]; ok {
			name := e.FullName()
			f.UploaderName = &name
		}
	}
	return f
}

func (r TaskFiles) Create(ctx context.Context, f task.TaskFile) (task.TaskFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[f.TaskID]; !ok {
		return task.TaskFile{}, task.ErrTaskNotFound
	}
	f.ID = r.id()
	f.UploadedAt = time.Now().Add(time.Duration(f.ID) * time.Millisecond)
	r.taskFiles[f.ID] = f
	return r.join(f), nil
}

func (r TaskFiles) GetByID(ctx context.Context, id int64) (task.TaskFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.taskFiles[id]
	if !ok {
		return task.TaskFile{}, task.ErrTaskFileNotFound
	}
	return r.join(f), nil
}

func (r TaskFiles) ListByTask(ctx context.Context, taskID int64) ([]task.TaskFile, error) {
	return r.ListByTasks(ctx, []int64{taskID})
}

func (r TaskFiles) ListByTasks(ctx context.Context, taskIDs []int64) ([]task.TaskFile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want := map[int64]bool{}
	for _, id := range taskIDs {
		want[id] = true
	}
	var out []task.TaskFile
	for _, id := range sortedKeys(r.taskFiles) {
		if f := r.taskFiles[id]; want[f.TaskID] {
			out = append(out, r.join(f))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].UploadedAt.After(out[j].UploadedAt) })
	return out, nil
}

func (r TaskFiles) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.taskFiles[id]; !ok {
		return task.ErrTaskFileNotFound
	}
	delete(r.taskFiles, id)
	return nil
}
