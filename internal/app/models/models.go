package models

import (
	"time"

	"github.com/google/uuid"
)

// Principal roles known to the role gate.
const (
	RoleAdmin      = "admin"
	RoleManager    = "manager"
	RoleSupervisor = "supervisor"
	RoleEmployee   = "employee"
)

// User is the generic administrative principal.
type User struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Company struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phonenumber"`
	Address     string    `json:"address"`
	Label       string    `json:"label"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CompanyRef is the summary attached to manager/employee listings.
type CompanyRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type Manager struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phoneNumber"`
	PasswordHash string     `json:"-"`
	CompanyID    uuid.UUID  `json:"companyId"`
	Company      *CompanyRef `json:"company,omitempty"`
	Role         string     `json:"role"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type Supervisor struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PhoneNumber  string    `json:"phoneNumber"`
	PasswordHash string    `json:"-"`
	CompanyID    uuid.UUID `json:"companyId"`
	Layout       string    `json:"layout"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// ManagerRef is the summary of the manager an employee reports to.
type ManagerRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

type Employee struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PhoneNumber  string      `json:"phoneNumber"`
	PasswordHash string      `json:"-"`
	CompanyID    uuid.UUID   `json:"companyId"`
	Company      *CompanyRef `json:"company,omitempty"`
	ManagerID    uuid.UUID   `json:"selectManager"`
	Manager      *ManagerRef `json:"manager,omitempty"`
	Layout       string      `json:"layout"`
	HeaderOne    string      `json:"headerOne"`
	HeaderTwo    string      `json:"headerTwo"`
	Role         string      `json:"role"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

type Device struct {
	ID        uuid.UUID `json:"id"`
	Device    string    `json:"device"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Topic struct {
	ID        uuid.UUID `json:"id"`
	Topic     string    `json:"topic"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TopicWithDevices pairs a topic with the registered device list for
// the tag listing endpoint.
type TopicWithDevices struct {
	Topic
	Devices []Device `json:"devices"`
}

// TopicWithDevice pairs a topic with a single device name for the
// dashboard topic listing.
type TopicWithDevice struct {
	Topic
	Device *string `json:"device"`
}

// TopicAssignment summarizes a persisted employee/topic assignment.
type TopicAssignment struct {
	EmployeeID     uuid.UUID `json:"employeeId"`
	EmployeeName   string    `json:"employeeName"`
	AssignedTopics []Topic   `json:"assignedTopics"`
	Count          int       `json:"count"`
}
