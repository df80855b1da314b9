// internal/models/reference.go
package models

// Reference entities are deduplicated by natural key before insert:
// office name, employee email, client email, property type name.

type Office struct {
	OfficeID   int64  `json:"officeId"`
	OfficeCode string `json:"officeCode"`
	OfficeName string `json:"officeName"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
}

type Employee struct {
	EmployeeID     int64   `json:"employeeId"`
	EmployeeCode   string  `json:"employeeCode"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Email          string  `json:"email"`
	Phone          string  `json:"phone"`
	JobTitle       string  `json:"jobTitle"`
	OfficeID       int64   `json:"officeId"`
	CommissionRate float64 `json:"commissionRate"`
}

type Client struct {
	ClientID   int64  `json:"clientId"`
	ClientType string `json:"clientType"`
	FullName   string `json:"fullName"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Notes      string `json:"notes"`
}

type PropertyType struct {
	TypeID      int64  `json:"typeId"`
	TypeName    string `json:"typeName"`
	Description string `json:"description"`
}
