package domain

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrPasswordMismatch    = errors.New("passwords do not match")
	ErrUpstreamUnavailable = errors.New("marketplace api unavailable")
	ErrExportNotFound      = errors.New("export task not found")
	ErrExportNotReady      = errors.New("export file not ready")
)

// Service is a bookable household service.
type Service struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Available   bool    `json:"available"`
}

// Ref is the {id, name|username} pair embedded in request listings.
type Ref struct {
	ID       int    `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
}

// Request statuses as reported by the marketplace API.
const (
	RequestPending   = "Pending"
	RequestAccepted  = "Accepted"
	RequestCompleted = "Completed"
)

// CustomerRequest is one entry of GET /api/request-service.
type CustomerRequest struct {
	ID           int    `json:"id"`
	Service      Ref    `json:"service"`
	CreatedAt    string `json:"created_at"`
	Status       string `json:"status"`
	Professional *Ref   `json:"professional"`
	Rating       *int   `json:"rating"`
}

// ProfessionalRequest is one entry of GET /api/service-requests.
type ProfessionalRequest struct {
	ID              int     `json:"id"`
	CustomerName    string  `json:"customer_name"`
	CustomerContact *string `json:"customer_contact"`
	ServiceName     string  `json:"service_name"`
	ServicePrice    float64 `json:"service_price"`
	Status          string  `json:"status"`
	CreatedAt       string  `json:"created_at"`
	Rating          *int    `json:"rating"`
}

// AdminRequest is one entry of GET /api/admin/service-requests.
type AdminRequest struct {
	ID           int    `json:"id"`
	Service      Ref    `json:"service"`
	Customer     Ref    `json:"customer"`
	Professional *Ref   `json:"professional"`
	Status       string `json:"status"`
	Rating       *int   `json:"rating"`
}

// ExportStatus is the state of an asynchronous CSV export job.
type ExportStatus string

const (
	ExportPending   ExportStatus = "Pending"
	ExportCompleted ExportStatus = "Completed"
	ExportFailed    ExportStatus = "Failed"
)

// Terminal reports whether polling can stop.
func (s ExportStatus) Terminal() bool {
	return s == ExportCompleted || s == ExportFailed
}

// ExportTask tracks one CSV export job.
type ExportTask struct {
	TaskID string       `json:"task_id"`
	Status ExportStatus `json:"status"`
	File   string       `json:"file,omitempty"`
	Error  string       `json:"error,omitempty"`
}
