package domain

import (
	"github.com/google/uuid"
)

// DTOs for API responses

type LeaserDTO struct {
	ID        uuid.UUID        `json:"id"`
	Name      string           `json:"name"`
	LogoURL   string           `json:"logoUrl,omitempty"`
	Ranges    []LeaserRangeDTO `json:"ranges"`
	CreatedAt string           `json:"createdAt"` // ISO 8601
	UpdatedAt string           `json:"updatedAt"` // ISO 8601
}

type LeaserRangeDTO struct {
	ID          uuid.UUID `json:"id"`
	Min         float64   `json:"min"`
	Max         float64   `json:"max"`
	Coefficient float64   `json:"coefficient"`
	Position    int       `json:"position"`
}

type CommissionLevelDTO struct {
	ID            uuid.UUID            `json:"id"`
	Name          string               `json:"name"`
	PrincipalType PrincipalType        `json:"principalType"`
	IsDefault     bool                 `json:"isDefault"`
	Ranges        []CommissionRangeDTO `json:"ranges"`
	CreatedAt     string               `json:"createdAt"`
	UpdatedAt     string               `json:"updatedAt"`
}

type CommissionRangeDTO struct {
	ID       uuid.UUID `json:"id"`
	Min      float64   `json:"min"`
	Max      float64   `json:"max"`
	Rate     float64   `json:"rate"`
	Amount   *float64  `json:"amount,omitempty"`
	Position int       `json:"position"`
}

// CommissionPreviewDTO is the result of evaluating a level against an amount
type CommissionPreviewDTO struct {
	Amount     float64   `json:"amount"`
	Commission float64   `json:"commission"`
	Rate       float64   `json:"rate"`
	LevelID    uuid.UUID `json:"levelId"`
	Matched    bool      `json:"matched"`
}

type ClientDTO struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	Company    string    `json:"company,omitempty"`
	VATNumber  string    `json:"vatNumber,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	PostalCode string    `json:"postalCode,omitempty"`
	Country    string    `json:"country"`
	CreatedAt  string    `json:"createdAt"`
	UpdatedAt  string    `json:"updatedAt"`
}

type AmbassadorDTO struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Email               string     `json:"email,omitempty"`
	Phone               string     `json:"phone,omitempty"`
	Region              string     `json:"region,omitempty"`
	CommissionLevelID   *uuid.UUID `json:"commissionLevelId,omitempty"`
	CommissionLevelName string     `json:"commissionLevelName,omitempty"`
	CreatedAt           string     `json:"createdAt"`
	UpdatedAt           string     `json:"updatedAt"`
}

type OfferDTO struct {
	ID                  uuid.UUID          `json:"id"`
	ClientID            *uuid.UUID         `json:"clientId,omitempty"`
	ClientName          string             `json:"clientName"`
	ClientEmail         string             `json:"clientEmail,omitempty"`
	LeaserID            *uuid.UUID         `json:"leaserId,omitempty"`
	LeaserName          string             `json:"leaserName,omitempty"`
	EquipmentText       string             `json:"equipmentText,omitempty"`
	Amount              float64            `json:"amount"`
	CoefficientUsed     float64            `json:"coefficient"`
	MonthlyPayment      float64            `json:"monthlyPayment"`
	Commission          float64            `json:"commission"`
	Margin              float64            `json:"margin"`
	AdjustmentActive    bool               `json:"adjustmentActive"`
	AdjustmentCoef      float64            `json:"adjustmentCoef,omitempty"`
	MarginDifference    float64            `json:"marginDifference"`
	Type                OfferType          `json:"type"`
	WorkflowStatus      WorkflowStatus     `json:"workflowStatus"`
	PreviousStatus      *WorkflowStatus    `json:"previousStatus,omitempty"`
	ConvertedToContract bool               `json:"convertedToContract"`
	AmbassadorID        *uuid.UUID         `json:"ambassadorId,omitempty"`
	UserID              string             `json:"userId"`
	UserName            string             `json:"userName,omitempty"`
	Remarks             string             `json:"remarks,omitempty"`
	Items               []EquipmentItemDTO `json:"items"`
	CreatedAt           string             `json:"createdAt"`
	UpdatedAt           string             `json:"updatedAt"`
}

type EquipmentItemDTO struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	PurchasePrice  float64   `json:"purchasePrice"`
	Quantity       int       `json:"quantity"`
	MarginPercent  float64   `json:"marginPercent"`
	MonthlyPayment float64   `json:"monthlyPayment"`
}

type WorkflowLogDTO struct {
	ID             uuid.UUID       `json:"id"`
	OfferID        uuid.UUID       `json:"offerId"`
	PreviousStatus *WorkflowStatus `json:"previousStatus,omitempty"`
	NewStatus      WorkflowStatus  `json:"newStatus"`
	Reason         string          `json:"reason,omitempty"`
	UserID         string          `json:"userId"`
	UserName       string          `json:"userName,omitempty"`
	CreatedAt      string          `json:"createdAt"`
}

type ContractDTO struct {
	ID             uuid.UUID      `json:"id"`
	OfferID        uuid.UUID      `json:"offerId"`
	ClientName     string         `json:"clientName"`
	LeaserName     string         `json:"leaserName,omitempty"`
	Amount         float64        `json:"amount"`
	MonthlyPayment float64        `json:"monthlyPayment"`
	Status         ContractStatus `json:"status"`
	CreatedAt      string         `json:"createdAt"`
	UpdatedAt      string         `json:"updatedAt"`
}

type DocumentDTO struct {
	ID          uuid.UUID `json:"id"`
	OfferID     uuid.UUID `json:"offerId"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedBy  string    `json:"uploadedBy,omitempty"`
	CreatedAt   string    `json:"createdAt"`
}

// PaginatedResponse wraps list results with pagination metadata
type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	PageSize   int         `json:"pageSize"`
	TotalPages int         `json:"totalPages"`
}

// ErrorResponse represents an API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    int    `json:"code,omitempty"`
}

// Request DTOs

type CreateLeaserRequest struct {
	Name    string                     `json:"name" validate:"required,max=200"`
	LogoURL string                     `json:"logoUrl,omitempty" validate:"omitempty,url,max=500"`
	Ranges  []CreateLeaserRangeRequest `json:"ranges" validate:"dive"`
}

type UpdateLeaserRequest struct {
	Name    *string                     `json:"name,omitempty" validate:"omitempty,max=200"`
	LogoURL *string                     `json:"logoUrl,omitempty" validate:"omitempty,url,max=500"`
	Ranges  *[]CreateLeaserRangeRequest `json:"ranges,omitempty" validate:"omitempty,dive"`
}

type CreateLeaserRangeRequest struct {
	Min         float64 `json:"min" validate:"gte=0"`
	Max         float64 `json:"max" validate:"gtefield=Min"`
	Coefficient float64 `json:"coefficient" validate:"gt=0"`
}

type CreateCommissionLevelRequest struct {
	Name          string                         `json:"name" validate:"required,max=200"`
	PrincipalType PrincipalType                  `json:"principalType" validate:"required,oneof=ambassador partner"`
	IsDefault     bool                           `json:"isDefault"`
	Ranges        []CreateCommissionRangeRequest `json:"ranges" validate:"dive"`
}

type UpdateCommissionLevelRequest struct {
	Name      *string                         `json:"name,omitempty" validate:"omitempty,max=200"`
	IsDefault *bool                           `json:"isDefault,omitempty"`
	Ranges    *[]CreateCommissionRangeRequest `json:"ranges,omitempty" validate:"omitempty,dive"`
}

type CreateCommissionRangeRequest struct {
	Min    float64  `json:"min" validate:"gte=0"`
	Max    float64  `json:"max" validate:"gtefield=Min"`
	Rate   float64  `json:"rate" validate:"gte=0"`
	Amount *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
}

type CommissionPreviewRequest struct {
	Amount float64 `json:"amount" validate:"gte=0"`
}

type CreateClientRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Email      string `json:"email,omitempty" validate:"omitempty,email"`
	Company    string `json:"company,omitempty" validate:"max=200"`
	VATNumber  string `json:"vatNumber,omitempty" validate:"max=30"`
	Phone      string `json:"phone,omitempty" validate:"max=50"`
	Address    string `json:"address,omitempty" validate:"max=500"`
	City       string `json:"city,omitempty" validate:"max=100"`
	PostalCode string `json:"postalCode,omitempty" validate:"max=20"`
	Country    string `json:"country,omitempty" validate:"max=100"`
}

type UpdateClientRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Company    *string `json:"company,omitempty" validate:"omitempty,max=200"`
	VATNumber  *string `json:"vatNumber,omitempty" validate:"omitempty,max=30"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	Address    *string `json:"address,omitempty" validate:"omitempty,max=500"`
	City       *string `json:"city,omitempty" validate:"omitempty,max=100"`
	PostalCode *string `json:"postalCode,omitempty" validate:"omitempty,max=20"`
	Country    *string `json:"country,omitempty" validate:"omitempty,max=100"`
}

type CreateAmbassadorRequest struct {
	Name              string     `json:"name" validate:"required,max=200"`
	Email             string     `json:"email,omitempty" validate:"omitempty,email"`
	Phone             string     `json:"phone,omitempty" validate:"max=50"`
	Region            string     `json:"region,omitempty" validate:"max=100"`
	CommissionLevelID *uuid.UUID `json:"commissionLevelId,omitempty"`
}

type UpdateAmbassadorRequest struct {
	Name              *string    `json:"name,omitempty" validate:"omitempty,max=200"`
	Email             *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone             *string    `json:"phone,omitempty" validate:"omitempty,max=50"`
	Region            *string    `json:"region,omitempty" validate:"omitempty,max=100"`
	CommissionLevelID *uuid.UUID `json:"commissionLevelId,omitempty"`
}

type CreateOfferRequest struct {
	ClientID      *uuid.UUID                   `json:"clientId,omitempty"`
	ClientName    string                       `json:"clientName" validate:"required,max=200"`
	ClientEmail   string                       `json:"clientEmail,omitempty" validate:"omitempty,email"`
	LeaserID      *uuid.UUID                   `json:"leaserId,omitempty"`
	EquipmentText string                       `json:"equipmentText,omitempty"`
	Type          OfferType                    `json:"type,omitempty" validate:"omitempty,oneof=admin_offer ambassador_offer partner_offer client_request"`
	AmbassadorID  *uuid.UUID                   `json:"ambassadorId,omitempty"`
	Remarks       string                       `json:"remarks,omitempty" validate:"max=2000"`
	Items         []CreateEquipmentItemRequest `json:"items" validate:"required,min=1,dive"`
}

type UpdateOfferRequest struct {
	ClientName    *string                       `json:"clientName,omitempty" validate:"omitempty,max=200"`
	ClientEmail   *string                       `json:"clientEmail,omitempty" validate:"omitempty,email"`
	LeaserID      *uuid.UUID                    `json:"leaserId,omitempty"`
	EquipmentText *string                       `json:"equipmentText,omitempty"`
	Remarks       *string                       `json:"remarks,omitempty" validate:"omitempty,max=2000"`
	Items         *[]CreateEquipmentItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

type CreateEquipmentItemRequest struct {
	Title         string  `json:"title" validate:"required,max=300"`
	PurchasePrice float64 `json:"purchasePrice" validate:"gt=0"`
	Quantity      int     `json:"quantity" validate:"gte=1"`
	MarginPercent float64 `json:"marginPercent" validate:"gte=0"`
}

// UpdateWorkflowStatusRequest drives a single workflow transition
type UpdateWorkflowStatusRequest struct {
	NewStatus WorkflowStatus `json:"newStatus" validate:"required"`
	Reason    string         `json:"reason,omitempty" validate:"max=1000"`
}

// RequestInfoRequest pauses an offer pending additional documents
type RequestInfoRequest struct {
	Reason         string   `json:"reason" validate:"required,max=1000"`
	RequestedDocs  []string `json:"requestedDocs,omitempty" validate:"max=20,dive,max=200"`
}

// ProcessInfoRequest resumes a paused offer
type ProcessInfoRequest struct {
	Approve bool   `json:"approve"`
	Reason  string `json:"reason,omitempty" validate:"max=1000"`
}

// ApplyMarginAdjustmentRequest toggles or applies the offer-level margin
// adjustment.
type ApplyMarginAdjustmentRequest struct {
	Active  bool     `json:"active"`
	NewCoef *float64 `json:"newCoef,omitempty" validate:"omitempty,gt=0"`
}

type UpdateContractStatusRequest struct {
	Status ContractStatus `json:"status" validate:"required,oneof=contract_sent contract_signed active completed"`
}
