package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID client-side so the models also work on databases
// without gen_random_uuid (sqlite in tests).
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Leaser represents an external financing partner. Its coefficient ranges
// convert a monthly payment into a financed principal and back.
type Leaser struct {
	BaseModel
	Name    string        `gorm:"type:varchar(200);not null;index"`
	LogoURL string        `gorm:"type:varchar(500);column:logo_url"`
	Ranges  []LeaserRange `gorm:"foreignKey:LeaserID;constraint:OnDelete:CASCADE"`
}

// LeaserRange is one tier of a leaser's coefficient table.
// Ranges are operator-maintained; Position preserves the configured order,
// which is the tie-break when resolving an amount.
type LeaserRange struct {
	BaseModel
	LeaserID    uuid.UUID `gorm:"type:uuid;not null;index;column:leaser_id"`
	Min         float64   `gorm:"type:decimal(15,2);not null"`
	Max         float64   `gorm:"type:decimal(15,2);not null"`
	Coefficient float64   `gorm:"type:decimal(8,3);not null"`
	Position    int       `gorm:"not null;default:0"`
}

// PrincipalType classifies who a commission level pays out to
type PrincipalType string

const (
	PrincipalAmbassador PrincipalType = "ambassador"
	PrincipalPartner    PrincipalType = "partner"
)

// IsValid checks if the PrincipalType is a valid enum value
func (pt PrincipalType) IsValid() bool {
	switch pt {
	case PrincipalAmbassador, PrincipalPartner:
		return true
	}
	return false
}

// CommissionLevel is a named, tiered payout table for a principal type.
// Levels are configured administratively and read-only at offer time.
type CommissionLevel struct {
	BaseModel
	Name          string            `gorm:"type:varchar(200);not null"`
	PrincipalType PrincipalType     `gorm:"type:varchar(50);not null;index;column:principal_type"`
	IsDefault     bool              `gorm:"not null;default:false;column:is_default"`
	Ranges        []CommissionRange `gorm:"foreignKey:CommissionLevelID;constraint:OnDelete:CASCADE"`
}

// CommissionRange is one tier of a commission level. A tier pays either a
// percentage of the financed amount (Rate) or a flat amount (Amount set);
// both shapes exist in production data.
type CommissionRange struct {
	BaseModel
	CommissionLevelID uuid.UUID `gorm:"type:uuid;not null;index;column:commission_level_id"`
	Min               float64   `gorm:"type:decimal(15,2);not null"`
	Max               float64   `gorm:"type:decimal(15,2);not null"`
	Rate              float64   `gorm:"type:decimal(6,3);not null;default:0"`
	Amount            *float64  `gorm:"type:decimal(15,2)"`
	Position          int       `gorm:"not null;default:0"`
}

// Client represents a customer organization or person requesting leasing
type Client struct {
	BaseModel
	Name       string `gorm:"type:varchar(200);not null;index"`
	Email      string `gorm:"type:varchar(255);index"`
	Company    string `gorm:"type:varchar(200)"`
	VATNumber  string `gorm:"type:varchar(30);column:vat_number"`
	Phone      string `gorm:"type:varchar(50)"`
	Address    string `gorm:"type:varchar(500)"`
	City       string `gorm:"type:varchar(100)"`
	PostalCode string `gorm:"type:varchar(20);column:postal_code"`
	Country    string `gorm:"type:varchar(100);not null;default:'Belgium'"`
	Offers     []Offer `gorm:"foreignKey:ClientID"`
}

// Ambassador is a referring principal paid through a commission level
type Ambassador struct {
	BaseModel
	Name              string     `gorm:"type:varchar(200);not null"`
	Email             string     `gorm:"type:varchar(255);uniqueIndex"`
	Phone             string     `gorm:"type:varchar(50)"`
	Region            string     `gorm:"type:varchar(100)"`
	CommissionLevelID *uuid.UUID `gorm:"type:uuid;column:commission_level_id"`
	CommissionLevel   *CommissionLevel `gorm:"foreignKey:CommissionLevelID"`
}

// OfferType distinguishes who created the offer
type OfferType string

const (
	OfferTypeAdmin         OfferType = "admin_offer"
	OfferTypeAmbassador    OfferType = "ambassador_offer"
	OfferTypePartner       OfferType = "partner_offer"
	OfferTypeClientRequest OfferType = "client_request"
)

// IsValid checks if the OfferType is a valid enum value
func (ot OfferType) IsValid() bool {
	switch ot {
	case OfferTypeAdmin, OfferTypeAmbassador, OfferTypePartner, OfferTypeClientRequest:
		return true
	}
	return false
}

// Offer represents a leasing proposal
type Offer struct {
	BaseModel
	ClientID      *uuid.UUID `gorm:"type:uuid;index;column:client_id"`
	Client        *Client    `gorm:"foreignKey:ClientID"`
	ClientName    string     `gorm:"type:varchar(200);not null;column:client_name"`
	ClientEmail   string     `gorm:"type:varchar(255);column:client_email"`
	LeaserID      *uuid.UUID `gorm:"type:uuid;index;column:leaser_id"`
	Leaser        *Leaser    `gorm:"foreignKey:LeaserID"`
	EquipmentText string     `gorm:"type:text;column:equipment_text"`
	// Amount is the financed-equivalent total derived from the equipment
	// items and the active coefficient. MonthlyPayment and Commission are
	// recomputed alongside it; none of the three is edited directly.
	Amount              float64        `gorm:"type:decimal(15,2);not null;default:0"`
	CoefficientUsed     float64        `gorm:"type:decimal(8,3);not null;default:0;column:coefficient_used"`
	MonthlyPayment      float64        `gorm:"type:decimal(15,2);not null;default:0;column:monthly_payment"`
	Commission          float64        `gorm:"type:decimal(15,2);not null;default:0"`
	Margin              float64        `gorm:"type:decimal(15,2);not null;default:0"`
	// Margin adjustment state. When active, the adjusted coefficient drives
	// the monthly payment; when inactive, only the difference is recorded.
	AdjustmentActive bool    `gorm:"not null;default:false;column:adjustment_active"`
	AdjustmentCoef   float64 `gorm:"type:decimal(8,3);not null;default:0;column:adjustment_coef"`
	MarginDifference float64 `gorm:"type:decimal(15,2);not null;default:0;column:margin_difference"`
	Type                OfferType      `gorm:"type:varchar(50);not null;default:'admin_offer'"`
	WorkflowStatus      WorkflowStatus `gorm:"type:varchar(50);not null;default:'draft';index;column:workflow_status"`
	PreviousStatus      *WorkflowStatus `gorm:"type:varchar(50);column:previous_status"`
	ConvertedToContract bool           `gorm:"not null;default:false;column:converted_to_contract"`
	AmbassadorID        *uuid.UUID     `gorm:"type:uuid;index;column:ambassador_id"`
	Ambassador          *Ambassador    `gorm:"foreignKey:AmbassadorID"`
	UserID              string         `gorm:"type:varchar(100);not null;column:user_id"`
	UserName            string         `gorm:"type:varchar(200);column:user_name"`
	Remarks             string         `gorm:"type:text"`
	Items               []EquipmentItem `gorm:"foreignKey:OfferID;constraint:OnDelete:CASCADE"`
	Documents           []Document      `gorm:"foreignKey:OfferID"`
}

// EquipmentItem is one equipment line of an offer. MonthlyPayment is derived
// from price, quantity, margin and the offer coefficient on every recompute.
type EquipmentItem struct {
	BaseModel
	OfferID        uuid.UUID `gorm:"type:uuid;not null;index;column:offer_id"`
	Title          string    `gorm:"type:varchar(300);not null"`
	PurchasePrice  float64   `gorm:"type:decimal(15,2);not null;column:purchase_price"`
	Quantity       int       `gorm:"not null;default:1"`
	MarginPercent  float64   `gorm:"type:decimal(6,2);not null;default:0;column:margin_percent"`
	MonthlyPayment float64   `gorm:"type:decimal(15,2);not null;default:0;column:monthly_payment"`
}

// WorkflowLog is the append-only audit trail of offer status transitions.
// Rows are never updated or deleted.
type WorkflowLog struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OfferID        uuid.UUID       `gorm:"type:uuid;not null;index;column:offer_id"`
	PreviousStatus *WorkflowStatus `gorm:"type:varchar(50);column:previous_status"`
	NewStatus      WorkflowStatus  `gorm:"type:varchar(50);not null;column:new_status"`
	Reason         string          `gorm:"type:text"`
	UserID         string          `gorm:"type:varchar(100);not null;column:user_id"`
	UserName       string          `gorm:"type:varchar(200);column:user_name"`
	CreatedAt      time.Time       `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// BeforeCreate assigns an ID client-side (sqlite in tests has no
// gen_random_uuid).
func (l *WorkflowLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName overrides the default table name to match the migration
func (WorkflowLog) TableName() string {
	return "offer_workflow_logs"
}

// ContractStatus represents the status of a contract
type ContractStatus string

const (
	ContractStatusSent      ContractStatus = "contract_sent"
	ContractStatusSigned    ContractStatus = "contract_signed"
	ContractStatusActive    ContractStatus = "active"
	ContractStatusCompleted ContractStatus = "completed"
)

// IsValid checks whether the contract status is a known value
func (cs ContractStatus) IsValid() bool {
	switch cs {
	case ContractStatusSent, ContractStatusSigned, ContractStatusActive, ContractStatusCompleted:
		return true
	}
	return false
}

// Contract is created when an offer is approved by the leaser. Once it
// exists the originating offer is presented as read-only.
type Contract struct {
	BaseModel
	OfferID        uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex;column:offer_id"`
	Offer          *Offer         `gorm:"foreignKey:OfferID"`
	ClientName     string         `gorm:"type:varchar(200);not null;column:client_name"`
	LeaserName     string         `gorm:"type:varchar(200);column:leaser_name"`
	Amount         float64        `gorm:"type:decimal(15,2);not null;default:0"`
	MonthlyPayment float64        `gorm:"type:decimal(15,2);not null;default:0;column:monthly_payment"`
	Status         ContractStatus `gorm:"type:varchar(50);not null;default:'contract_sent';index"`
}

// Document is a file attached to an offer, typically uploaded in response
// to an info_requested pause.
type Document struct {
	BaseModel
	OfferID     uuid.UUID `gorm:"type:uuid;not null;index;column:offer_id"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(100);not null;column:content_type"`
	Size        int64     `gorm:"not null"`
	StoragePath string    `gorm:"type:varchar(500);not null;unique;column:storage_path"`
	UploadedBy  string    `gorm:"type:varchar(100);column:uploaded_by"`
}

// UserRoleType represents a role a user can have
type UserRoleType string

const (
	RoleAdmin      UserRoleType = "admin"
	RolePartner    UserRoleType = "partner"
	RoleAmbassador UserRoleType = "ambassador"
	RoleClient     UserRoleType = "client"
)
