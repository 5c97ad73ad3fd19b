// Package mapper converts domain entities to API DTOs
package mapper

import (
	"time"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
)

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// LeaserRangeToDTO converts a single coefficient range
func LeaserRangeToDTO(r *domain.LeaserRange) domain.LeaserRangeDTO {
	return domain.LeaserRangeDTO{
		ID:          r.ID,
		Min:         r.Min,
		Max:         r.Max,
		Coefficient: r.Coefficient,
		Position:    r.Position,
	}
}

// LeaserToDTO converts a Leaser entity to its DTO
func LeaserToDTO(l *domain.Leaser) domain.LeaserDTO {
	ranges := make([]domain.LeaserRangeDTO, len(l.Ranges))
	for i := range l.Ranges {
		ranges[i] = LeaserRangeToDTO(&l.Ranges[i])
	}
	return domain.LeaserDTO{
		ID:        l.ID,
		Name:      l.Name,
		LogoURL:   l.LogoURL,
		Ranges:    ranges,
		CreatedAt: formatTime(l.CreatedAt),
		UpdatedAt: formatTime(l.UpdatedAt),
	}
}

// LeasersToDTO converts a slice of leasers
func LeasersToDTO(leasers []domain.Leaser) []domain.LeaserDTO {
	dtos := make([]domain.LeaserDTO, len(leasers))
	for i := range leasers {
		dtos[i] = LeaserToDTO(&leasers[i])
	}
	return dtos
}

// CommissionLevelToDTO converts a CommissionLevel entity to its DTO
func CommissionLevelToDTO(l *domain.CommissionLevel) domain.CommissionLevelDTO {
	ranges := make([]domain.CommissionRangeDTO, len(l.Ranges))
	for i, r := range l.Ranges {
		ranges[i] = domain.CommissionRangeDTO{
			ID:       r.ID,
			Min:      r.Min,
			Max:      r.Max,
			Rate:     r.Rate,
			Amount:   r.Amount,
			Position: r.Position,
		}
	}
	return domain.CommissionLevelDTO{
		ID:            l.ID,
		Name:          l.Name,
		PrincipalType: l.PrincipalType,
		IsDefault:     l.IsDefault,
		Ranges:        ranges,
		CreatedAt:     formatTime(l.CreatedAt),
		UpdatedAt:     formatTime(l.UpdatedAt),
	}
}

// CommissionLevelsToDTO converts a slice of commission levels
func CommissionLevelsToDTO(levels []domain.CommissionLevel) []domain.CommissionLevelDTO {
	dtos := make([]domain.CommissionLevelDTO, len(levels))
	for i := range levels {
		dtos[i] = CommissionLevelToDTO(&levels[i])
	}
	return dtos
}

// ClientToDTO converts a Client entity to its DTO
func ClientToDTO(c *domain.Client) domain.ClientDTO {
	return domain.ClientDTO{
		ID:         c.ID,
		Name:       c.Name,
		Email:      c.Email,
		Company:    c.Company,
		VATNumber:  c.VATNumber,
		Phone:      c.Phone,
		Address:    c.Address,
		City:       c.City,
		PostalCode: c.PostalCode,
		Country:    c.Country,
		CreatedAt:  formatTime(c.CreatedAt),
		UpdatedAt:  formatTime(c.UpdatedAt),
	}
}

// ClientsToDTO converts a slice of clients
func ClientsToDTO(clients []domain.Client) []domain.ClientDTO {
	dtos := make([]domain.ClientDTO, len(clients))
	for i := range clients {
		dtos[i] = ClientToDTO(&clients[i])
	}
	return dtos
}

// AmbassadorToDTO converts an Ambassador entity to its DTO
func AmbassadorToDTO(a *domain.Ambassador) domain.AmbassadorDTO {
	dto := domain.AmbassadorDTO{
		ID:                a.ID,
		Name:              a.Name,
		Email:             a.Email,
		Phone:             a.Phone,
		Region:            a.Region,
		CommissionLevelID: a.CommissionLevelID,
		CreatedAt:         formatTime(a.CreatedAt),
		UpdatedAt:         formatTime(a.UpdatedAt),
	}
	if a.CommissionLevel != nil {
		dto.CommissionLevelName = a.CommissionLevel.Name
	}
	return dto
}

// AmbassadorsToDTO converts a slice of ambassadors
func AmbassadorsToDTO(ambassadors []domain.Ambassador) []domain.AmbassadorDTO {
	dtos := make([]domain.AmbassadorDTO, len(ambassadors))
	for i := range ambassadors {
		dtos[i] = AmbassadorToDTO(&ambassadors[i])
	}
	return dtos
}

// OfferToDTO converts an Offer entity to its DTO
func OfferToDTO(o *domain.Offer) domain.OfferDTO {
	items := make([]domain.EquipmentItemDTO, len(o.Items))
	for i, item := range o.Items {
		items[i] = domain.EquipmentItemDTO{
			ID:             item.ID,
			Title:          item.Title,
			PurchasePrice:  item.PurchasePrice,
			Quantity:       item.Quantity,
			MarginPercent:  item.MarginPercent,
			MonthlyPayment: item.MonthlyPayment,
		}
	}
	dto := domain.OfferDTO{
		ID:                  o.ID,
		ClientID:            o.ClientID,
		ClientName:          o.ClientName,
		ClientEmail:         o.ClientEmail,
		LeaserID:            o.LeaserID,
		EquipmentText:       o.EquipmentText,
		Amount:              o.Amount,
		CoefficientUsed:     o.CoefficientUsed,
		MonthlyPayment:      o.MonthlyPayment,
		Commission:          o.Commission,
		Margin:              o.Margin,
		AdjustmentActive:    o.AdjustmentActive,
		AdjustmentCoef:      o.AdjustmentCoef,
		MarginDifference:    o.MarginDifference,
		Type:                o.Type,
		WorkflowStatus:      o.WorkflowStatus,
		PreviousStatus:      o.PreviousStatus,
		ConvertedToContract: o.ConvertedToContract,
		AmbassadorID:        o.AmbassadorID,
		UserID:              o.UserID,
		UserName:            o.UserName,
		Remarks:             o.Remarks,
		Items:               items,
		CreatedAt:           formatTime(o.CreatedAt),
		UpdatedAt:           formatTime(o.UpdatedAt),
	}
	if o.Leaser != nil {
		dto.LeaserName = o.Leaser.Name
	}
	return dto
}

// OffersToDTO converts a slice of offers
func OffersToDTO(offers []domain.Offer) []domain.OfferDTO {
	dtos := make([]domain.OfferDTO, len(offers))
	for i := range offers {
		dtos[i] = OfferToDTO(&offers[i])
	}
	return dtos
}

// WorkflowLogToDTO converts a WorkflowLog entity to its DTO
func WorkflowLogToDTO(l *domain.WorkflowLog) domain.WorkflowLogDTO {
	return domain.WorkflowLogDTO{
		ID:             l.ID,
		OfferID:        l.OfferID,
		PreviousStatus: l.PreviousStatus,
		NewStatus:      l.NewStatus,
		Reason:         l.Reason,
		UserID:         l.UserID,
		UserName:       l.UserName,
		CreatedAt:      formatTime(l.CreatedAt),
	}
}

// WorkflowLogsToDTO converts a slice of workflow logs
func WorkflowLogsToDTO(logs []domain.WorkflowLog) []domain.WorkflowLogDTO {
	dtos := make([]domain.WorkflowLogDTO, len(logs))
	for i := range logs {
		dtos[i] = WorkflowLogToDTO(&logs[i])
	}
	return dtos
}

// ContractToDTO converts a Contract entity to its DTO
func ContractToDTO(c *domain.Contract) domain.ContractDTO {
	return domain.ContractDTO{
		ID:             c.ID,
		OfferID:        c.OfferID,
		ClientName:     c.ClientName,
		LeaserName:     c.LeaserName,
		Amount:         c.Amount,
		MonthlyPayment: c.MonthlyPayment,
		Status:         c.Status,
		CreatedAt:      formatTime(c.CreatedAt),
		UpdatedAt:      formatTime(c.UpdatedAt),
	}
}

// ContractsToDTO converts a slice of contracts
func ContractsToDTO(contracts []domain.Contract) []domain.ContractDTO {
	dtos := make([]domain.ContractDTO, len(contracts))
	for i := range contracts {
		dtos[i] = ContractToDTO(&contracts[i])
	}
	return dtos
}

// DocumentToDTO converts a Document entity to its DTO
func DocumentToDTO(d *domain.Document) domain.DocumentDTO {
	return domain.DocumentDTO{
		ID:          d.ID,
		OfferID:     d.OfferID,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		UploadedBy:  d.UploadedBy,
		CreatedAt:   formatTime(d.CreatedAt),
	}
}

// DocumentsToDTO converts a slice of documents
func DocumentsToDTO(docs []domain.Document) []domain.DocumentDTO {
	dtos := make([]domain.DocumentDTO, len(docs))
	for i := range docs {
		dtos[i] = DocumentToDTO(&docs[i])
	}
	return dtos
}
