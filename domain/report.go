package domain

import "github.com/shopspring/decimal"

// DateRange bounds a report. Either end may be zero for an open range.
type DateRange struct {
	Start Date `json:"startDate"`
	End   Date `json:"endDate"`
}

type SaleProfit struct {
	InvoiceID string          `json:"invoiceId"`
	Date      Date            `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
}

type TreatmentProfit struct {
	InvoiceID string          `json:"invoiceId"`
	Date      Date            `json:"date"`
	Charged   decimal.Decimal `json:"charged"`
	Cost      decimal.Decimal `json:"cost"`
	Profit    decimal.Decimal `json:"profit"`
}

type ProfitLossReport struct {
	Sales                []SaleProfit      `json:"sales"`
	Treatments           []TreatmentProfit `json:"treatments"`
	TotalSalesProfit     decimal.Decimal   `json:"totalSalesProfit"`
	TotalTreatmentProfit decimal.Decimal   `json:"totalTreatmentProfit"`
	GrandTotalProfit     decimal.Decimal   `json:"grandTotalProfit"`
}

type InventoryReportItem struct {
	Product
	IsLowStock   bool            `json:"isLowStock"`
	IsNearExpiry bool            `json:"isNearExpiry"`
	IsTopSeller  bool            `json:"isTopSeller"`
	SoldQty      decimal.Decimal `json:"soldQty"`
}

type PartyReportItem struct {
	ID                 string          `json:"id"`
	Name               string          `json:"name"`
	Phone              string          `json:"phone"`
	OutstandingBalance decimal.Decimal `json:"outstandingBalance"`
	TotalBusiness      decimal.Decimal `json:"totalBusiness"`
}

// DashboardAlerts lists products needing attention on the dashboard.
type DashboardAlerts struct {
	LowStock []Product `json:"lowStock"`
	Expiring []Product `json:"expiring"`
}
