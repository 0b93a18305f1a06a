package internal

type MatchTier string

const (
	TierExact  MatchTier = "exact"
	TierHigh   MatchTier = "high"
	TierMedium MatchTier = "medium"
	TierLow    MatchTier = "low"
)

// LineItem is the shared shape for both PO and PI lines. Extracted PI data is
// noisy, so everything except the name is optional; an item with neither code
// nor name cannot be matched.
type LineItem struct {
	ID          string   `json:"id"`
	ProductCode *string  `json:"productCode,omitempty"`
	ProductName string   `json:"productName"`
	Qty         *float64 `json:"qty,omitempty"`
	UnitPrice   *float64 `json:"unitPrice,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
}

type PurchaseOrder struct {
	ID          string     `json:"id"`
	OrderNumber string     `json:"orderNumber"`
	ClientName  string     `json:"clientName"`
	ProjectCode *string    `json:"projectCode,omitempty"`
	Items       []LineItem `json:"items"`
}

// PIItem is one proforma-invoice line. Linkage fields stay nil until an
// operator confirms a match; once set they are inputs to the exclusivity rule
// and the engine never clears them.
type PIItem struct {
	LineItem
	InvoiceRef string `json:"invoiceRef"`

	MatchedPOID        *string    `json:"matchedPoId,omitempty"`
	MatchedPOLineID    *string    `json:"matchedPoLineId,omitempty"`
	MatchedClientCode  *string    `json:"matchedClientCode,omitempty"`
	MatchedProjectCode *string    `json:"matchedProjectCode,omitempty"`
	Matched            bool       `json:"matched"`
	MatchConfidence    *int       `json:"matchConfidence,omitempty"`
	MatchTier          *MatchTier `json:"matchTier,omitempty"`
}

// MatchCandidate is one proposed (PI item, PO line) pairing, valid for the
// run that produced it.
type MatchCandidate struct {
	POID          string    `json:"poId"`
	PONumber      string    `json:"poNumber"`
	POLineID      string    `json:"poLineId"`
	ClientName    string    `json:"clientName"`
	ProjectCode   *string   `json:"projectCode,omitempty"`
	Item          LineItem  `json:"item"`
	Score         float64   `json:"score"`
	Confidence    int       `json:"confidence"`
	Tier          MatchTier `json:"tier"`
	MatchedFields []string  `json:"matchedFields"`
}

type ItemMatches struct {
	PIItem  PIItem           `json:"piItem"`
	Matches []MatchCandidate `json:"matches"`
}

type ReconcileSummary struct {
	TotalItems            int     `json:"totalItems"`
	AlreadyMatchedItems   int     `json:"alreadyMatchedItems"`
	SearchedItems         int     `json:"searchedItems"`
	MatchedItems          int     `json:"matchedItems"`
	NoMatchItems          int     `json:"noMatchItems"`
	HighConfidenceMatches int     `json:"highConfidenceMatches"`
	MatchRate             float64 `json:"matchRate"`
}

type ReconcileResult struct {
	Success bool             `json:"success"`
	Matches []ItemMatches    `json:"matches"`
	Summary ReconcileSummary `json:"summary"`
	Error   string           `json:"error,omitempty"`
}

type Supplier struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ReconcileExportRow is one flattened report line: the PI item, its best
// candidate, and the runner-up for review context.
type ReconcileExportRow struct {
	InvoiceRef      string
	PIItemID        string
	ProductCode     *string
	ProductName     string
	Qty             *float64
	UnitPrice       *float64
	PONumber        *string
	POLineCode      *string
	POLineName      *string
	POQty           *float64
	POUnitPrice     *float64
	Score           *float64
	Confidence      *int
	Tier            *string
	MatchedFields   *string
	Candidate2Name  *string
	Candidate2Score *float64
}
