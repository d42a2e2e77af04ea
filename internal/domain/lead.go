package domain

import (
	"strings"
	"time"
)

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Funnel status values as they appear in the lead records. The data is
// human-entered, so aggregation code matches through the normalized sets
// below instead of comparing raw strings.
const (
	StatusNew                 = "Yeni"
	StatusContacted           = "Arandı"
	StatusUnreachable         = "Ulaşılamadı"
	StatusBusy                = "Meşgul"
	StatusCallAgain           = "Tekrar Aranacak"
	StatusNoAnswer            = "Cevap Yok"
	StatusApplicationReceived = "Başvuru Alındı"
	StatusGuarantorRequested  = "Kefil İstendi"
	StatusAwaitingDocuments   = "Evrak Bekleniyor"
	StatusApproved            = "Onaylandı"
	StatusDelivered           = "Teslim Edildi"
	StatusSold                = "Satış Yapıldı"
	StatusRejected            = "Reddetti"
	StatusCancelled           = "İptal"
)

// Approval sub-status values.
const (
	ApprovalPending  = "Beklemede"
	ApprovalApproved = "Onaylandı"
	ApprovalRejected = "Reddedildi"
)

// OperatorUnassigned buckets conversions that cannot be attributed to any
// operator, so report totals stay reconcilable.
const OperatorUnassigned = "Unassigned"

// newStatuses lists every spelling of "untouched lead" seen in the data,
// including rows imported from the old English-labelled system.
var newStatuses = statusSet(StatusNew, "New")

// retryStatuses are the unreachable/call-back pool.
var retryStatuses = statusSet(StatusUnreachable, StatusBusy, StatusCallAgain, StatusNoAnswer)

// RetryStatusValues lists the canonical retry pool spellings for store-level
// filtering.
func RetryStatusValues() []string {
	return []string{StatusUnreachable, StatusBusy, StatusCallAgain, StatusNoAnswer}
}

// applicationStatuses are statuses at or past the application stage.
var applicationStatuses = statusSet(
	StatusApplicationReceived,
	StatusGuarantorRequested,
	StatusAwaitingDocuments,
	StatusApproved,
	StatusDelivered,
	StatusSold,
)

// deliveredStatuses are terminal converted states.
var deliveredStatuses = statusSet(StatusDelivered, StatusSold, "Delivered")

// rejectedStatuses and cancelledStatuses are the drop-out terminals.
var rejectedStatuses = statusSet(StatusRejected, "Rejected")

var cancelledStatuses = statusSet(StatusCancelled, "Cancelled")

func statusSet(values ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[normalizeStatus(v)] = struct{}{}
	}
	return set
}

func normalizeStatus(s string) string {
	return trimLower(s)
}

// StatusIsNew reports whether the lead has never been worked.
func StatusIsNew(status string) bool {
	_, ok := newStatuses[normalizeStatus(status)]
	return ok
}

// StatusIsRetry reports whether the lead sits in the unreachable/retry pool.
func StatusIsRetry(status string) bool {
	_, ok := retryStatuses[normalizeStatus(status)]
	return ok
}

// StatusIsApplication reports whether the status is at application stage or later.
func StatusIsApplication(status string) bool {
	_, ok := applicationStatuses[normalizeStatus(status)]
	return ok
}

// StatusIsDelivered reports whether the lead reached a converted terminal state.
func StatusIsDelivered(status string) bool {
	_, ok := deliveredStatuses[normalizeStatus(status)]
	return ok
}

// StatusIsRejected reports whether the customer declined.
func StatusIsRejected(status string) bool {
	_, ok := rejectedStatuses[normalizeStatus(status)]
	return ok
}

// StatusIsCancelled reports whether the lead was cancelled.
func StatusIsCancelled(status string) bool {
	_, ok := cancelledStatuses[normalizeStatus(status)]
	return ok
}

// SoldItem is one line item of a converted lead. Price and sale date are kept
// as the raw strings the operators typed; parsing happens in the aggregation
// engine with the defensive money/date parsers.
type SoldItem struct {
	Brand    string `json:"brand"`
	Model    string `json:"model"`
	Price    string `json:"price"`
	SaleDate string `json:"sale_date"`
}

// Lead is the current-state snapshot of a prospective or closed sale. The
// engine only ever reads leads; every optional legacy field is nullable.
type Lead struct {
	ID              string     `json:"id"`
	FullName        string     `json:"full_name"`
	Phone           *string    `json:"phone,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       *time.Time `json:"updated_at,omitempty"`
	Status          string     `json:"status"`
	ApprovalState   *string    `json:"approval_state,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
	SoldAt          *time.Time `json:"sold_at,omitempty"`
	Operator        *string    `json:"operator,omitempty"`
	Product         *string    `json:"product,omitempty"`
	RequestedAmount *string    `json:"requested_amount,omitempty"`
	ApprovedLimit   *string    `json:"approved_limit,omitempty"`
	SoldItems       []SoldItem `json:"sold_items,omitempty"`
	City            *string    `json:"city,omitempty"`
	Profession      *string    `json:"profession,omitempty"`
	BirthDate       *string    `json:"birth_date,omitempty"`
	Income          *string    `json:"income,omitempty"`
	Channel         *string    `json:"channel,omitempty"`
	CancelReason    *string    `json:"cancel_reason,omitempty"`
}

// HasApprovalDecision reports whether an approval sub-status has been recorded
// and is past Pending.
func (l *Lead) HasApprovalDecision() bool {
	if l.ApprovalState == nil {
		return false
	}
	state := trimLower(*l.ApprovalState)
	return state != "" && state != trimLower(ApprovalPending)
}

// IsApproved reports whether the approval sub-status is Approved.
func (l *Lead) IsApproved() bool {
	return l.ApprovalState != nil && trimLower(*l.ApprovalState) == trimLower(ApprovalApproved)
}

// IsApprovalRejected reports whether the approval sub-status is Rejected.
func (l *Lead) IsApprovalRejected() bool {
	return l.ApprovalState != nil && trimLower(*l.ApprovalState) == trimLower(ApprovalRejected)
}

// ScalarAmount is the fallback monetary field for delivered leads without
// sold items: approved limit when present, requested amount otherwise.
func (l *Lead) ScalarAmount() string {
	if l.ApprovedLimit != nil && *l.ApprovedLimit != "" {
		return *l.ApprovedLimit
	}
	if l.RequestedAmount != nil {
		return *l.RequestedAmount
	}
	return ""
}

// ConversionInstant is the best-known instant of the conversion: delivery
// first, sale as fallback.
func (l *Lead) ConversionInstant() *time.Time {
	if l.DeliveredAt != nil {
		return l.DeliveredAt
	}
	return l.SoldAt
}

// StringValue dereferences an optional field, mapping nil to "".
func StringValue(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
