package domain

import "time"

// AuthorRole distinguishes team members from client-side participants.
// Roles are resolved against the configured team-handle allow-list before
// messages reach the extractor.
type AuthorRole string

const (
	RoleTeam     AuthorRole = "team"
	RoleExternal AuthorRole = "external"
)

// Message is a read-only snapshot of one chat message. Text may be empty
// (service messages, media without caption) and is skipped during matching.
type Message struct {
	Text       string
	Timestamp  time.Time
	AuthorRole AuthorRole
}

// Category names one stage-triggering textual condition.
type Category string

const (
	CategoryQuestionnaireSent  Category = "questionnaireSent"
	CategoryClientProvidedData Category = "clientProvidedData"
	CategoryContractOffer      Category = "contractOffer"
	CategoryContractSigned     Category = "contractSigned"
	CategoryInvoiceSent        Category = "invoiceSent"
	CategoryPaymentConfirmed   Category = "paymentConfirmed"
	CategoryPaymentNegated     Category = "paymentNegated"
	CategoryPrepaymentAllowed  Category = "prepaymentAllowed"
	CategoryPreLaunchDataOps   Category = "preLaunchDataOps"
	CategoryCampaignLaunched   Category = "campaignLaunched"
	CategoryReportDue          Category = "reportDue"
	CategoryReportDelivered    Category = "reportDelivered"
)

// Evidence is one category's extraction result. LastMatchedAt is the
// timestamp of the most recent matching message, used for recency
// tie-breaks between payment confirmation and negation.
type Evidence struct {
	Matched       bool
	LastMatchedAt time.Time
	SampleLine    string
}

// EvidenceSet maps categories to their extraction results. Built fresh on
// every evaluation, never persisted.
type EvidenceSet map[Category]Evidence

// Matched reports whether the category had at least one hit.
func (es EvidenceSet) Matched(cat Category) bool {
	return es[cat].Matched
}

// LastMatchedAt returns the most recent hit timestamp for the category,
// zero when unmatched.
func (es EvidenceSet) LastMatchedAt(cat Category) time.Time {
	return es[cat].LastMatchedAt
}
