package models

// Table names
const (
	TableEntitlements = "entitlements"
	TableUsageLedger  = "usage_ledger_entries"
	TableCatalogTypes = "catalog_types"
	TableReceiptMemos = "receipt_memos"
)
