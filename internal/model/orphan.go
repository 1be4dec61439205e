package model

// An Orphan records a stored blob whose registration failed and whose
// compensating delete failed too. The scheduler retries the removal.
type Orphan struct {
	Base `json:",inline" storm:"inline"`

	StorageKey string `json:"storage_key" storm:"unique"`
	Reason     string `json:"reason"`
}
