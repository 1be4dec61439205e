package model

// A Share binds a public token to the blob stored in the backend.
// The token is the only handle ever exposed to a recipient.
type Share struct {
	Base `json:",inline" storm:"inline"`

	Token      string `json:"token"       storm:"unique"`
	StorageKey string `json:"storage_key" storm:"unique"`

	Filename    string `json:"filename"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Checksum    string `json:"checksum"`
}
