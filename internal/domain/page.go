package domain

import "encoding/json"

// RawPage is the decoded body of one pagination request: an ordered list of
// opaque product records plus response metadata. It is discarded after
// normalization.
type RawPage struct {
	Path       CategoryPath      `json:"path"`
	Offset     int               `json:"offset"`
	Records    []json.RawMessage `json:"records"`
	StatusCode int               `json:"status_code"`
	ByteLength int               `json:"byte_length"`
}

func (p *RawPage) Empty() bool {
	return p == nil || len(p.Records) == 0
}
