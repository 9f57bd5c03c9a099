package models

// DomainStat holds completion statistics for one content domain
type DomainStat struct {
	DomainName string `json:"domainName"`
	Completed  int    `json:"completed"`
	Total      int    `json:"total"`
	Percentage int    `json:"percentage"`
}
