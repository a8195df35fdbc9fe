// Package catalog provides the master data field visits refer to: the brands
// that are audited, the retail chains, and the individual stores.
package catalog

import (
	"strings"
	"time"
)

// Kind names a catalog collection. The values double as API path segments.
type Kind string

const (
	KindBrand Kind = "brands"
	KindChain Kind = "chains"
	KindStore Kind = "stores"
)

// ValidKinds is the set of catalog collections.
var ValidKinds = []Kind{KindBrand, KindChain, KindStore}

// IsValid checks if a kind is recognized.
func (k Kind) IsValid() bool {
	for _, v := range ValidKinds {
		if k == v {
			return true
		}
	}
	return false
}

// singular returns the noun used in error messages.
func (k Kind) singular() string {
	return strings.TrimSuffix(string(k), "s")
}

// Brand is a product brand checked during visits.
type Brand struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Chain is a retail chain.
type Chain struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	StoreCount int       `json:"store_count"`
	Regions    []string  `json:"regions"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is a single supermarket that can be visited.
type Store struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Chain     string    `json:"chain"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	CreatedAt time.Time `json:"created_at"`
}

// FullAddress joins the street address and city.
func (s *Store) FullAddress() string {
	switch {
	case s.City == "":
		return s.Address
	case s.Address == "":
		return s.City
	default:
		return s.Address + ", " + s.City
	}
}

func joinRegions(regions []string) string {
	clean := make([]string, 0, len(regions))
	for _, r := range regions {
		if r = strings.TrimSpace(r); r != "" {
			clean = append(clean, r)
		}
	}
	return strings.Join(clean, ",")
}

func splitRegions(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
