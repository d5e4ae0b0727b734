// Package export archives published sector and catalog files.
package export

import "time"

type Kind string

const (
	KindSector  Kind = "sector"
	KindCatalog Kind = "catalog"
)

func (k Kind) Valid() bool {
	return k == KindSector || k == KindCatalog
}

// Export is one published file. Body holds the JSON text as served.
type Export struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"sessionId"`
	Kind        Kind      `json:"kind"`
	GalaxyType  string    `json:"galaxyType"`
	StarCount   int       `json:"starCount"`
	PlanetCount int       `json:"planetCount"`
	Body        string    `json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Published tells the client where the file can be fetched.
type Published struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	URL  string `json:"url"`
}
