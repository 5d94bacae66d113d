package models

// Greeting is the single resource exposed by the web service.
type Greeting struct {
	TransactionalEntity
	Text string `json:"text" db:"text"`
}

// Clone returns a copy of the greeting. The cache stores snapshots, so
// callers never share a mutable instance with it.
func (g *Greeting) Clone() *Greeting {
	if g == nil {
		return nil
	}
	c := *g
	if g.UpdatedBy != nil {
		by := *g.UpdatedBy
		c.UpdatedBy = &by
	}
	if g.UpdatedAt != nil {
		at := *g.UpdatedAt
		c.UpdatedAt = &at
	}
	return &c
}
