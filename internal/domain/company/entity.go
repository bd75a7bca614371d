package company

import "time"

const DefaultMaxUsers = 50

type Company struct {
	ID        string
	Name      string
	CNPJ      string
	Email     *string
	Phone     *string
	Address   *string
	City      *string
	State     *string
	ZipCode   *string
	MaxUsers  int
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasCapacity reports whether one more user fits under MaxUsers.
func (c *Company) HasCapacity(currentUsers int64) bool {
	return currentUsers < int64(c.MaxUsers)
}
