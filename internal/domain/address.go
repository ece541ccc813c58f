package domain

import "time"

type Address struct {
	ID        uint64
	UserID    uint64
	FullName  string
	Line1     string
	City      string
	State     string
	Pincode   string
	Phone     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
