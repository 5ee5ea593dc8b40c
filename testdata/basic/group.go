package basic

import (
	"cloud.google.com/go/civil"
)

// Membership binds a user to a role.
//
//go:structconv:to=Role
type Membership struct {
	ID       int64
	Name     string
	JoinedAt civil.DateTime
}
