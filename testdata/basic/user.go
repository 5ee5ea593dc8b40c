package basic

import (
	"time"
)

// User is the storage model.
//
//go:structconv:from=github.com/origadmin/structconv/testdata/fixtures/pb.User
//go:structconv:to=github.com/origadmin/structconv/testdata/fixtures/pb.User
type User struct {
	ID        int64
	Name      string
	Email     string
	Password  string `structconv:"-"`
	Roles     []Role
	Labels    map[string]string
	CreatedAt time.Time
	Session   time.Duration
}

type Role struct {
	ID   int64
	Name string
}
