// Package pb mirrors the shape of protoc output for the fixtures.
package pb

import (
	"google.golang.org/protobuf/types/known/durationpb"
	"google.golang.org/protobuf/types/known/timestamppb"
)

type User struct {
	Id        int64
	Name      string
	Email     string
	Roles     []*Role
	Labels    map[string]string
	CreatedAt *timestamppb.Timestamp
	Session   *durationpb.Duration
}

type Role struct {
	Id   int64
	Name string
}
