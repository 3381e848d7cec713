// Package storage defines the key-value storage contract shared by the
// session area and the keyed local store.
package storage

import "context"

// AreaName identifies a logical storage area.
type AreaName string

const (
	// AreaSession holds credentials and flat session fields.
	AreaSession AreaName = "session"

	// AreaLocal holds the persisted profile fields.
	AreaLocal AreaName = "local"
)

// Well-known keys.
const (
	// Session area.
	KeyToken     = "token"
	KeyStudentID = "studentId"

	// Local area.
	KeyAvatarURL = "avatarUrl"
	KeyName      = "name"
)

// Area is a flat string key-value area. Get reports ok=false when the key
// has never been written.
type Area interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
