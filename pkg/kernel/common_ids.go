package kernel

import (
	"regexp"

	"github.com/google/uuid"
)

type UserID string

func NewUserID(id string) UserID { return UserID(id) }
func (u UserID) String() string  { return string(u) }
func (u UserID) IsEmpty() bool   { return string(u) == "" }

// NewID returns a fresh random identifier
func NewID() string { return uuid.NewString() }

// objectIDHex matches ids minted by Mongo for documents created before this
// service owned the collection
var objectIDHex = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// IsValidID reports whether id is a UUID or a 24-digit hex ObjectId
func IsValidID(id string) bool {
	if objectIDHex.MatchString(id) {
		return true
	}
	_, err := uuid.Parse(id)
	return err == nil
}
