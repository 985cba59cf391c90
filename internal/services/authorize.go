package services

import "fmt"

// Action is a mutation that requires ownership of its target
type Action string

const (
	ActionEditPost      Action = "edit post"
	ActionDeletePost    Action = "delete post"
	ActionDeleteComment Action = "delete comment"
)

// Owned is implemented by every resource with a single owning account
type Owned interface {
	OwnerID() uint
}

// Authorize allows the action only when actorID owns the resource
func Authorize(action Action, actorID uint, resource Owned) error {
	if actorID == 0 || resource == nil || resource.OwnerID() != actorID {
		return forbidden(fmt.Sprintf("not allowed to %s", action))
	}
	return nil
}
