package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure independently of the transport
type Kind int

const (
	KindUnknown Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindInvalidInput
	KindConflict
	KindStoreUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "notFound"
	case KindInvalidInput:
		return "invalidInput"
	case KindConflict:
		return "conflict"
	case KindStoreUnavailable:
		return "storeUnavailable"
	}
	return "unknown"
}

// Machine-readable reasons returned to clients
const (
	ReasonUnauthorized         = "unauthorized"
	ReasonForbidden            = "forbidden"
	ReasonAccountNotFound      = "accountNotFound"
	ReasonPostNotFound         = "postNotFound"
	ReasonCommentNotFound      = "commentNotFound"
	ReasonUserNotFound         = "userNotFound"
	ReasonNotificationNotFound = "notificationNotFound"
	ReasonAlreadyLiked         = "alreadyLiked"
	ReasonAlreadyFollowing     = "alreadyFollowing"
	ReasonSelfFollow           = "selfFollow"
	ReasonInvalidContent       = "invalidContent"
	ReasonCaptionTooLong       = "captionTooLong"
	ReasonMissingImage         = "missingImage"
	ReasonImageTooLarge        = "imageTooLarge"
	ReasonNotAnImage           = "notAnImage"
	ReasonStoreUnavailable     = "storeUnavailable"
	ReasonUploadFailed         = "uploadFailed"
)

// Error is the error type returned by every service operation
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf reports the Kind of err, or KindUnknown when err is not a service error
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUnknown
}

func forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Reason: ReasonForbidden, Message: msg}
}

func notFound(reason, msg string) error {
	return &Error{Kind: KindNotFound, Reason: reason, Message: msg}
}

func invalidInput(reason, msg string) error {
	return &Error{Kind: KindInvalidInput, Reason: reason, Message: msg}
}

func conflict(reason, msg string) error {
	return &Error{Kind: KindConflict, Reason: reason, Message: msg}
}

func storeUnavailable(op string, err error) error {
	return &Error{Kind: KindStoreUnavailable, Reason: ReasonStoreUnavailable, Message: op, Err: err}
}
