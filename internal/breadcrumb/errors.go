package breadcrumb

import (
	"errors"
	"fmt"
)

// Sentinel errors. Every failure returned by this package matches one of
// them via errors.Is.
var (
	// ErrMissingProperty indicates the owner lacks the property used as label.
	ErrMissingProperty = errors.New("missing owner property")
	// ErrMissingMethod indicates the owner lacks the method used to build the route.
	ErrMissingMethod = errors.New("missing owner method")
	// ErrInvalidConfig indicates an unusable filter configuration.
	ErrInvalidConfig = errors.New("invalid breadcrumb config")
)

// OwnerError reports a capability the owner does not provide.
type OwnerError struct {
	// OwnerID is the id of the offending owner.
	OwnerID string
	// Member is the property or method name that was looked up.
	Member string
	// Err is ErrMissingProperty or ErrMissingMethod.
	Err error
}

func (e *OwnerError) Error() string {
	kind := "member"

	switch {
	case errors.Is(e.Err, ErrMissingProperty):
		kind = "property"
	case errors.Is(e.Err, ErrMissingMethod):
		kind = "method"
	}

	return fmt.Sprintf("breadcrumb owner %q should provide %s %q: %v", e.OwnerID, kind, e.Member, e.Err)
}

func (e *OwnerError) Unwrap() error { return e.Err }

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s: %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Is reports whether target is ErrInvalidConfig. A bad route creator also
// matches ErrMissingProperty, since it is a missing configuration property
// from the owner's point of view.
func (e *ConfigError) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}

	return e.Field == fieldRouteCreator && target == ErrMissingProperty
}
