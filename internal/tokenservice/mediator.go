package tokenservice

import "errors"

// ErrForbidden means the caller is authenticated but not entitled to the
// target resource.
var ErrForbidden = errors.New("forbidden")

// AuthorizeSelf applies the only authorization rule in the system: a caller
// may act on a user resource only when the token subject is that user.
func (c *Claims) AuthorizeSelf(targetUserID int) error {
	if c == nil || c.UserID != targetUserID {
		return ErrForbidden
	}

	return nil
}
