// package bundle builds the client loadable wire payload for a set of
// module bodies: a callback invocation over an ordered map of escaped
// module path keys to module definition closures, with null markers
// for members whose fetch failed
package bundle

import "regexp"

// validCallback admits nested property and call expressions such as
// `ns.define` or `require.define` while rejecting anything that could
// be confused with markup when reflected into a page.
var validCallback = regexp.MustCompile(`^[a-zA-Z0-9$:._'"\\()\[\]{}]+$`)

// ValidateCallback checks the callback query parameter against the
// restricted callback grammar, distinguishing a missing/empty callback
// from a malformed one.
func ValidateCallback(callback string) error {
	if callback == "" {
		return ErrCallbackMissing
	}

	if !validCallback.MatchString(callback) {
		return ErrCallbackInvalid
	}

	return nil
}
