package dialogue

import "errors"

// ErrStoreUnavailable wraps session store failures. The caller hears the
// generic apology; the turn is never dropped silently.
var ErrStoreUnavailable = errors.New("session store unavailable")
