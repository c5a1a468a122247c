package sheets

import "errors"

// ErrProvider marks any failure to obtain or decode the ranking range:
// transport, authentication, non-2xx status, or malformed body.
var ErrProvider = errors.New("sheet provider failed")
