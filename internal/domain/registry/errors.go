package registry

import "errors"

// ErrIdentity is returned when a raw identifier does not follow the
// name<slot><id><team> shape.
var ErrIdentity = errors.New("malformed player identifier")
