package scroll

import "errors"

// ErrInvalidConfig is returned when a region, threshold, fade window or anchor
// cannot be used. Registration failures leave earlier registrations intact.
var ErrInvalidConfig = errors.New("invalid scroll configuration")
