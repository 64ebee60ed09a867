package enhance

import "errors"

var (
	ErrProviderUnavailable = errors.New("enhancement provider unavailable")
	ErrEnhanceTimeout      = errors.New("enhancement timeout")
	ErrInvalidResponse     = errors.New("enhancement provider returned invalid response")
)
