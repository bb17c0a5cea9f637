//go:build !dwf

package dwf

// NewNativeDriver returns ErrNativeUnavailable: this binary was built
// without the dwf build tag and does not link libdwf.
func NewNativeDriver() (Driver, error) {
	return nil, ErrNativeUnavailable
}
