//go:build !amd64 && !arm64

package lane

func init() {
	// Other architectures run in scalar mode.
	setScalarMode()
}
