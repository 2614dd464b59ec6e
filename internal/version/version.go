// internal/version/version.go
package version

// Version is overridable at link time:
//
//	go build -ldflags "-X ribopred/internal/version.Version=v1.2.3"
var Version = "0.3.0"
