// Package info holds build metadata injected with -ldflags and the id of this process.
package info

import (
	"fmt"

	"github.com/google/uuid"
)

var (
	Version    = "0.0.0"
	Dist       = "1"
	GitRev     = "000000"
	BuildTime  = "2000-01-01_00:00:00"
	InstanceID = uuid.New().String()
)

// Banner is logged once at startup
func Banner(app string) string {
	return fmt.Sprintf("%s v%s-%s (rev %s, built %s) instance %s", app, Version, Dist, GitRev, BuildTime, InstanceID)
}

// ShortID is the first block of InstanceID, used as a nats message source
func ShortID() string {
	if len(InstanceID) < 8 {
		return InstanceID
	}
	return InstanceID[:8]
}
