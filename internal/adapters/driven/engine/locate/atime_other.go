//go:build !linux

package locate

import (
	"os"
	"time"
)

func accessTime(_ os.FileInfo) time.Time {
	return time.Time{}
}
