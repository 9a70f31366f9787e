// Package util holds small helpers shared by the command binaries.
package util

import (
	"fmt"
	"log"
	"os"
)

// InitLog sends the standard logger to dest, appending, with prefix on each
// line.
func InitLog(dest, prefix string) error {
	f, err := os.OpenFile(dest, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o666)
	if err != nil {
		return fmt.Errorf("error opening log file: %w", err)
	}
	log.SetOutput(f)
	log.SetPrefix(prefix)
	return nil
}
