package utils

import (
	"log"
	"os"
)

// InitLogger returns the application logger. Kept as a constructor so tests
// can swap the output stream.
func InitLogger(output ...*os.File) *log.Logger {
	out := os.Stdout
	if len(output) > 0 && output[0] != nil {
		out = output[0]
	}
	return log.New(out, "[mini-lms] ", log.LstdFlags|log.LUTC)
}
