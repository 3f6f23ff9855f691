package logger

import "go.uber.org/zap"

// New returns the process logger. Development mode gets human-readable
// console output; production gets sampled JSON.
func New(dev bool) (*zap.Logger, error) {
	if dev {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
