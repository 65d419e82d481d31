package logging

import (
	"go.uber.org/zap"
)

// Client exposes convenience helpers for writing log entries.
type Client interface {
	Info(message string)
	Warn(message string)
	Error(message string)
	Debug(message string)
	Trace(message string)
}

// Config controls how a Client instance writes entries.
type Config struct {
	// Logger receives the entries. If nil, a development logger writing to
	// stderr is created.
	Logger *zap.Logger
}

// client implements Client on top of a zap logger.
type client struct {
	logger *zap.Logger
}

// New creates a Client that writes through the configured zap logger.
func New(cfg Config) (Client, error) {
	logger := cfg.Logger
	if logger == nil {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			return nil, err
		}
	}

	return &client{logger: logger.Named("mockfetch")}, nil
}

// Nop returns a Client that discards every entry.
func Nop() Client {
	return &client{logger: zap.NewNop()}
}

func (c *client) Info(message string)  { c.logger.Info(message) }
func (c *client) Warn(message string)  { c.logger.Warn(message) }
func (c *client) Error(message string) { c.logger.Error(message) }
func (c *client) Debug(message string) { c.logger.Debug(message) }

// Trace has no zap level of its own and is written at debug level.
func (c *client) Trace(message string) { c.logger.Debug(message, zap.Bool("trace", true)) }
