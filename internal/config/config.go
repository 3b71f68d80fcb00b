package config

import "time"

type Config interface {
	Port() string

	ReadSize() int
	InitialBufferSize() int
	MaxHeaderBytes() int

	ReadTimeout() time.Duration

	LogLevel() string
	LogDevelopment() bool
}

func MustLoad() (Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, err
	}

	cfg, err := parse()
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *config) Port() string               { return c.port }
func (c *config) ReadSize() int              { return c.readSize }
func (c *config) InitialBufferSize() int     { return c.initialBufferSize }
func (c *config) MaxHeaderBytes() int        { return c.maxHeaderBytes }
func (c *config) ReadTimeout() time.Duration { return c.readTimeout }
func (c *config) LogLevel() string           { return c.logLevel }
func (c *config) LogDevelopment() bool       { return c.logDevelopment }
