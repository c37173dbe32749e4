package main

import (
	"fmt"
	"time"
)

type Config struct {
	Host                 string        `env:"HOST,default=0.0.0.0"`
	Port                 int           `env:"PORT,default=3000"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,default=info"`
	LimitMessages        *int          `env:"LIMIT_MESSAGES"`
	ConnectionBufferSize int           `env:"CONNECTION_BUFFER_SIZE,default=256"`
	SendTimeout          time.Duration `env:"SEND_TIMEOUT,default=1s"`
	StoreTimeout         time.Duration `env:"STORE_TIMEOUT,default=5s"`
	AuthTokenDuration    time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	CensoredWords        string        `env:"CENSORED_WORDS"`
	CensorReplacement    string        `env:"CENSOR_REPLACEMENT,default=*"`
}

// historyLimit applies the default of 50 replayed messages when the
// environment does not override it.
func (c Config) historyLimit() *int {
	if c.LimitMessages != nil {
		return c.LimitMessages
	}
	limit := 50
	return &limit
}

func characterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("CENSOR_REPLACEMENT must be a single character, got %q", str)
	}
	return r[0], nil
}
