package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/castkeeper/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string   HTTP bind address (e.g., "127.0.0.1:8080")
//	-s string   JWT HMAC secret key
//	-t int      token validity, minutes
//	-o int      OTP validity, minutes
//	-l string   log format: text or json
func parseFlags(config *Config) error {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-s", "-t", "-o", "-l"})

	fs := flag.NewFlagSet("devbackend", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to listen on")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	tokenValidity := fs.Int("t", int(config.TokenValidityDuration.Minutes()), "token validity (in minutes)")
	otpValidity := fs.Int("o", int(config.OTPValidityDuration.Minutes()), "OTP validity (in minutes)")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (text|json)")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	config.TokenValidityDuration = time.Duration(*tokenValidity) * time.Minute
	config.OTPValidityDuration = time.Duration(*otpValidity) * time.Minute
	return nil
}
