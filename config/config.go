// Package config loads the process-wide decryption key from the environment
// and builds the Decryptor that request handlers share.
package config

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samber/oops"

	pwdecrypt "github.com/BackendStack21/pwdecrypt-go"
	"github.com/BackendStack21/pwdecrypt-go/core"
	"github.com/BackendStack21/pwdecrypt-go/der"
	"github.com/BackendStack21/pwdecrypt-go/pkcs1"
)

// EnvPrivateKey names the variable holding the base64 (or PEM) private key.
const EnvPrivateKey = "AUTH_RSA_PRIVATE_KEY"

// Config is the startup configuration.
type Config struct {
	PrivateKey string
}

// FromEnv reads the configuration once. A missing or blank key is fatal.
func FromEnv() (Config, error) {
	v, ok := os.LookupEnv(EnvPrivateKey)
	if !ok || strings.TrimSpace(v) == "" {
		return Config{}, oops.
			In("config").
			With("env", EnvPrivateKey).
			Errorf("%w: %s is not set", pwdecrypt.ErrKeyDecode, EnvPrivateKey)
	}
	return Config{PrivateKey: v}, nil
}

// LoadKey parses the configured key and logs one line describing it.
func (c Config) LoadKey(logger zerolog.Logger) (*pwdecrypt.KeyMaterial, error) {
	km, err := der.ParseBase64(c.PrivateKey)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("bits", km.Bits()).
		Int("byte_length", km.ByteLength()).
		Str("fingerprint", km.Fingerprint()).
		Msg("rsa private key loaded")
	if km.Bits() < core.RecommendedModulusBits {
		logger.Warn().
			Int("bits", km.Bits()).
			Int("recommended_bits", core.RecommendedModulusBits).
			Msg("rsa modulus is below the recommended size")
	}
	return km, nil
}

// NewDecryptor loads the key and returns a Decryptor that logs through
// logger.
func (c Config) NewDecryptor(logger zerolog.Logger) (*pkcs1.Decryptor, error) {
	km, err := c.LoadKey(logger)
	if err != nil {
		return nil, err
	}
	return pkcs1.NewDecryptor(km, pkcs1.WithLogger(logger))
}
