// Package main provides the pwdecrypt-cli command line interface for
// operators: decrypting captured ciphertexts, inspecting the configured key
// and measuring decryption cost.
package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	pwdecrypt "github.com/BackendStack21/pwdecrypt-go"
	"github.com/BackendStack21/pwdecrypt-go/config"
	"github.com/BackendStack21/pwdecrypt-go/core"
	"github.com/BackendStack21/pwdecrypt-go/pkcs1"
)

const (
	version = "1.0.0"
	appName = "pwdecrypt-cli"

	// MaxInputFileSize bounds --input and --key-file reads.
	MaxInputFileSize = 1024 * 1024
)

// KeyInfoExport is the keyinfo output.
type KeyInfoExport struct {
	Bits             int    `json:"bits"`
	ByteLength       int    `json:"byte_length"`
	MaxMessageLength int    `json:"max_message_length"`
	Fingerprint      string `json:"fingerprint"`
	Recommended      bool   `json:"recommended"`
}

// cli carries the process streams so commands can run in-process.
type cli struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func main() {
	c := &cli{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	os.Exit(c.run(os.Args[1:]))
}

func (c *cli) run(args []string) int {
	if len(args) < 1 {
		c.printUsage()
		return 1
	}

	command := args[0]

	switch command {
	case "help", "--help", "-h":
		c.printUsage()
	case "version", "--version":
		fmt.Fprintf(c.stdout, "%s version %s\n", appName, version)
		fmt.Fprintf(c.stdout, "pwdecrypt library version %s\n", pwdecrypt.Version)
	case "decrypt":
		return c.handleDecrypt(args[1:])
	case "keyinfo":
		return c.handleKeyInfo(args[1:])
	case "benchmark":
		return c.handleBenchmark(args[1:])
	default:
		fmt.Fprintf(c.stderr, "Unknown command: %s\n", command)
		c.printUsage()
		return 1
	}
	return 0
}

func (c *cli) printUsage() {
	fmt.Fprintf(c.stdout, `%s - RSA PKCS#1 v1.5 password decryption CLI

USAGE:
    %s <COMMAND> [OPTIONS]

COMMANDS:
    decrypt     Decrypt a base64 ciphertext
    keyinfo     Show the configured key's size and fingerprint as JSON
    benchmark   Time repeated decryptions with the configured key
    version     Show version information
    help        Show this help message

KEY OPTIONS (all commands):
    --key, -k <base64>        Private key (base64 PKCS#8/PKCS#1 DER or PEM)
    --key-file <path>         Read the private key from a file
                              Default: $%s
    --verbose, -v             Log key details and rejections to stderr

DECRYPT OPTIONS:
    --ciphertext, -c <b64>    Ciphertext to decrypt
    --input, -i <path>        Read the ciphertext from a file
                              Default: read the ciphertext from stdin

BENCHMARK OPTIONS:
    --iterations, -n <N>      Number of decryptions (default 10)

EXAMPLES:
    # Decrypt with the key from the environment
    %s decrypt --ciphertext "AccZ4ryH..."

    # Decrypt from stdin with a key file
    echo "AccZ4ryH..." | %s decrypt --key-file key.b64

    # Inspect the key
    %s keyinfo --key-file key.pem
`, appName, appName, config.EnvPrivateKey, appName, appName, appName)
}

// ============================================================================
// Commands
// ============================================================================

func (c *cli) handleDecrypt(args []string) int {
	if hasFlag(args, "--help", "-h") {
		c.printUsage()
		return 0
	}

	d, err := c.loadDecryptor(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error loading key: %v\n", err)
		return 1
	}

	ct := getArg(args, "--ciphertext", "-c")
	if ct == "" {
		var data []byte
		if input := getArg(args, "--input", "-i"); input != "" {
			data, err = readLimitedFile(input)
		} else {
			data, err = io.ReadAll(io.LimitReader(c.stdin, MaxInputFileSize))
		}
		if err != nil {
			fmt.Fprintf(c.stderr, "Error reading ciphertext: %v\n", err)
			return 1
		}
		ct = string(data)
	}

	plaintext, err := d.Decrypt(ct)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error: %s\n", pwdecrypt.PublicMessage)
		return 1
	}
	fmt.Fprintln(c.stdout, plaintext)
	return 0
}

func (c *cli) handleKeyInfo(args []string) int {
	d, err := c.loadDecryptor(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error loading key: %v\n", err)
		return 1
	}

	km := d.Key()
	info := KeyInfoExport{
		Bits:             km.Bits(),
		ByteLength:       km.ByteLength(),
		MaxMessageLength: core.MaxMessageLength(km.ByteLength()),
		Fingerprint:      km.Fingerprint(),
		Recommended:      km.Bits() >= core.RecommendedModulusBits,
	}
	out, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		fmt.Fprintf(c.stderr, "Error encoding key info: %v\n", err)
		return 1
	}
	fmt.Fprintln(c.stdout, string(out))
	return 0
}

func (c *cli) handleBenchmark(args []string) int {
	d, err := c.loadDecryptor(args)
	if err != nil {
		fmt.Fprintf(c.stderr, "Error loading key: %v\n", err)
		return 1
	}

	iterations := 10
	if s := getArg(args, "--iterations", "-n"); s != "" {
		_, _ = fmt.Sscanf(s, "%d", &iterations)
	}
	if iterations < 1 {
		iterations = 1
	}

	// Any in-range block exercises the full exponentiation; whether it
	// unpads is irrelevant to timing.
	block := make([]byte, d.KeySize())
	block[len(block)-1] = 0x02
	ct := base64.StdEncoding.EncodeToString(block)

	fmt.Fprintf(c.stdout, "pwdecrypt Benchmark Results\n")
	fmt.Fprintf(c.stdout, "===========================\n")
	fmt.Fprintf(c.stdout, "Modulus: %d bits\n", d.Key().Bits())
	fmt.Fprintf(c.stdout, "Iterations: %d\n\n", iterations)

	var total time.Duration
	for i := 0; i < iterations; i++ {
		start := time.Now()
		_, _ = d.Decrypt(ct)
		total += time.Since(start)
	}
	fmt.Fprintf(c.stdout, "  Decrypt:     %v (avg)\n", total/time.Duration(iterations))
	fmt.Fprintln(c.stdout)
	fmt.Fprintln(c.stdout, "Benchmark complete!")
	return 0
}

// ============================================================================
// Utility Functions
// ============================================================================

// loadDecryptor resolves the key from --key, --key-file or the environment,
// in that order.
func (c *cli) loadDecryptor(args []string) (*pkcs1.Decryptor, error) {
	logger := zerolog.Nop()
	if hasFlag(args, "--verbose", "-v") {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: c.stderr, NoColor: true}).
			Level(zerolog.DebugLevel).
			With().Timestamp().Logger()
	}

	var cfg config.Config
	switch {
	case getArg(args, "--key", "-k") != "":
		cfg.PrivateKey = getArg(args, "--key", "-k")
	case getArg(args, "--key-file", "") != "":
		data, err := readLimitedFile(getArg(args, "--key-file", ""))
		if err != nil {
			return nil, err
		}
		cfg.PrivateKey = string(data)
	default:
		var err error
		cfg, err = config.FromEnv()
		if err != nil {
			return nil, err
		}
	}
	return cfg.NewDecryptor(logger)
}

func readLimitedFile(filename string) ([]byte, error) {
	info, err := os.Stat(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.Size() > MaxInputFileSize {
		return nil, fmt.Errorf("input file too large: %d > %d bytes", info.Size(), MaxInputFileSize)
	}
	return os.ReadFile(filename)
}

func getArg(args []string, long, short string) string {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == long || (short != "" && args[i] == short) {
			return strings.TrimSpace(args[i+1])
		}
	}
	return ""
}

func hasFlag(args []string, long, short string) bool {
	for _, arg := range args {
		if arg == long || (short != "" && arg == short) {
			return true
		}
	}
	return false
}
