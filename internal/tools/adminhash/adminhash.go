// Package adminhash prints the environment lines that enable planner admin
// access: a bcrypt hash of the passphrase and, on request, a token secret.
package adminhash

import (
	"bufio"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/louisbranch/theater.planner/internal/services/planner/adminauth"
)

// Config holds configuration for admin hash generation.
type Config struct {
	Password    string
	SecretBytes int
}

// ParseConfig parses flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	cfg := Config{}
	fs.StringVar(&cfg.Password, "password", "", "admin passphrase (read from stdin when empty)")
	fs.IntVar(&cfg.SecretBytes, "secret-bytes", 0, "also print a random token secret of this many bytes")
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run hashes the passphrase and writes env lines to out. The passphrase is
// taken from cfg or, when empty, the first line of in.
func Run(cfg Config, in io.Reader, out io.Writer, random io.Reader) error {
	if out == nil {
		return errors.New("output is required")
	}
	if cfg.SecretBytes < 0 {
		return errors.New("secret bytes must not be negative")
	}
	if cfg.SecretBytes > 0 && cfg.SecretBytes < adminauth.MinSecretLength {
		return fmt.Errorf("secret bytes must be at least %d", adminauth.MinSecretLength)
	}

	password := cfg.Password
	if password == "" && in != nil {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("read passphrase: %w", err)
		}
		password = strings.TrimRight(line, "\r\n")
	}
	if strings.TrimSpace(password) == "" {
		return errors.New("passphrase is required")
	}

	hash, err := adminauth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash passphrase: %w", err)
	}
	if _, err := fmt.Fprintf(out, "THEATER_PLANNER_ADMIN_PASSWORD_HASH=%s\n", hash); err != nil {
		return err
	}
	if cfg.SecretBytes == 0 {
		return nil
	}

	if random == nil {
		random = rand.Reader
	}
	buf := make([]byte, cfg.SecretBytes)
	if _, err := io.ReadFull(random, buf); err != nil {
		return fmt.Errorf("generate random bytes: %w", err)
	}
	_, err = fmt.Fprintf(out, "THEATER_PLANNER_ADMIN_TOKEN_SECRET=%s\n", hex.EncodeToString(buf))
	return err
}
