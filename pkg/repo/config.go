package repo

import (
	"bytes"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config mirrors the repository config file, TOML with core and user tables.
type Config struct {
	Core CoreConfig `toml:"core"`
	User UserConfig `toml:"user"`
}

// CoreConfig is the [core] table.
type CoreConfig struct {
	RepositoryFormatVersion int  `toml:"repositoryformatversion"`
	FileMode                bool `toml:"filemode"`
	Bare                    bool `toml:"bare"`
}

// UserConfig is the [user] table: the identity recorded in commits and
// annotated tags.
type UserConfig struct {
	Name  string `toml:"name,omitempty"`
	Email string `toml:"email,omitempty"`
}

func defaultConfig() Config {
	return Config{
		Core: CoreConfig{
			RepositoryFormatVersion: 0,
			FileMode:                false,
			Bare:                    false,
		},
	}
}

// Config reads the repository config. A missing file yields the defaults.
func (r *Repo) Config() (*Config, error) {
	data, err := os.ReadFile(r.meta.Path("config"))
	if err != nil {
		if os.IsNotExist(err) {
			cfg := defaultConfig()
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return &cfg, nil
}

// WriteConfig replaces the repository config in one step.
func (r *Repo) WriteConfig(cfg *Config) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("write config: encode: %w", err)
	}
	if err := r.writeMetaFile(buf.Bytes(), "config"); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SetUser stores the commit identity in the [user] table, keeping the rest
// of the config intact.
func (r *Repo) SetUser(name, email string) error {
	cfg, err := r.Config()
	if err != nil {
		return err
	}
	cfg.User.Name = name
	cfg.User.Email = email
	return r.WriteConfig(cfg)
}

// Author returns the configured identity as "Name <email>". ok is false when
// no user name is configured; the caller picks its own fallback.
func (r *Repo) Author() (ident string, ok bool) {
	cfg, err := r.Config()
	if err != nil || cfg.User.Name == "" {
		return "", false
	}
	if cfg.User.Email == "" {
		return cfg.User.Name, true
	}
	return fmt.Sprintf("%s <%s>", cfg.User.Name, cfg.User.Email), true
}

// Environment overrides consulted when the config carries no identity.
const (
	envAuthorName  = "GRIT_AUTHOR_NAME"
	envAuthorEmail = "GRIT_AUTHOR_EMAIL"
)

// requireAuthor returns the configured identity, falling back to the
// GRIT_AUTHOR_NAME / GRIT_AUTHOR_EMAIL environment. Commits and annotated
// tags refuse to guess beyond that.
func (r *Repo) requireAuthor() (string, error) {
	if ident, ok := r.Author(); ok {
		return ident, nil
	}
	if name := os.Getenv(envAuthorName); name != "" {
		if email := os.Getenv(envAuthorEmail); email != "" {
			return fmt.Sprintf("%s <%s>", name, email), nil
		}
		return name, nil
	}
	return "", fmt.Errorf("no identity configured; set user.name in %s/config", MetaDirName)
}
