package main

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/crypto/ssh"

	"github.com/gritvcs/grit/pkg/repo"
)

const tagSignaturePrefix = "sshsig-v1"

// sshTagSigner signs annotated-tag payloads with a local SSH private key.
// Signatures encode as "sshsig-v1:<format>:<pubB64>:<sigB64>" so verifiers
// can check them without access to the key file.
type sshTagSigner struct {
	signer ssh.Signer
	pubB64 string
}

func (s *sshTagSigner) Sign(payload []byte) (string, error) {
	sig, err := s.signer.Sign(rand.Reader, payload)
	if err != nil {
		return "", err
	}
	sigB64 := base64.StdEncoding.EncodeToString(sig.Blob)
	return fmt.Sprintf("%s:%s:%s:%s", tagSignaturePrefix, sig.Format, s.pubB64, sigB64), nil
}

// newSSHTagSigner loads the private key at keyPath, or the first default key
// under ~/.ssh when keyPath is empty. It returns the signer and the path it
// settled on.
func newSSHTagSigner(keyPath string) (repo.TagSigner, string, error) {
	resolvedPath, err := resolveSigningKeyPath(keyPath)
	if err != nil {
		return nil, "", err
	}

	raw, err := os.ReadFile(resolvedPath)
	if err != nil {
		return nil, "", fmt.Errorf("read signing key %q: %w", resolvedPath, err)
	}
	signer, err := ssh.ParsePrivateKey(raw)
	if err != nil {
		return nil, "", fmt.Errorf("parse signing key %q: %w", resolvedPath, err)
	}

	pubB64 := base64.StdEncoding.EncodeToString(signer.PublicKey().Marshal())
	return &sshTagSigner{signer: signer, pubB64: pubB64}, resolvedPath, nil
}

func resolveSigningKeyPath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path != "" {
		return expandUserPath(path)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	candidates := []string{
		filepath.Join(home, ".ssh", "id_ed25519"),
		filepath.Join(home, ".ssh", "id_ecdsa"),
		filepath.Join(home, ".ssh", "id_rsa"),
	}
	for _, candidate := range candidates {
		if st, err := os.Stat(candidate); err == nil && !st.IsDir() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no default SSH private key found in ~/.ssh (id_ed25519, id_ecdsa, id_rsa)")
}

func expandUserPath(path string) (string, error) {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}
	return filepath.Abs(path)
}
