package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

// Store maps an agent identity to its base prompt text
type Store interface {
	// Load returns the prompt for an identity. A missing entry yields a
	// generic default template, never an error.
	Load(identity string) string
}

// DirStore loads prompt templates from <dir>/<identity>.md
type DirStore struct {
	dir string
}

// NewDirStore creates a file-backed template store
func NewDirStore(dir string) *DirStore {
	return &DirStore{dir: dir}
}

// Load reads the identity's template file, falling back to the generic
// default on any miss or read fault
func (s *DirStore) Load(identity string) string {
	identity = sanitizeIdentity(identity)
	if identity == "" {
		return DefaultTemplate(identity)
	}

	path := filepath.Join(s.dir, identity+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		log.Debug().Str("identity", identity).Str("path", path).Msg("Prompt template missing, using default")
		return DefaultTemplate(identity)
	}

	content := strings.TrimSpace(string(data))
	if content == "" {
		return DefaultTemplate(identity)
	}

	return content
}

// DefaultTemplate is the generic prompt used when no template exists
func DefaultTemplate(identity string) string {
	if identity == "" {
		identity = "assistant"
	}
	return fmt.Sprintf("You are the %s agent. Provide a helpful response to the user's request.", identity)
}

func sanitizeIdentity(identity string) string {
	identity = strings.ToLower(strings.TrimSpace(identity))
	if strings.ContainsAny(identity, "/\\") || strings.Contains(identity, "..") {
		return ""
	}
	return identity
}
