package auth

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/convene-app/convene/pkg/domain"
)

// Store persists the credential record across process restarts.
//
// Load must tolerate absent or malformed stored data by reporting absent
// rather than failing: corruption in client-persisted state must never
// take startup down.
type Store interface {
	Load() (domain.Credentials, bool)
	Save(domain.Credentials) error
	Clear() error
}

const (
	userFile  = "user.json"
	tokenFile = "token"
)

// FileStore keeps the credential record under a state directory as two
// entries: user.json (serialized identity) and token (opaque string).
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first Save, not here.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Load reads the persisted record. Any missing file, unreadable file, or
// unparseable identity loads as absent.
func (s *FileStore) Load() (domain.Credentials, bool) {
	tokBytes, err := os.ReadFile(filepath.Join(s.dir, tokenFile))
	if err != nil {
		return domain.Credentials{}, false
	}
	token := strings.TrimSpace(string(tokBytes))
	if token == "" {
		return domain.Credentials{}, false
	}

	userBytes, err := os.ReadFile(filepath.Join(s.dir, userFile))
	if err != nil {
		return domain.Credentials{}, false
	}
	var user domain.User
	if err := json.Unmarshal(userBytes, &user); err != nil {
		return domain.Credentials{}, false
	}
	if user.ID == 0 {
		return domain.Credentials{}, false
	}

	return domain.Credentials{User: user, Token: token}, true
}

// Save writes the record. The token file is written last so a crash between
// the two writes leaves a record that loads as absent, never as half a
// session.
func (s *FileStore) Save(creds domain.Credentials) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	userBytes, err := json.Marshal(creds.User)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(s.dir, userFile), userBytes, 0o600); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(s.dir, tokenFile), []byte(creds.Token), 0o600)
}

// Clear removes both entries. Clearing an already-empty store is a no-op.
func (s *FileStore) Clear() error {
	for _, name := range []string{tokenFile, userFile} {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	creds   domain.Credentials
	present bool
}

func (s *MemStore) Load() (domain.Credentials, bool) {
	return s.creds, s.present
}

func (s *MemStore) Save(creds domain.Credentials) error {
	s.creds = creds
	s.present = true
	return nil
}

func (s *MemStore) Clear() error {
	s.creds = domain.Credentials{}
	s.present = false
	return nil
}
