// Package chatdir stores each distilled chat in its own directory holding the
// archive and a small TOML metadata file.
package chatdir

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/bnema/chat-distiller/internal/domain"
	"github.com/bnema/chat-distiller/internal/ports"
)

const (
	dataDirKey      = "data.dir"
	defaultDataDir  = ".chat-distiller/data"
	chatFileMode    = 0o600
	chatDirMode     = 0o700
	archiveFileName = "archive.json"
	metadataName    = "metadata.toml"
	tempFilePattern = ".chat-*.tmp"
)

type Repository struct {
	dataDir string
	mu      *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.ChatRepository = (*Repository)(nil)

func NewRepository(cfg *viper.Viper) (*Repository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if !cfg.IsSet(dataDirKey) {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SetDefault(dataDirKey, filepath.Join(homeDir, defaultDataDir))
	}

	dataDir := cfg.GetString(dataDirKey)
	if dataDir == "" {
		return nil, errors.New("data dir is empty")
	}
	dataDir, err := normalizeDataDir(dataDir)
	if err != nil {
		return nil, err
	}

	return &Repository{dataDir: dataDir, mu: lockForPath(dataDir)}, nil
}

func (r *Repository) DataDir() string {
	return r.dataDir
}

// Save writes the archive and metadata of record. A directory already holding the
// same share id is reused; otherwise the record title names a new directory,
// suffixed with the short share id when another chat owns that name.
func (r *Repository) Save(ctx context.Context, record domain.ChatRecord, archive domain.Archive) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if record.ShareID == "" {
		return "", fmt.Errorf("%w: record has no share id", domain.ErrStorage)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	dir, found, err := r.findDir(record.ShareID)
	if err != nil {
		return "", err
	}
	if !found {
		dir, err = r.freeDir(record)
		if err != nil {
			return "", err
		}
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, chatDirMode); err != nil {
		return "", fmt.Errorf("%w: create chat directory: %w", domain.ErrStorage, err)
	}

	archiveData, err := encodeArchive(archive)
	if err != nil {
		return "", err
	}
	if err := writeFileAtomic(filepath.Join(dir, archiveFileName), archiveData); err != nil {
		return "", err
	}

	metadataData, err := toml.Marshal(toSchema(record))
	if err != nil {
		return "", fmt.Errorf("%w: encode chat metadata: %w", domain.ErrStorage, err)
	}
	if err := writeFileAtomic(filepath.Join(dir, metadataName), metadataData); err != nil {
		return "", err
	}

	return dir, nil
}

func (r *Repository) GetByShareID(ctx context.Context, id domain.ShareID) (domain.ChatRecord, error) {
	if err := ctx.Err(); err != nil {
		return domain.ChatRecord{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := r.scan()
	if err != nil {
		return domain.ChatRecord{}, err
	}
	for _, entry := range entries {
		if entry.record.ShareID == id {
			return entry.record, nil
		}
	}

	return domain.ChatRecord{}, domain.ErrChatNotFound
}

// List returns every stored chat, most recently updated first.
func (r *Repository) List(ctx context.Context) ([]domain.ChatRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	entries, err := r.scan()
	if err != nil {
		return nil, err
	}

	records := make([]domain.ChatRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.record)
	}
	slices.SortStableFunc(records, func(a, b domain.ChatRecord) int {
		if c := b.LastUpdatedAt.Compare(a.LastUpdatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.Title, b.Title)
	})

	return records, nil
}

type storedChat struct {
	dir    string
	record domain.ChatRecord
}

// scan reads the metadata of every chat directory. Directories without readable
// metadata are not chats and are skipped.
func (r *Repository) scan() ([]storedChat, error) {
	dirEntries, err := os.ReadDir(r.dataDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: read data directory: %w", domain.ErrStorage, err)
	}

	chats := make([]storedChat, 0, len(dirEntries))
	for _, entry := range dirEntries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(r.dataDir, entry.Name())
		record, err := readMetadata(dir)
		if err != nil {
			continue
		}
		chats = append(chats, storedChat{dir: dir, record: record})
	}

	return chats, nil
}

func (r *Repository) findDir(id domain.ShareID) (string, bool, error) {
	chats, err := r.scan()
	if err != nil {
		return "", false, err
	}
	for _, chat := range chats {
		if chat.record.ShareID == id {
			return chat.dir, true, nil
		}
	}

	return "", false, nil
}

func (r *Repository) freeDir(record domain.ChatRecord) (string, error) {
	name := record.Title
	if name == "" {
		name = domain.ChatTitle(record.ShareID, "")
	}
	if name != filepath.Base(name) || name == "." || name == ".." {
		return "", fmt.Errorf("%w: invalid chat title %q", domain.ErrStorage, name)
	}

	candidates := []string{name, name + "_" + record.ShareID.ShortID()}
	for _, candidate := range candidates {
		dir := filepath.Join(r.dataDir, candidate)
		if _, err := os.Stat(dir); errors.Is(err, os.ErrNotExist) {
			return dir, nil
		}
	}

	return "", fmt.Errorf("%w: chat directory %q is taken by another chat", domain.ErrStorage, candidates[len(candidates)-1])
}

func readMetadata(dir string) (domain.ChatRecord, error) {
	data, err := os.ReadFile(filepath.Join(dir, metadataName))
	if err != nil {
		return domain.ChatRecord{}, fmt.Errorf("read chat metadata: %w", err)
	}

	var schema metadataSchema
	if err := toml.Unmarshal(data, &schema); err != nil {
		return domain.ChatRecord{}, fmt.Errorf("decode chat metadata: %w", err)
	}
	if err := schema.validateVersion(); err != nil {
		return domain.ChatRecord{}, err
	}
	schema.applyDefaults()
	if schema.ShareID == "" {
		return domain.ChatRecord{}, errors.New("chat metadata has no share id")
	}

	return fromSchema(schema), nil
}

func encodeArchive(archive domain.Archive) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(archive); err != nil {
		return nil, fmt.Errorf("%w: encode archive: %w", domain.ErrStorage, err)
	}

	return buf.Bytes(), nil
}

func writeFileAtomic(path string, data []byte) error {
	tempFile, err := os.CreateTemp(filepath.Dir(path), tempFilePattern)
	if err != nil {
		return fmt.Errorf("%w: create temp file: %w", domain.ErrStorage, err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("%w: write temp file: %w", domain.ErrStorage, err)
	}

	if err := tempFile.Chmod(chatFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("%w: chmod temp file: %w", domain.ErrStorage, err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %w", domain.ErrStorage, err)
	}

	if err := os.Rename(tempName, path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", domain.ErrStorage, filepath.Base(path), err)
	}

	cleanup = false
	return nil
}

func normalizeDataDir(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve data dir: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}
