package store

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// FolderPathKey is the metadata key holding a vector's folder placement.
// Folder membership is always expressed through metadata, never as a
// top-level field on the vector record.
const FolderPathKey = "folderPath"

// Vector is a single stored record: a fixed-length embedding plus arbitrary
// string metadata, identified by an id unique within its database.
type Vector struct {
	ID        string            `json:"id"`
	Embedding []float32         `json:"embedding"`
	Metadata  map[string]string `json:"metadata,omitempty"`
}

// FolderPath returns the vector's folder placement, or "" for the root.
func (v Vector) FolderPath() string {
	return v.Metadata[FolderPathKey]
}

// Timestamp is a time.Time whose JSON decoding tolerates the formats older
// tooling produced: RFC3339 strings, bare datetime strings, and epoch
// milliseconds. Values that cannot be parsed decode to the zero time instead
// of failing, so sort comparators never see an error mid-compare.
type Timestamp struct {
	time.Time
}

// Now returns the current UTC time as a Timestamp.
func Now() Timestamp {
	return Timestamp{time.Now().UTC()}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339Nano))
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		t.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}

	// Epoch milliseconds from JavaScript Date serialization.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		t.Time = time.UnixMilli(ms).UTC()
		return nil
	}

	t.Time = time.Time{}
	return nil
}

// vectorRef locates a vector's blob and records its stored size.
type vectorRef struct {
	CID  string `json:"cid"`
	Size int64  `json:"size"`
}

// Manifest is the persisted per-database record. It is the unit of
// consistency: every metadata operation commits by writing a new manifest
// blob and swapping the registry pointer to it.
type Manifest struct {
	Name        string               `json:"name"`
	Dimensions  int                  `json:"dimensions"`
	Owner       string               `json:"owner,omitempty"`
	Description string               `json:"description,omitempty"`
	UseFolders  bool                 `json:"useFolders"`
	Folders     []string             `json:"folders,omitempty"`
	Vectors     map[string]vectorRef `json:"vectors"`
	StorageSize int64                `json:"storageSize"`
	CreatedAt   Timestamp            `json:"createdAt"`
	UpdatedAt   Timestamp            `json:"updatedAt"`
}

// VectorCount returns the number of vectors referenced by the manifest.
func (m *Manifest) VectorCount() int { return len(m.Vectors) }

func (m *Manifest) hasFolder(path string) bool {
	for _, f := range m.Folders {
		if f == path {
			return true
		}
	}
	return false
}

// addFolder records a folder path on the manifest if it is not yet known.
func (m *Manifest) addFolder(path string) bool {
	if path == "" || m.hasFolder(path) {
		return false
	}
	m.Folders = append(m.Folders, path)
	return true
}

func (m *Manifest) removeFolder(path string) {
	kept := m.Folders[:0]
	for _, f := range m.Folders {
		if f != path {
			kept = append(kept, f)
		}
	}
	m.Folders = kept
}

// DatabaseInfo is the externally visible description of a database.
type DatabaseInfo struct {
	Name        string    `json:"name"`
	Dimensions  int       `json:"dimensions"`
	VectorCount int       `json:"vectorCount"`
	StorageSize int64     `json:"storageSize"`
	Owner       string    `json:"owner,omitempty"`
	Description string    `json:"description,omitempty"`
	UseFolders  bool      `json:"useFolders"`
	CreatedAt   Timestamp `json:"createdAt"`
	UpdatedAt   Timestamp `json:"updatedAt"`
}

func (m *Manifest) info() DatabaseInfo {
	return DatabaseInfo{
		Name:        m.Name,
		Dimensions:  m.Dimensions,
		VectorCount: m.VectorCount(),
		StorageSize: m.StorageSize,
		Owner:       m.Owner,
		Description: m.Description,
		UseFolders:  m.UseFolders,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// CreateOptions configures a new database.
type CreateOptions struct {
	Dimensions  int    `json:"dimensions"`
	Owner       string `json:"owner,omitempty"`
	Description string `json:"description,omitempty"`
	UseFolders  bool   `json:"useFolders"`
}

// UpdateOptions carries metadata changes for an existing database. Nil
// fields are left unchanged.
type UpdateOptions struct {
	Description *string `json:"description,omitempty"`
	Owner       *string `json:"owner,omitempty"`
}

// Filter selects vectors by exact metadata matches and/or a glob pattern
// over the folder path (doublestar syntax, e.g. "docs/**").
type Filter struct {
	Metadata      map[string]string `json:"metadata,omitempty"`
	FolderPattern string            `json:"folderPattern,omitempty"`
}

// IsEmpty reports whether the filter matches everything.
func (f Filter) IsEmpty() bool {
	return len(f.Metadata) == 0 && f.FolderPattern == ""
}

// FolderInfo describes a single folder and how many vectors it holds.
type FolderInfo struct {
	Path        string `json:"path"`
	VectorCount int    `json:"vectorCount"`
}

// FolderStats aggregates the vectors placed directly in a folder and its
// descendants. Min, Max and Avg cover the vectors whose NumericKey value
// parsed as a number; Samples says how many did, so a genuine zero aggregate
// is distinguishable from no data.
type FolderStats struct {
	Path        string  `json:"path"`
	VectorCount int     `json:"vectorCount"`
	StorageSize int64   `json:"storageSize"`
	NumericKey  string  `json:"numericKey,omitempty"`
	Samples     int     `json:"samples"`
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	Avg         float64 `json:"avg"`
}

// NormalizeFolderPath canonicalizes a folder path: forward slashes, no
// leading or trailing separators, no empty segments. The root is "".
func NormalizeFolderPath(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), "\\", "/")
	parts := strings.Split(p, "/")
	kept := parts[:0]
	for _, seg := range parts {
		if seg != "" && seg != "." {
			kept = append(kept, seg)
		}
	}
	return strings.Join(kept, "/")
}

// underFolder reports whether path equals folder or is nested below it.
// The root folder "" contains everything.
func underFolder(path, folder string) bool {
	if folder == "" {
		return true
	}
	return path == folder || strings.HasPrefix(path, folder+"/")
}

// rebaseFolder rewrites path from the old folder prefix to the new one. An
// empty new prefix moves the subtree to the root.
func rebaseFolder(path, oldPrefix, newPrefix string) string {
	if path == oldPrefix {
		return newPrefix
	}
	rest := strings.TrimPrefix(path, oldPrefix+"/")
	if newPrefix == "" {
		return rest
	}
	return newPrefix + "/" + rest
}
