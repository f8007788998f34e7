package store

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// exportHeader is the first line of a JSONL export.
type exportHeader struct {
	Name        string    `json:"name"`
	Dimensions  int       `json:"dimensions"`
	Owner       string    `json:"owner,omitempty"`
	Description string    `json:"description,omitempty"`
	UseFolders  bool      `json:"useFolders"`
	Folders     []string  `json:"folders,omitempty"`
	VectorCount int       `json:"vectorCount"`
	ExportedAt  Timestamp `json:"exportedAt"`
}

// Export writes the database as JSONL: one header line describing the
// database, then one line per vector. The progress callback, if non-nil, is
// invoked after each written vector.
func (s *Store) Export(ctx context.Context, db string, w io.Writer, progress func(done, total int)) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, err := s.loadManifest(ctx, db)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)

	header := exportHeader{
		Name:        m.Name,
		Dimensions:  m.Dimensions,
		Owner:       m.Owner,
		Description: m.Description,
		UseFolders:  m.UseFolders,
		Folders:     m.Folders,
		VectorCount: m.VectorCount(),
		ExportedAt:  Now(),
	}
	if err := enc.Encode(header); err != nil {
		return fmt.Errorf("writing export header for %s: %w", db, err)
	}

	vecs, err := s.loadAllVectors(ctx, m)
	if err != nil {
		return err
	}
	for i, vec := range vecs {
		if err := enc.Encode(vec); err != nil {
			return fmt.Errorf("writing vector %q: %w", vec.ID, err)
		}
		if progress != nil {
			progress(i+1, len(vecs))
		}
	}

	return bw.Flush()
}

// importBatchSize bounds how many vectors each manifest commit covers.
const importBatchSize = 256

// Import reads a JSONL export and loads it into the named database, creating
// the database from the header if it does not exist yet. Returns the number
// of imported vectors.
func (s *Store) Import(ctx context.Context, name string, r io.Reader, progress func(done int)) (int, error) {
	dec := json.NewDecoder(bufio.NewReader(r))

	var header exportHeader
	if err := dec.Decode(&header); err != nil {
		return 0, fmt.Errorf("reading export header: %w", err)
	}
	if name == "" {
		name = header.Name
	}
	if name == "" {
		return 0, fmt.Errorf("export header carries no database name")
	}

	if _, err := s.GetDatabase(ctx, name); err != nil {
		if _, err := s.CreateDatabase(ctx, name, CreateOptions{
			Dimensions:  header.Dimensions,
			Owner:       header.Owner,
			Description: header.Description,
			UseFolders:  header.UseFolders,
		}); err != nil {
			return 0, err
		}
	}
	for _, folder := range header.Folders {
		if err := s.CreateFolder(ctx, name, folder); err != nil {
			return 0, err
		}
	}

	imported := 0
	batch := make([]Vector, 0, importBatchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		if _, err := s.PutVectors(ctx, name, batch); err != nil {
			return err
		}
		imported += len(batch)
		batch = batch[:0]
		if progress != nil {
			progress(imported)
		}
		return nil
	}

	for {
		var vec Vector
		if err := dec.Decode(&vec); err == io.EOF {
			break
		} else if err != nil {
			return imported, fmt.Errorf("reading vector line: %w", err)
		}
		batch = append(batch, vec)
		if len(batch) == importBatchSize {
			if err := flush(); err != nil {
				return imported, err
			}
		}
	}
	if err := flush(); err != nil {
		return imported, err
	}
	return imported, nil
}
