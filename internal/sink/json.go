// Package sink writes check outcomes and captured documents to disk.
package sink

import (
	"bytes"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/ppiankov/causelist/internal/model"
)

// JSONFile writes the outcome as indented JSON to one path. Captured
// documents go next to it.
type JSONFile struct {
	path string
}

// NewJSONFile creates a sink for path
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the output path
func (s *JSONFile) Path() string {
	return s.path
}

// Save writes the outcome atomically
func (s *JSONFile) Save(outcome *model.CheckOutcome) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(outcome); err != nil {
		return eris.Wrap(err, "encode outcome")
	}
	return writeFileAtomic(s.path, buf.Bytes())
}

// SaveDocument writes data as cause_list_<date>.<ext> in the output's
// directory and returns the path
func (s *JSONFile) SaveDocument(checkedDate string, data []byte) (string, error) {
	name := "cause_list_" + checkedDate + "." + DocumentExt(data)
	path := filepath.Join(filepath.Dir(s.path), name)
	if err := writeFileAtomic(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// Load reads an outcome written by Save and rejects records that were
// edited into an inconsistent state. The API sample comes back compacted.
func Load(path string) (*model.CheckOutcome, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	var outcome model.CheckOutcome
	if err := json.Unmarshal(data, &outcome); err != nil {
		return nil, eris.Wrapf(err, "decode %s", path)
	}
	if err := outcome.Validate(); err != nil {
		return nil, eris.Wrapf(err, "validate %s", path)
	}
	if len(outcome.APIResponse) > 0 {
		var compact bytes.Buffer
		if err := json.Compact(&compact, outcome.APIResponse); err != nil {
			return nil, eris.Wrapf(err, "compact api_response_sample in %s", path)
		}
		outcome.APIResponse = compact.Bytes()
	}
	return &outcome, nil
}

// DocumentExt picks a file extension from the document's content
func DocumentExt(data []byte) string {
	switch ct := http.DetectContentType(data); {
	case strings.HasPrefix(ct, "application/pdf"):
		return "pdf"
	case strings.HasPrefix(ct, "text/html"):
		return "html"
	default:
		return "bin"
	}
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "create temp file in %s", dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "write %s", path)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "close %s", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "chmod %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return eris.Wrapf(err, "rename to %s", path)
	}
	return nil
}
