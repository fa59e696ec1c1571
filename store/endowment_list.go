package store

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// EndowmentListFile is the file name of the list in the run directory
const EndowmentListFile = "endowment_list.txt"

// EndowmentList is an append only file of endowment addresses, one per line
type EndowmentList struct {
	path string
}

func NewEndowmentList(dir string) *EndowmentList {
	return &EndowmentList{path: filepath.Join(dir, EndowmentListFile)}
}

func (l EndowmentList) Path() string {
	return l.path
}

// Append adds the address as new line
func (l EndowmentList) Append(addr string) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrap(err, "open endowment list")
	}
	if _, err := f.WriteString(addr + "\n"); err != nil {
		f.Close()
		return errors.Wrap(err, "write endowment list")
	}
	return errors.Wrap(f.Close(), "close endowment list")
}

// Read returns all addresses. A missing file is an empty list.
func (l EndowmentList) Read() ([]string, error) {
	f, err := os.Open(l.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "open endowment list")
	}
	defer f.Close()
	var result []string
	s := bufio.NewScanner(f)
	for s.Scan() {
		if line := strings.TrimSpace(s.Text()); line != "" {
			result = append(result, line)
		}
	}
	return result, errors.Wrap(s.Err(), "read endowment list")
}
