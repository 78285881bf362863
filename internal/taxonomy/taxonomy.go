package taxonomy

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

// Descriptor is a leaf of the defect-coding tree.
type Descriptor struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// Group is a defect group within a family.
type Group struct {
	Name     string       `json:"name"`
	Children []Descriptor `json:"children"`
}

// Family is a top-level defect family.
type Family struct {
	Name     string  `json:"name"`
	Children []Group `json:"children"`
}

// Tree is the rooted three-level coding taxonomy.
type Tree struct {
	Children []Family `json:"children"`
}

// Service answers option-list lookups for the observation wizard. When the
// taxonomy resource could not be loaded it serves the embedded fallback
// tables instead; with a loaded tree, combinations missing from it yield an
// empty list, which is a valid terminal state.
type Service struct {
	mu   sync.RWMutex
	tree *Tree
}

func New(tree *Tree) *Service {
	return &Service{tree: tree}
}

// Load reads the taxonomy document from a local path or an http(s) URL.
// This is a single attempt with no retry; callers fall back to New(nil) on
// error.
func Load(source string) (*Tree, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(source)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("taxonomy: load %s: %w", source, err)
	}

	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, fmt.Errorf("taxonomy: decode %s: %w", source, err)
	}
	return &tree, nil
}

func fetch(url string) ([]byte, error) {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// Loaded reports whether a taxonomy document backs this service (false
// means the fallback tables are in use).
func (s *Service) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree != nil
}

// Families lists the family names for the first wizard stage.
func (s *Service) Families() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tree == nil {
		return fallbackFamilies()
	}
	out := make([]string, 0, len(s.tree.Children))
	for _, f := range s.tree.Children {
		out = append(out, f.Name)
	}
	return out
}

// Groups lists the group names under family. Unknown families yield an
// empty list.
func (s *Service) Groups(family string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tree == nil {
		return fallbackGroups(family)
	}
	for _, f := range s.tree.Children {
		if f.Name != family {
			continue
		}
		out := make([]string, 0, len(f.Children))
		for _, g := range f.Children {
			out = append(out, g.Name)
		}
		return out
	}
	return nil
}

// Descriptors lists the descriptor options for a family/group pair. Unknown
// combinations yield an empty list.
func (s *Service) Descriptors(family, group string) []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.tree == nil {
		return fallbackDescriptors(family, group)
	}
	for _, f := range s.tree.Children {
		if f.Name != family {
			continue
		}
		for _, g := range f.Children {
			if g.Name == group {
				return append([]Descriptor(nil), g.Children...)
			}
		}
	}
	return nil
}

func fallbackFamilies() []string {
	out := make([]string, 0, len(fallback))
	for name := range fallback {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func fallbackGroups(family string) []string {
	groups, ok := fallback[family]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(groups))
	for name := range groups {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func fallbackDescriptors(family, group string) []Descriptor {
	groups, ok := fallback[family]
	if !ok {
		return nil
	}
	return append([]Descriptor(nil), groups[group]...)
}
