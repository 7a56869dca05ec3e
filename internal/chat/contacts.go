package chat

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Contact is a known payment recipient in the demo directory.
type Contact struct {
	Name      string `yaml:"name"`
	AccountID string `yaml:"account_id"`
}

// Directory maps a lowercase short name (what users say) to a contact.
type Directory map[string]Contact

// DefaultContacts is the built-in demo trio. Account IDs are sandbox
// placeholders until a contacts file provides real ones.
func DefaultContacts() Directory {
	return Directory{
		"mike":  {Name: "Mike Chen", AccountID: "recipient-account-1"},
		"sarah": {Name: "Sarah Johnson", AccountID: "recipient-account-2"},
		"alex":  {Name: "Alex Kim", AccountID: "recipient-account-3"},
	}
}

// LoadContacts reads a YAML contact directory. A missing path falls back to
// the defaults.
func LoadContacts(path string) (Directory, error) {
	if path == "" {
		return DefaultContacts(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultContacts(), nil
		}
		return nil, fmt.Errorf("read contacts: %w", err)
	}

	dir := Directory{}
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("parse contacts: %w", err)
	}

	// Keys are matched against lowercased user text.
	normalized := make(Directory, len(dir))
	for k, v := range dir {
		normalized[strings.ToLower(k)] = v
	}
	return normalized, nil
}

// Match finds the first contact whose short name appears in the lowercased
// message. Short names are checked in sorted order so a message naming two
// contacts always resolves the same way.
func (d Directory) Match(lowerMsg string) (Contact, bool) {
	shorts := make([]string, 0, len(d))
	for short := range d {
		shorts = append(shorts, short)
	}
	sort.Strings(shorts)

	for _, short := range shorts {
		if strings.Contains(lowerMsg, short) {
			return d[short], true
		}
	}
	return Contact{}, false
}
