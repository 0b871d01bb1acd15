package access

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// WildcardLabel in a hidden-label set denies any record carrying any
// label at all.
const WildcardLabel = "*"

// Profile describes what one user identity may see. The zero value is
// the empty-access profile: no projects, no components, no comments.
type Profile struct {
	Projects           []string `yaml:"projects"`
	ViewAllIssues      bool     `yaml:"view_all_issues"`
	ViewableComponents []string `yaml:"viewable_components"`
	HiddenLabels       []string `yaml:"hidden_labels"`
	ViewComments       bool     `yaml:"view_comments"`
}

// UnmarshalYAML decodes a profile with comment visibility defaulting
// to true when the key is absent, matching the permission file format.
func (p *Profile) UnmarshalYAML(node *yaml.Node) error {
	type raw struct {
		Projects           []string `yaml:"projects"`
		ViewAllIssues      bool     `yaml:"view_all_issues"`
		ViewableComponents []string `yaml:"viewable_components"`
		HiddenLabels       []string `yaml:"hidden_labels"`
		ViewComments       *bool    `yaml:"view_comments"`
	}
	var r raw
	if err := node.Decode(&r); err != nil {
		return err
	}
	p.Projects = r.Projects
	p.ViewAllIssues = r.ViewAllIssues
	p.ViewableComponents = r.ViewableComponents
	p.HiddenLabels = r.HiddenLabels
	p.ViewComments = r.ViewComments == nil || *r.ViewComments
	return nil
}

// ProfileSummary is the diagnostic view of a user's permissions.
type ProfileSummary struct {
	UserID        string   `json:"user_id"`
	Exists        bool     `json:"exists"`
	Projects      []string `json:"projects"`
	ViewAllIssues bool     `json:"view_all_issues"`
	ViewComments  bool     `json:"view_comments"`
	HiddenLabels  []string `json:"hidden_labels"`
}

// Table maps user identities to permission profiles. Identities absent
// from the table get the empty-access profile, never an error.
type Table struct {
	profiles map[string]Profile
}

// NewTable builds a table from an in-memory profile map.
func NewTable(profiles map[string]Profile) *Table {
	if profiles == nil {
		profiles = map[string]Profile{}
	}
	return &Table{profiles: profiles}
}

// LoadTable reads a permission table from a YAML file of the form
//
//	users:
//	  user-001:
//	    projects: [FIN, SEC]
//	    view_all_issues: true
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read permissions file: %w", err)
	}
	var doc struct {
		Users map[string]Profile `yaml:"users"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse permissions file: %w", err)
	}
	return NewTable(doc.Users), nil
}

// Profile returns the profile for a user. Missing identities yield the
// zero (empty-access) profile and ok=false.
func (t *Table) Profile(userID string) (Profile, bool) {
	p, ok := t.profiles[userID]
	return p, ok
}
