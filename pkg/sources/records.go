package sources

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/filesystem"
	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/logging"
	"github.com/arthur-debert/marktree/pkg/tree"
)

// Record is one bookmark record as exchanged with a replica. Remote
// documents carry both Children (on folders) and ParentID; local records
// only need ParentID, in pre-order.
type Record struct {
	ID         string   `yaml:"id" json:"id"`
	Type       string   `yaml:"type" json:"type"`
	ParentID   string   `yaml:"parentid,omitempty" json:"parentid,omitempty"`
	Children   []string `yaml:"children,omitempty" json:"children,omitempty"`
	Title      string   `yaml:"title,omitempty" json:"title,omitempty"`
	URI        string   `yaml:"bmkUri,omitempty" json:"bmkUri,omitempty"`
	Position   int      `yaml:"pos,omitempty" json:"pos,omitempty"`
	Modified   int64    `yaml:"modified,omitempty" json:"modified,omitempty"` // ms since the epoch
	Deleted    bool     `yaml:"deleted,omitempty" json:"deleted,omitempty"`
	NeedsMerge bool     `yaml:"needs_merge,omitempty" json:"needs_merge,omitempty"`
	Validity   string   `yaml:"validity,omitempty" json:"validity,omitempty"`
}

// Guid returns the record's ID as a GUID
func (r Record) Guid() guid.Guid {
	return guid.Guid(r.ID)
}

// IsFolder reports whether the record's type can hold children
func (r Record) IsFolder() bool {
	kind, ok := tree.ParseKind(r.Type)
	return ok && (tree.Item{Kind: kind}).IsFolder()
}

// Item converts the record to a tree item. Ages are measured from now.
func (r Record) Item(now time.Time) (tree.Item, error) {
	kind, ok := tree.ParseKind(r.Type)
	if !ok {
		return tree.Item{}, errors.Newf(errors.ErrSourceParse, "record %s has unknown type %q", r.ID, r.Type).
			WithDetail("guid", r.ID)
	}
	validity, ok := tree.ParseValidity(r.Validity)
	if !ok {
		return tree.Item{}, errors.Newf(errors.ErrSourceParse, "record %s has unknown validity %q", r.ID, r.Validity).
			WithDetail("guid", r.ID)
	}
	return tree.Item{
		Guid:       r.Guid(),
		Kind:       kind,
		Age:        ageOf(r.Modified, now),
		NeedsMerge: r.NeedsMerge,
		Validity:   validity,
	}, nil
}

// Content returns the record's dedupe content
func (r Record) Content(kind tree.Kind) tree.Content {
	switch kind {
	case tree.Folder, tree.Livemark:
		return tree.FolderContent{Title: r.Title}
	case tree.Separator:
		return tree.SeparatorContent{Position: r.Position}
	default:
		return tree.BookmarkContent{Title: r.Title, URL: r.URI}
	}
}

// ageOf turns a modification time into an age in milliseconds. Unknown and
// future times are age 0.
func ageOf(modified int64, now time.Time) int64 {
	if modified <= 0 {
		return 0
	}
	return max(now.UnixMilli()-modified, 0)
}

// ParseRecords decodes a record document. JSON documents are valid YAML, so
// both go through the YAML decoder.
func ParseRecords(data []byte) ([]Record, error) {
	var records []Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return nil, errors.Wrap(err, errors.ErrSourceParse, "failed to decode records")
	}
	seen := make(map[string]int, len(records))
	for i, r := range records {
		if r.ID == "" {
			return nil, errors.Newf(errors.ErrSourceParse, "record %d has no id", i).
				WithDetail("index", i)
		}
		if first, ok := seen[r.ID]; ok {
			return nil, errors.Newf(errors.ErrSourceParse, "records %d and %d share id %s", first, i, r.ID).
				WithDetail("guid", r.ID)
		}
		seen[r.ID] = i
	}
	return records, nil
}

// LoadRecords reads and decodes the record document at path
func LoadRecords(fsys filesystem.FS, path string) ([]Record, error) {
	logger := logging.GetLogger("sources")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceRead, "failed to read %s", path).
			WithDetail("path", path)
	}
	records, err := ParseRecords(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	logger.Debug().Str("path", path).Int("records", len(records)).Msg("Loaded records")
	return records, nil
}

// RecordsFromTree flattens t into records in pre-order, each carrying both
// its parentid and, for folders, its children. Tombstones follow as deleted
// records.
func RecordsFromTree(t *tree.Tree, now time.Time) []Record {
	records := make([]Record, 0, t.Size()+len(t.Deletions()))

	nodes := []tree.Node{t.Root()}
	for n := range t.Root().Descendants() {
		nodes = append(nodes, n)
	}
	for _, n := range nodes {
		item := n.Item()
		r := Record{
			ID:         string(item.Guid),
			Type:       lowerKind(item.Kind),
			NeedsMerge: item.NeedsMerge,
		}
		if item.Validity != tree.Valid {
			r.Validity = item.Validity.String()
		}
		if item.Age > 0 {
			r.Modified = now.UnixMilli() - item.Age
		}
		if parent, ok := n.Parent(); ok {
			r.ParentID = string(parent.Guid())
		}
		if item.IsFolder() {
			r.Children = []string{}
			for child := range n.Children() {
				r.Children = append(r.Children, string(child.Guid()))
			}
		}
		switch content := n.Content().(type) {
		case tree.BookmarkContent:
			r.Title, r.URI = content.Title, content.URL
		case tree.FolderContent:
			r.Title = content.Title
		case tree.SeparatorContent:
			r.Position = content.Position
		}
		records = append(records, r)
	}

	for _, g := range t.Deletions() {
		records = append(records, Record{ID: string(g), Deleted: true})
	}
	return records
}

// WriteRecords writes records as a YAML document
func WriteRecords(fsys filesystem.FS, path string, records []Record) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode records")
	}
	return filesystem.WriteFileAtomic(fsys, path, data, 0644)
}

func lowerKind(k tree.Kind) string {
	switch k {
	case tree.Bookmark:
		return "bookmark"
	case tree.Query:
		return "query"
	case tree.Folder:
		return "folder"
	case tree.Livemark:
		return "livemark"
	case tree.Separator:
		return "separator"
	}
	return fmt.Sprintf("kind%d", int(k))
}
