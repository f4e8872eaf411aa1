package sources

import (
	"strconv"
	"strings"
	"time"

	"github.com/beevik/etree"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/filesystem"
	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/logging"
	"github.com/arthur-debert/marktree/pkg/tree"
)

const (
	xbelDoctype = `DOCTYPE xbel PUBLIC "+//IDN python.org//DTD XML Bookmark Exchange Language 1.0//EN//XML" "http://pyxml.sourceforge.net/topics/dtds/xbel.dtd"`
	queryScheme = "place:"
)

type xbelFrame struct {
	elem     *etree.Element
	id       guid.Guid
	parent   guid.Guid
	position int
}

// childFrames lists the bookmark elements directly under elem, assigning
// each its GUID: the id attribute when it is a valid GUID, otherwise one
// derived from the element's place and content.
func childFrames(elem *etree.Element, parent guid.Guid) []xbelFrame {
	var frames []xbelFrame
	for _, child := range elem.ChildElements() {
		switch child.Tag {
		case "folder", "bookmark", "separator":
		default:
			continue
		}
		position := len(frames)
		id := guid.Guid(child.SelectAttrValue("id", ""))
		if !id.IsValid() {
			id = derivedGuid(strings.Join([]string{
				string(parent), strconv.Itoa(position), child.Tag, elementTitle(child), child.SelectAttrValue("href", ""),
			}, "\x00"))
		}
		frames = append(frames, xbelFrame{elem: child, id: id, parent: parent, position: position})
	}
	return frames
}

func elementTitle(elem *etree.Element) string {
	if title := elem.SelectElement("title"); title != nil {
		return strings.TrimSpace(title.Text())
	}
	return ""
}

// elementModified reads the modified (or added) attribute as ms since the
// epoch
func elementModified(elem *etree.Element) int64 {
	for _, attr := range []string{"modified", "added"} {
		value := elem.SelectAttrValue(attr, "")
		if value == "" {
			continue
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t.UnixMilli()
		}
	}
	return 0
}

// ParseXBEL converts an XBEL document into records in pre-order. Top-level
// elements are children of the root, which is the first record.
func ParseXBEL(data []byte) ([]Record, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, errors.Wrap(err, errors.ErrSourceParse, "failed to parse XBEL")
	}
	xbel := doc.SelectElement("xbel")
	if xbel == nil {
		return nil, errors.New(errors.ErrSourceParse, "document has no xbel element")
	}

	top := childFrames(xbel, guid.Root)
	records := []Record{{ID: string(guid.Root), Type: "folder", Children: frameIDs(top)}}

	stack := pushFrames(nil, top)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		r := Record{
			ID:       string(f.id),
			ParentID: string(f.parent),
			Title:    elementTitle(f.elem),
			Modified: elementModified(f.elem),
		}
		switch f.elem.Tag {
		case "folder":
			r.Type = "folder"
			children := childFrames(f.elem, f.id)
			r.Children = frameIDs(children)
			stack = pushFrames(stack, children)
		case "bookmark":
			r.URI = f.elem.SelectAttrValue("href", "")
			r.Type = "bookmark"
			if strings.HasPrefix(r.URI, queryScheme) {
				r.Type = "query"
			}
		case "separator":
			r.Type = "separator"
			r.Position = f.position
		}
		records = append(records, r)
	}
	return records, nil
}

func frameIDs(frames []xbelFrame) []string {
	ids := make([]string, len(frames))
	for i, f := range frames {
		ids[i] = string(f.id)
	}
	return ids
}

// pushFrames pushes frames onto stack so they pop in document order
func pushFrames(stack, frames []xbelFrame) []xbelFrame {
	for i := len(frames) - 1; i >= 0; i-- {
		stack = append(stack, frames[i])
	}
	return stack
}

// ReadXBEL reads the XBEL file at path into records
func ReadXBEL(fsys filesystem.FS, path string) ([]Record, error) {
	logger := logging.GetLogger("sources")

	data, err := fsys.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceRead, "failed to read %s", path).
			WithDetail("path", path)
	}
	records, err := ParseXBEL(data)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrSourceParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	logger.Debug().Str("path", path).Int("records", len(records)).Msg("Read XBEL")
	return records, nil
}

// RenderXBEL renders the tree's content below the root as an XBEL document.
// Modification times are reconstructed from ages relative to now.
func RenderXBEL(t *tree.Tree, now time.Time) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(xbelDoctype)
	xbel := doc.CreateElement("xbel")
	xbel.CreateAttr("version", "1.0")

	type frame struct {
		node   tree.Node
		parent *etree.Element
	}
	var stack []frame
	push := func(n tree.Node, parent *etree.Element) {
		start := len(stack)
		for child := range n.Children() {
			stack = append(stack, frame{node: child, parent: parent})
		}
		for i, j := start, len(stack)-1; i < j; i, j = i+1, j-1 {
			stack[i], stack[j] = stack[j], stack[i]
		}
	}

	push(t.Root(), xbel)
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		item := f.node.Item()
		var elem *etree.Element
		switch {
		case item.IsFolder():
			elem = f.parent.CreateElement("folder")
		case item.Kind == tree.Separator:
			elem = f.parent.CreateElement("separator")
		default:
			elem = f.parent.CreateElement("bookmark")
		}
		elem.CreateAttr("id", string(item.Guid))

		switch content := f.node.Content().(type) {
		case tree.BookmarkContent:
			elem.CreateAttr("href", content.URL)
			if item.Age > 0 {
				elem.CreateAttr("modified", modifiedAt(now, item.Age))
			}
			elem.CreateElement("title").SetText(content.Title)
		case tree.FolderContent:
			if item.Age > 0 {
				elem.CreateAttr("modified", modifiedAt(now, item.Age))
			}
			elem.CreateElement("title").SetText(content.Title)
		}

		if item.IsFolder() {
			push(f.node, elem)
		}
	}

	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render XBEL")
	}
	return data, nil
}

func modifiedAt(now time.Time, age int64) string {
	return now.Add(-time.Duration(age) * time.Millisecond).UTC().Format(time.RFC3339)
}

// WriteXBEL exports the tree as an XBEL file at path
func WriteXBEL(fsys filesystem.FS, path string, t *tree.Tree, now time.Time) error {
	data, err := RenderXBEL(t, now)
	if err != nil {
		return err
	}
	if err := filesystem.WriteFileAtomic(fsys, path, data, 0644); err != nil {
		return err
	}
	logger := logging.GetLogger("sources")
	logger.Debug().Str("path", path).Int("items", t.Size()-1).Msg("Wrote XBEL")
	return nil
}
