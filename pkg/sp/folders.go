package sp

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fivetwenty-io/sprest/internal/constants"
)

// FolderInfo holds the properties of a folder.
type FolderInfo struct {
	Exists             bool         `json:"Exists"`
	IsWOPIEnabled      bool         `json:"IsWOPIEnabled"`
	ItemCount          int          `json:"ItemCount"`
	Name               string       `json:"Name"`
	ProgID             string       `json:"ProgID"`
	ServerRelativeURL  string       `json:"ServerRelativeUrl"`
	ServerRelativePath ResourcePath `json:"ServerRelativePath"`
	TimeCreated        string       `json:"TimeCreated"`
	TimeLastModified   string       `json:"TimeLastModified"`
	UniqueID           string       `json:"UniqueId"`
	WelcomePage        string       `json:"WelcomePage"`
}

// FolderAddResult is returned when a folder is created.
type FolderAddResult struct {
	Data   *Result
	Folder Folder
}

// FolderUpdateResult is returned when a folder is updated.
type FolderUpdateResult struct {
	Data   *Result
	Folder Folder
}

// FolderDeleteParams are the options of Folder.DeleteWithParams.
type FolderDeleteParams struct {
	// BypassSharedLock deletes even when files hold shared locks.
	BypassSharedLock bool `json:"BypassSharedLock,omitempty"`
	// ETagMatch restricts the delete to a matching folder version.
	ETagMatch string `json:"ETagMatch,omitempty"`
	// DeleteIfEmpty deletes only empty folders.
	DeleteIfEmpty bool `json:"DeleteIfEmpty,omitempty"`
}

type folderDeleteParameters struct {
	FolderDeleteParams
	Metadata map[string]string `json:"__metadata"`
}

// Folders is a handle to a folders collection.
type Folders struct {
	Queryable
}

// FoldersFrom wraps q as a folders collection.
func FoldersFrom(q Queryable) Folders {
	return Folders{q}
}

// InBatch returns the collection bound to b.
func (fs Folders) InBatch(b *Batch) Folders {
	return Folders{fs.Queryable.InBatch(b)}
}

// GetByName returns the folder named name in this collection.
func (fs Folders) GetByName(name string) Folder {
	return FolderFrom(fs.Concat(fmt.Sprintf("('%s')", QuoteParam(name))))
}

// List reads the folders of the collection.
func (fs Folders) List(ctx context.Context) *Pending[[]FolderInfo] {
	pending := fs.send(ctx, &PendingOperation{Verb: VerbGet, Target: fs.Queryable, Name: OpFoldersList})

	return mapPending(pending, func(result *Result) ([]FolderInfo, error) {
		var folders []FolderInfo

		err := result.Decode(&folders)
		if err != nil {
			return nil, err
		}

		return folders, nil
	})
}

// Add creates a folder at url, relative to the collection.
func (fs Folders) Add(ctx context.Context, url string) *Pending[*FolderAddResult] {
	target := fs.DeriveChild(fmt.Sprintf("add('%s')", QuoteParam(url)))
	pending := fs.send(ctx, &PendingOperation{Verb: VerbPost, Target: target, Name: OpFoldersAdd})
	folder := fs.GetByName(url)

	return mapPending(pending, func(result *Result) (*FolderAddResult, error) {
		return &FolderAddResult{Data: result, Folder: folder}, nil
	})
}

// AddUsingPath creates a folder at a server relative URL. The returned folder
// handle addresses the new folder by path from the web.
func (fs Folders) AddUsingPath(ctx context.Context, serverRelativeURL string, overwrite bool) *Pending[*FolderAddResult] {
	escaped := QuoteParam(serverRelativeURL)
	target := fs.DeriveChild(fmt.Sprintf("addUsingPath(DecodedUrl='%s',overwrite=%s)", escaped, strconv.FormatBool(overwrite)))
	pending := fs.send(ctx, &PendingOperation{Verb: VerbPost, Target: target, Name: OpFoldersAddUsingPath})

	web := NewQueryable(fs.transport, fs.WebURL()).InBatch(fs.batch)
	folder := FolderFrom(web.DeriveChild(constants.APIPathSegment + "/web").
		DeriveChild(fmt.Sprintf("getFolderByServerRelativePath(decodedUrl='%s')", escaped)))

	return mapPending(pending, func(result *Result) (*FolderAddResult, error) {
		return &FolderAddResult{Data: result, Folder: folder}, nil
	})
}

// Folder is a handle to a single folder.
type Folder struct {
	Queryable
}

// FolderFrom wraps q as a folder.
func FolderFrom(q Queryable) Folder {
	return Folder{q}
}

// InBatch returns the folder bound to b.
func (f Folder) InBatch(b *Batch) Folder {
	return Folder{f.Queryable.InBatch(b)}
}

// Folders returns the sub folders.
func (f Folder) Folders() Folders {
	return FoldersFrom(f.DeriveChild("folders"))
}

// Files returns the files of the folder.
func (f Folder) Files() Files {
	return FilesFrom(f.DeriveChild("files"))
}

// ParentFolder returns the parent folder.
func (f Folder) ParentFolder() Folder {
	return FolderFrom(f.DeriveChild("parentFolder"))
}

// ListItemAllFields returns the list item backing the folder.
func (f Folder) ListItemAllFields() Queryable {
	return f.DeriveChild("listItemAllFields")
}

// Properties returns the property bag of the folder.
func (f Folder) Properties() Queryable {
	return f.DeriveChild("properties")
}

// ContentTypeOrder returns the order in which content types are displayed.
func (f Folder) ContentTypeOrder() Queryable {
	return f.DeriveChild("contentTypeOrder")
}

// UniqueContentTypeOrder returns the content type order set on this folder.
func (f Folder) UniqueContentTypeOrder() Queryable {
	return f.DeriveChild("uniqueContentTypeOrder")
}

// ServerRelativeURL returns the serverRelativeUrl property.
func (f Folder) ServerRelativeURL() Queryable {
	return f.DeriveChild("serverRelativeUrl")
}

// Info reads the folder properties.
func (f Folder) Info(ctx context.Context) *Pending[*FolderInfo] {
	pending := f.send(ctx, &PendingOperation{Verb: VerbGet, Target: f.Queryable, Name: OpFolderInfo})

	return mapPending(pending, func(result *Result) (*FolderInfo, error) {
		info := &FolderInfo{}

		err := result.Decode(info)
		if err != nil {
			return nil, err
		}

		return info, nil
	})
}

// Update merges props into the folder.
func (f Folder) Update(ctx context.Context, props map[string]interface{}) *Pending[*FolderUpdateResult] {
	pending := f.send(ctx, &PendingOperation{
		Verb:    VerbPatch,
		Target:  f.Queryable,
		Body:    typedBody("SP.Folder", props),
		Headers: ifMatch(constants.MatchAny),
		Name:    OpFolderUpdate,
	})

	return mapPending(pending, func(result *Result) (*FolderUpdateResult, error) {
		return &FolderUpdateResult{Data: result, Folder: f}, nil
	})
}

// Delete removes the folder. An empty etag matches any version.
func (f Folder) Delete(ctx context.Context, etag string) *Pending[*Result] {
	return f.send(ctx, &PendingOperation{
		Verb:    VerbDelete,
		Target:  f.Queryable,
		Headers: ifMatch(etag),
		Name:    OpFolderDelete,
	})
}

// Recycle moves the folder to the recycle bin and returns the id of the
// recycle bin item.
func (f Folder) Recycle(ctx context.Context) *Pending[string] {
	pending := f.send(ctx, &PendingOperation{Verb: VerbPost, Target: f.DeriveChild("recycle"), Name: OpFolderRecycle})

	return mapPending(pending, func(result *Result) (string, error) {
		return scalarResult(result, "Recycle")
	})
}

// DeleteWithParams deletes the folder with options.
func (f Folder) DeleteWithParams(ctx context.Context, params FolderDeleteParams) *Pending[*Result] {
	body := map[string]interface{}{
		"parameters": folderDeleteParameters{
			FolderDeleteParams: params,
			Metadata:           map[string]string{"type": "SP.FolderDeleteParameters"},
		},
	}

	return f.send(ctx, &PendingOperation{
		Verb:   VerbPost,
		Target: f.DeriveChild("DeleteWithParameters"),
		Body:   body,
		Name:   OpFolderDeleteParams,
	})
}

// AddSubFolderUsingPath creates a sub folder named leaf and returns its handle.
func (f Folder) AddSubFolderUsingPath(ctx context.Context, leaf string) *Pending[Folder] {
	pending := f.send(ctx, &PendingOperation{
		Verb:   VerbPost,
		Target: f.DeriveChild("AddSubFolderUsingPath"),
		Body:   map[string]interface{}{"leafPath": ToResourcePath(leaf)},
		Name:   OpFolderAddSubFolder,
	})
	sub := f.Folders().GetByName(leaf)

	return mapPending(pending, func(*Result) (Folder, error) {
		return sub, nil
	})
}

// GetItem reads the list item of the folder with the given selects and
// returns a handle to it. The item handle keeps the folder's batch binding.
func (f Folder) GetItem(ctx context.Context, selects ...string) *Pending[Item] {
	target := f.ListItemAllFields().Select(selects...)
	pending := target.send(ctx, &PendingOperation{Verb: VerbGet, Target: target, Name: OpFolderGetItem})
	transport, batch := f.transport, f.batch

	return mapPending(pending, func(result *Result) (Item, error) {
		url, err := result.ODataURL()
		if err != nil {
			return Item{}, fmt.Errorf("locating folder item: %w", err)
		}

		item := ItemFrom(NewQueryable(transport, url).InBatch(batch))
		item.Data = result

		return item, nil
	})
}

// GetShareable returns the list item handle sharing operations work on. The
// lookup is sent immediately even for batched folders; the returned item is
// bound to the folder's batch.
func (f Folder) GetShareable(ctx context.Context) (Item, error) {
	target := f.ListItemAllFields().unbatched().Select("Id")

	result, err := dispatch(ctx, f.transport, &PendingOperation{Verb: VerbGet, Target: target, Name: OpFolderGetShareable})
	if err != nil {
		return Item{}, fmt.Errorf("reading shareable item: %w", err)
	}

	url, err := result.ODataURL()
	if err != nil {
		return Item{}, fmt.Errorf("locating shareable item: %w", err)
	}

	return ItemFrom(NewQueryable(f.transport, url)).InBatch(f.batch), nil
}
