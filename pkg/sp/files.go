package sp

import (
	"context"
	"fmt"
	"strconv"
)

// FileInfo holds the properties of a file.
type FileInfo struct {
	Name              string `json:"Name"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
	Length            int64  `json:"Length"`
	ETag              string `json:"ETag"`
	Exists            bool   `json:"Exists"`
	MajorVersion      int    `json:"MajorVersion"`
	MinorVersion      int    `json:"MinorVersion"`
	TimeCreated       string `json:"TimeCreated"`
	TimeLastModified  string `json:"TimeLastModified"`
	UniqueID          string `json:"UniqueId"`
}

// FileAddResult is returned when a file is uploaded.
type FileAddResult struct {
	Data *Result
	File File
}

// Files is a handle to the files collection of a folder.
type Files struct {
	Queryable
}

// FilesFrom wraps q as a files collection.
func FilesFrom(q Queryable) Files {
	return Files{q}
}

// InBatch returns the collection bound to b.
func (fs Files) InBatch(b *Batch) Files {
	return Files{fs.Queryable.InBatch(b)}
}

// GetByName returns the file named name in this collection.
func (fs Files) GetByName(name string) File {
	return FileFrom(fs.Concat(fmt.Sprintf("('%s')", EscapeQueryValue(name))))
}

// List reads the files of the collection.
func (fs Files) List(ctx context.Context) *Pending[[]FileInfo] {
	pending := fs.send(ctx, &PendingOperation{Verb: VerbGet, Target: fs.Queryable, Name: OpFilesList})

	return mapPending(pending, func(result *Result) ([]FileInfo, error) {
		var files []FileInfo

		err := result.Decode(&files)
		if err != nil {
			return nil, err
		}

		return files, nil
	})
}

// Add uploads content as name. With overwrite unset an existing file makes
// the call fail.
func (fs Files) Add(ctx context.Context, name string, content []byte, overwrite bool) *Pending[*FileAddResult] {
	if content == nil {
		content = []byte{}
	}

	target := fs.DeriveChild(fmt.Sprintf("add(overwrite=%s,url='%s')", strconv.FormatBool(overwrite), EscapeQueryValue(name)))
	pending := fs.send(ctx, &PendingOperation{Verb: VerbPost, Target: target, Body: content, Name: OpFilesAdd})
	file := fs.GetByName(name)

	return mapPending(pending, func(result *Result) (*FileAddResult, error) {
		return &FileAddResult{Data: result, File: file}, nil
	})
}

// File is a handle to a single file.
type File struct {
	Queryable
}

// FileFrom wraps q as a file.
func FileFrom(q Queryable) File {
	return File{q}
}

// InBatch returns the file bound to b.
func (f File) InBatch(b *Batch) File {
	return File{f.Queryable.InBatch(b)}
}

// ListItemAllFields returns the list item backing the file.
func (f File) ListItemAllFields() Queryable {
	return f.DeriveChild("listItemAllFields")
}

// Info reads the file properties.
func (f File) Info(ctx context.Context) *Pending[*FileInfo] {
	pending := f.send(ctx, &PendingOperation{Verb: VerbGet, Target: f.Queryable, Name: OpFileInfo})

	return mapPending(pending, func(result *Result) (*FileInfo, error) {
		info := &FileInfo{}

		err := result.Decode(info)
		if err != nil {
			return nil, err
		}

		return info, nil
	})
}

// Delete removes the file. An empty etag matches any version.
func (f File) Delete(ctx context.Context, etag string) *Pending[*Result] {
	return f.send(ctx, &PendingOperation{Verb: VerbDelete, Target: f.Queryable, Headers: ifMatch(etag), Name: OpFileDelete})
}

// Recycle moves the file to the recycle bin and returns the recycle bin item id.
func (f File) Recycle(ctx context.Context) *Pending[string] {
	pending := f.send(ctx, &PendingOperation{Verb: VerbPost, Target: f.DeriveChild("recycle"), Name: OpFileRecycle})

	return mapPending(pending, func(result *Result) (string, error) {
		return scalarResult(result, "Recycle")
	})
}

// GetText reads the file content as text.
func (f File) GetText(ctx context.Context) *Pending[string] {
	target := f.DeriveChild("$value")
	pending := target.send(ctx, &PendingOperation{Verb: VerbGet, Target: target, Name: OpFileGetText})

	return mapPending(pending, func(result *Result) (string, error) {
		return result.Text(), nil
	})
}
